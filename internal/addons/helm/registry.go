package helm

// DefaultChartSpecs contains the default chart specifications for each
// add-on. These point at the official chart repositories; users override
// repository, chart name, or version via config.
var DefaultChartSpecs = map[string]ChartSpec{
	"cluster-autoscaler": {
		Repository: "https://kubernetes.github.io/autoscaler",
		Name:       "cluster-autoscaler",
		Version:    "9.37.0",
	},
	"argo-cd": {
		Repository: "https://argoproj.github.io/argo-helm",
		Name:       "argo-cd",
		Version:    "7.3.4",
	},
	"argo-rollouts": {
		Repository: "https://argoproj.github.io/argo-helm",
		Name:       "argo-rollouts",
		Version:    "2.37.2",
	},
}
