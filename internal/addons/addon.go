// Package addons installs the cluster add-ons as Helm releases: the cluster
// autoscaler, Argo CD, and Argo Rollouts. Add-ons are independently
// toggleable; disabling one only gates future installs and never uninstalls
// an existing release.
package addons

import (
	"context"

	"helm.sh/helm/v3/pkg/release"

	"github.com/rfleet/rfleet/internal/addons/helm"
	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// Installer is the surface of the Helm client the manager depends on.
type Installer interface {
	InstallOrUpgrade(ctx context.Context, releaseName string, spec helm.ChartSpec, values map[string]interface{}) (*release.Release, error)
}

// InstallerFactory builds an Installer scoped to one namespace of the target
// cluster.
type InstallerFactory func(kubeconfig []byte, namespace string) (Installer, error)

// Addon describes one installable add-on: its chart registry key, the
// release it manages, and how its values are assembled from provisioning
// results.
type Addon struct {
	// Name keys into helm.DefaultChartSpecs.
	Name string
	// ReleaseName is the Helm release the add-on manages.
	ReleaseName string
	// Config carries the user's toggle, pin, and overrides.
	Config config.AddonConfig
	// Values builds the chart values from provisioning results.
	Values func(ctx *provisioning.Context) helm.Values
}

// Addons returns the add-on set for a config in install order. The cluster
// autoscaler goes first so scaling is live before workloads arrive; Argo CD
// precedes Argo Rollouts, which plugs into it.
func Addons(cfg *config.Config) []Addon {
	return []Addon{
		{
			Name:        "cluster-autoscaler",
			ReleaseName: "cluster-autoscaler",
			Config:      cfg.Cluster.Addons.ClusterAutoscaler,
			Values:      autoscalerValues,
		},
		{
			Name:        "argo-cd",
			ReleaseName: "argocd",
			Config:      cfg.Cluster.Addons.ArgoCD.AddonConfig,
			Values:      argoCDValues,
		},
		{
			Name:        "argo-rollouts",
			ReleaseName: "argo-rollouts",
			Config:      cfg.Cluster.Addons.ArgoRollouts,
			Values:      argoRolloutsValues,
		},
	}
}
