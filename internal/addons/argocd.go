package addons

import (
	"github.com/rfleet/rfleet/internal/addons/helm"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// argoCDValues builds Helm values for Argo CD. The API server's service type
// comes from config so the UI can be exposed through a load balancer or kept
// cluster-internal.
func argoCDValues(ctx *provisioning.Context) helm.Values {
	return helm.Values{
		"server": helm.Values{
			"service": helm.Values{
				"type": ctx.Config.Cluster.Addons.ArgoCD.ServiceType,
			},
		},
	}
}
