package addons

import (
	"github.com/rfleet/rfleet/internal/addons/helm"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// argoRolloutsValues builds Helm values for Argo Rollouts. The controller
// needs no cloud wiring; the dashboard stays off since Argo CD already
// surfaces rollout state when both are installed.
func argoRolloutsValues(_ *provisioning.Context) helm.Values {
	return helm.Values{
		"dashboard": helm.Values{
			"enabled": false,
		},
	}
}
