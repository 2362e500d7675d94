package addons

import (
	"github.com/rfleet/rfleet/internal/addons/helm"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// autoscalerValues builds Helm values for the cluster autoscaler. Node group
// discovery runs by cluster name, and the service account assumes the IAM
// role prepared during cluster provisioning.
func autoscalerValues(ctx *provisioning.Context) helm.Values {
	values := helm.Values{
		"cloudProvider": "aws",
		"awsRegion":     ctx.Config.Region,
		"autoDiscovery": helm.Values{
			"clusterName": provisioning.ClusterName(ctx.Config.Name),
		},
		"extraArgs": helm.Values{
			"balance-similar-node-groups":   true,
			"skip-nodes-with-system-pods":   false,
			"skip-nodes-with-local-storage": false,
		},
	}

	if ctx.State.AutoscalerRoleARN != "" {
		values["rbac"] = helm.Values{
			"serviceAccount": helm.Values{
				"name": "cluster-autoscaler",
				"annotations": helm.Values{
					"eks.amazonaws.com/role-arn": ctx.State.AutoscalerRoleARN,
				},
			},
		}
	}

	return values
}
