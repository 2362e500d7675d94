package commands

import (
	"github.com/spf13/cobra"

	"github.com/rfleet/rfleet/cmd/rfleet/handlers"
)

// Destroy returns the destroy command.
//
// Units are torn down in reverse dependency order: cluster, fleet, network.
func Destroy() *cobra.Command {
	var (
		configPath string
		units      []string
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the provisioned infrastructure",
		Long: `Destroy removes the provisioned AWS resources.

Resources are deleted in reverse dependency order:
  - Cluster (node group, control plane, OIDC provider, IAM roles)
  - Fleet (autoscaling group, launch template, key pair, security group)
  - Network (NAT gateway, route tables, gateways, subnets, VPC)

Only resources tagged as managed by this deployment are touched.

Example:
  rfleet destroy -c rfleet.yaml

WARNING: This operation is irreversible. All data on the fleet is lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, units)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (required)")
	cmd.Flags().StringArrayVarP(&units, "unit", "u", nil, "Unit to destroy: network, fleet, or cluster (repeatable)")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
