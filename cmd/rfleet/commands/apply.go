package commands

import (
	"github.com/spf13/cobra"

	"github.com/rfleet/rfleet/cmd/rfleet/handlers"
)

// Apply returns the command for provisioning or reconciling infrastructure.
//
// Optional flags:
//
//	--config, -c: Path to the configuration YAML file (default: rfleet.yaml)
//	--unit, -u: Restrict the apply to specific units (repeatable)
//
// Environment variables:
//
//	AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: override config credentials
func Apply() *cobra.Command {
	var (
		configPath string
		units      []string
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the declared infrastructure",
		Long: `Create or update the declared AWS infrastructure.

The network unit is provisioned first; the fleet and cluster units then
run in parallel. Re-applying an unchanged configuration makes no changes.
An interrupted apply leaves partial resources in place for the next apply
to pick up.

Examples:
  # Apply everything in rfleet.yaml
  rfleet apply

  # Apply a specific config file
  rfleet apply -c production.yaml

  # Only reconcile the fleet (the network it depends on is included)
  rfleet apply --unit fleet`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, units)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: rfleet.yaml)")
	cmd.Flags().StringArrayVarP(&units, "unit", "u", nil, "Unit to apply: network, fleet, or cluster (repeatable)")

	return cmd
}
