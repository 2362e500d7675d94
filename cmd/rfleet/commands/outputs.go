package commands

import (
	"github.com/spf13/cobra"

	"github.com/rfleet/rfleet/cmd/rfleet/handlers"
)

// Outputs returns the command for printing the outputs record.
func Outputs() *cobra.Command {
	var (
		configPath string
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Print the outputs record as JSON",
		Long: `Outputs prints the record written by the last apply: VPC id,
security group id, fleet instance addresses, and cluster name.

With --refresh the fleet addresses are re-read live from the
autoscaling group, so the record stays accurate after instance
replacements. The refreshed record is written back to the configured
outputs path and, when configured, mirrored to S3.

Examples:
  rfleet outputs
  rfleet outputs --refresh -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Outputs(cmd.Context(), configPath, refresh)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: rfleet.yaml)")
	cmd.Flags().BoolVarP(&refresh, "refresh", "r", false, "Re-read fleet addresses from AWS")

	return cmd
}
