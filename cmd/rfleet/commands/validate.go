package commands

import (
	"github.com/spf13/cobra"

	"github.com/rfleet/rfleet/cmd/rfleet/handlers"
)

// Validate returns the command for pre-flight configuration validation.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration without provisioning",
		Long: `Validate runs the same pre-flight checks apply performs, without
touching any AWS API: subnet layout and overlap, port range bounds,
node group bounds, and add-on version pins.

Example:
  rfleet validate -c rfleet.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Validate(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: rfleet.yaml)")

	return cmd
}
