package commands

import (
	"github.com/spf13/cobra"

	"github.com/rfleet/rfleet/cmd/rfleet/handlers"
)

// Init returns the command for interactively creating a configuration file.
//
// Flags:
//
//	--output, -o: Path to output file (default "rfleet.yaml")
//	--yes, -y: Skip the wizard and write a starter config with defaults
//	--name, -n: Deployment name used with --yes
func Init() *cobra.Command {
	var (
		outputPath string
		yes        bool
		name       string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create an rfleet configuration file.

The wizard asks for the deployment name, region, availability zones,
fleet sizing, and which cluster add-ons to enable. The generated YAML
is fully expanded so every default is visible and editable.

Use --yes to skip the wizard and write a starter file with defaults.

Examples:
  # Run the wizard
  rfleet init

  # Non-interactive starter config
  rfleet init --yes --name redis-prod`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, name, yes)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "rfleet.yaml", "Output file path")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the wizard and write defaults")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Deployment name (used with --yes)")

	return cmd
}
