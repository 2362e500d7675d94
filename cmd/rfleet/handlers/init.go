package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/rfleet/rfleet/internal/config"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = func(path string) bool {
		_, err := os.Stat(path)
		return err == nil
	}

	// runWizard runs the interactive wizard.
	runWizard = config.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = config.WriteYAML
)

// Init creates a configuration file, interactively unless yes is set.
func Init(ctx context.Context, outputPath, name string, yes bool) error {
	if fileExists(outputPath) {
		fmt.Printf("Warning: %s already exists and will be overwritten.\n\n", outputPath)
	}

	var result *config.WizardResult
	if yes {
		result = starterResult(name)
	} else {
		printWelcome()
		var err error
		result, err = runWizard(ctx)
		if err != nil {
			return err
		}
	}

	cfg := result.ToConfig()
	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

// starterResult is the non-interactive default selection. The AMI is left as
// a placeholder the user must edit before apply.
func starterResult(name string) *config.WizardResult {
	if name == "" {
		name = "rfleet-demo"
	}
	return &config.WizardResult{
		Name:       name,
		Region:     "eu-central-1",
		AZCount:    2,
		AMI:        "ami-CHANGE-ME",
		FleetCount: 3,
		Cluster:    true,
		Addons:     []string{"cluster_autoscaler"},
	}
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("rfleet - data-store fleet and Kubernetes on AWS")
	fmt.Println("===============================================")
	fmt.Println()
	fmt.Println("This wizard creates a configuration with sensible defaults.")
	fmt.Println("The generated YAML is fully expanded and explicit.")
	fmt.Println()
}

// printInitSuccess prints the summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Deployment Summary")
	fmt.Println("------------------")
	fmt.Printf("  Name:    %s\n", cfg.Name)
	fmt.Printf("  Region:  %s (%d zones)\n", cfg.Region, len(cfg.Network.AZs))
	fmt.Printf("  Fleet:   %d x %s, ports %d-%d\n",
		cfg.Fleet.Count, cfg.Fleet.InstanceType,
		cfg.Fleet.Ports.Base, cfg.Fleet.Ports.Base+cfg.Fleet.Ports.Count-1)
	if cfg.ClusterEnabled() {
		fmt.Printf("  Cluster: v%s, %d-%d x %s nodes\n",
			cfg.Cluster.Version, cfg.Cluster.Nodes.Min, cfg.Cluster.Nodes.Max, cfg.Cluster.NodeType)
	} else {
		fmt.Println("  Cluster: disabled")
	}
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Println("  1. Set your AWS credentials:")
	fmt.Println("     export AWS_ACCESS_KEY_ID=... AWS_SECRET_ACCESS_KEY=...")
	fmt.Println()
	fmt.Printf("  2. Review %s (set the fleet AMI if needed)\n", outputPath)
	fmt.Println()
	fmt.Println("  3. Provision:")
	fmt.Println("     rfleet apply")
	fmt.Println()
}
