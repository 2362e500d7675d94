package handlers

import (
	"context"
	"fmt"

	"github.com/rfleet/rfleet/internal/provisioning"
)

// Validate runs the pre-flight configuration checks without any AWS calls.
// Warnings are printed; errors make the command fail.
func Validate(ctx context.Context, configPath string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	pCtx := newProvisioningContext(ctx, cfg, nil)
	if err := provisioning.NewValidationPhase().Provision(pCtx); err != nil {
		return err
	}

	fmt.Printf("Configuration %s is valid.\n", cfg.Name)
	fmt.Printf("  %d public and %d private subnets across %d zones\n",
		len(cfg.Network.PublicSubnets), len(cfg.Network.PrivateSubnets), len(cfg.Network.AZs))
	if cfg.FleetEnabled() {
		fmt.Printf("  fleet: %d instances, data ports %d-%d\n",
			cfg.Fleet.Count, cfg.Fleet.Ports.Base, cfg.Fleet.Ports.Base+cfg.Fleet.Ports.Count-1)
	}
	if cfg.ClusterEnabled() {
		fmt.Printf("  cluster: version %s, nodes %d-%d\n",
			cfg.Cluster.Version, cfg.Cluster.Nodes.Min, cfg.Cluster.Nodes.Max)
	}
	return nil
}
