package handlers

import (
	"context"
	"fmt"
	"log"

	"github.com/rfleet/rfleet/internal/provisioning"
	"github.com/rfleet/rfleet/internal/provisioning/destroy"
)

// Factory function variables for destroy - can be replaced in tests.
var (
	// newClusterTeardown creates the cluster teardown phase.
	newClusterTeardown = func() provisioning.Phase { return destroy.NewClusterTeardown() }

	// newFleetTeardown creates the fleet teardown phase.
	newFleetTeardown = func() provisioning.Phase { return destroy.NewFleetTeardown() }

	// newNetworkTeardown creates the network teardown phase.
	newNetworkTeardown = func() provisioning.Phase { return destroy.NewNetworkTeardown() }
)

// Destroy removes the provisioned resources for the selected units in
// reverse dependency order: cluster first, then fleet, then network.
// Teardown is tag-driven, so it works without any local state file.
func Destroy(ctx context.Context, configPath string, units []string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	sel, err := selectUnits(units)
	if err != nil {
		return err
	}

	log.Printf("Destroying deployment: %s", cfg.Name)

	client, err := newInfraClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}
	pCtx := newProvisioningContext(ctx, cfg, client)

	var phases []provisioning.Phase
	if selected(sel, UnitCluster) {
		phases = append(phases, newClusterTeardown())
	}
	if selected(sel, UnitFleet) {
		phases = append(phases, newFleetTeardown())
	}
	if selected(sel, UnitNetwork) {
		phases = append(phases, newNetworkTeardown())
	}

	if err := provisioning.RunPhases(pCtx, phases); err != nil {
		return fmt.Errorf("destroy failed: %w", err)
	}

	log.Printf("Deployment %s destroyed", cfg.Name)
	return nil
}
