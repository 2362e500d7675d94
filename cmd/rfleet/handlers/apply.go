// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rfleet/rfleet/internal/addons"
	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/outputs"
	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/platform/s3"
	"github.com/rfleet/rfleet/internal/provisioning"
	"github.com/rfleet/rfleet/internal/provisioning/cluster"
	"github.com/rfleet/rfleet/internal/provisioning/fleet"
	"github.com/rfleet/rfleet/internal/provisioning/network"
	"github.com/rfleet/rfleet/internal/util/async"
)

// Unit names accepted by --unit flags.
const (
	UnitNetwork = "network"
	UnitFleet   = "fleet"
	UnitCluster = "cluster"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// newInfraClient creates the AWS infrastructure client.
	newInfraClient = func(ctx context.Context, cfg *config.Config) (aws.InfrastructureManager, error) {
		timeouts := config.LoadTimeouts()
		return aws.NewClient(ctx, aws.ClientOpts{
			Region:            cfg.Region,
			AccessKeyID:       cfg.AccessKeyID,
			SecretAccessKey:   cfg.SecretAccessKey,
			RetryMaxAttempts:  timeouts.RetryMaxAttempts,
			RetryInitialDelay: timeouts.RetryInitialDelay,
		})
	}

	// newProvisioningContext creates a new provisioning context.
	newProvisioningContext = provisioning.NewContext

	// newObjectStore creates the S3 client for outputs mirroring.
	newObjectStore = func(ctx context.Context, cfg *config.Config) (s3.ObjectStore, error) {
		return s3.NewClient(ctx, s3.ClientOpts{
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
	}

	// newAddonPhase creates the add-on installation phase.
	newAddonPhase = func() provisioning.Phase {
		return addons.NewPhase()
	}

	// writeFile writes data to a file (for testing injection).
	writeFile = os.WriteFile
)

// Apply provisions the declared infrastructure.
//
// The workflow:
//  1. Load, default, and validate the configuration.
//  2. Provision the network unit (skipped only when no selected unit needs it).
//  3. Provision the fleet unit and the cluster unit (control plane, node
//     group, identity federation, add-ons) in parallel.
//  4. Write the generated SSH private key, if one was created.
//  5. Write the outputs record locally and optionally to S3.
//
// Re-applying an unchanged configuration is a no-op on the AWS side. A failed
// apply leaves created resources in place; running apply again resumes from
// the current live state.
func Apply(ctx context.Context, configPath string, units []string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	sel, err := selectUnits(units)
	if err != nil {
		return err
	}

	log.Printf("Applying configuration: %s", cfg.Name)

	client, err := newInfraClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}
	pCtx := newProvisioningContext(ctx, cfg, client)

	wantFleet := selected(sel, UnitFleet) && cfg.FleetEnabled()
	wantCluster := selected(sel, UnitCluster) && cfg.ClusterEnabled()

	phases := []provisioning.Phase{provisioning.NewValidationPhase()}
	if selected(sel, UnitNetwork) || wantFleet || wantCluster {
		phases = append(phases, network.NewProvisioner())
	}
	if err := provisioning.RunPhases(pCtx, phases); err != nil {
		return err
	}

	var tasks []async.Task
	if wantFleet {
		tasks = append(tasks, async.Task{Name: "fleet", Func: func(context.Context) error {
			return provisioning.RunPhases(pCtx, []provisioning.Phase{fleet.NewProvisioner()})
		}})
	}
	if wantCluster {
		tasks = append(tasks, async.Task{Name: "cluster", Func: func(context.Context) error {
			return provisioning.RunPhases(pCtx, []provisioning.Phase{
				cluster.NewProvisioner(),
				newAddonPhase(),
			})
		}})
	}
	if err := async.RunParallel(ctx, tasks); err != nil {
		return fmt.Errorf("apply failed: %w", err)
	}

	if err := writePrivateKey(cfg, pCtx.State); err != nil {
		return err
	}

	rec := outputs.Collect(cfg, pCtx.State)
	if err := writeOutputs(ctx, cfg, rec); err != nil {
		return err
	}

	printApplySuccess(cfg, rec)
	return nil
}

// selectUnits normalizes the --unit selection. An empty selection means all
// enabled units.
func selectUnits(units []string) (map[string]bool, error) {
	sel := make(map[string]bool, len(units))
	for _, unit := range units {
		switch unit {
		case UnitNetwork, UnitFleet, UnitCluster:
			sel[unit] = true
		default:
			return nil, fmt.Errorf("unknown unit %q (expected network, fleet, or cluster)", unit)
		}
	}
	return sel, nil
}

func selected(sel map[string]bool, unit string) bool {
	return len(sel) == 0 || sel[unit]
}

// writePrivateKey persists a generated SSH private key next to the outputs.
// Nothing is written when an existing key pair was referenced instead.
func writePrivateKey(cfg *config.Config, state *provisioning.State) error {
	if len(state.PrivateKey) == 0 {
		return nil
	}

	path := cfg.Name + "-key.pem"
	if err := writeFile(path, state.PrivateKey, 0o600); err != nil {
		return fmt.Errorf("failed to write private key: %w", err)
	}
	log.Printf("Private key saved to: %s", path)
	return nil
}

// outputsKey resolves the object key for the S3 mirror.
func outputsKey(cfg *config.Config) string {
	if cfg.Outputs.S3Key != "" {
		return cfg.Outputs.S3Key
	}
	return cfg.Name + "/outputs.json"
}

// writeOutputs persists the outputs record to the configured path and,
// when a bucket is configured, mirrors it to S3.
func writeOutputs(ctx context.Context, cfg *config.Config, rec *outputs.Record) error {
	if cfg.Outputs.Path != "" {
		if err := rec.WriteFile(cfg.Outputs.Path); err != nil {
			return err
		}
	}

	if cfg.Outputs.S3Bucket == "" {
		return nil
	}

	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	exists, err := store.BucketExists(ctx, cfg.Outputs.S3Bucket)
	if err != nil {
		return fmt.Errorf("failed to check outputs bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("outputs bucket %s does not exist or is not accessible", cfg.Outputs.S3Bucket)
	}
	data, err := rec.Encode()
	if err != nil {
		return err
	}
	key := outputsKey(cfg)
	if err := store.PutObject(ctx, cfg.Outputs.S3Bucket, key, data); err != nil {
		return fmt.Errorf("failed to upload outputs record: %w", err)
	}
	log.Printf("Outputs mirrored to s3://%s/%s", cfg.Outputs.S3Bucket, key)
	return nil
}

// printApplySuccess outputs completion info and next steps for the user.
func printApplySuccess(cfg *config.Config, rec *outputs.Record) {
	fmt.Printf("\nApply complete!\n")
	if cfg.Outputs.Path != "" {
		fmt.Printf("Outputs saved to: %s\n", cfg.Outputs.Path)
	}
	if len(rec.FleetAddresses) > 0 {
		fmt.Printf("\nFleet instances:\n")
		for _, addr := range rec.FleetAddresses {
			if addr.PublicIP != "" {
				fmt.Printf("  %s  %s (public %s)\n", addr.InstanceID, addr.PrivateIP, addr.PublicIP)
			} else {
				fmt.Printf("  %s  %s\n", addr.InstanceID, addr.PrivateIP)
			}
		}
	}
	if rec.ClusterName != "" {
		fmt.Printf("\nCluster %s is ready. Fetch credentials with:\n", rec.ClusterName)
		fmt.Printf("  aws eks update-kubeconfig --name %s --region %s\n", rec.ClusterName, cfg.Region)
	}
}
