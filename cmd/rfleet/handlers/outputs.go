package handlers

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/outputs"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// refreshTimeout bounds the live address lookup; instances are expected to
// already be in service when outputs runs.
const refreshTimeout = 30 * time.Second

// readOutputsFile loads a record from disk (for testing injection).
var readOutputsFile = outputs.ReadFile

// Outputs prints the outputs record as JSON. Without refresh it reads the
// record the last apply wrote. With refresh the fleet addresses are re-read
// live and the record is written back (and mirrored to S3 when configured).
func Outputs(ctx context.Context, configPath string, refresh bool) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}

	rec, err := loadRecord(ctx, cfg, refresh)
	if err != nil {
		return err
	}

	if refresh {
		if err := refreshAddresses(ctx, cfg, rec); err != nil {
			return err
		}
		rec.GeneratedAt = time.Now().UTC()
		if err := writeOutputs(ctx, cfg, rec); err != nil {
			return err
		}
	}

	data, err := rec.Encode()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

// loadRecord reads the persisted record, falling back to the S3 mirror when
// the local file is gone. When refreshing, a missing record is not fatal: a
// fresh one is rebuilt from the live lookup.
func loadRecord(ctx context.Context, cfg *config.Config, refresh bool) (*outputs.Record, error) {
	if cfg.Outputs.Path != "" {
		rec, err := readOutputsFile(cfg.Outputs.Path)
		if err == nil {
			return rec, nil
		}
		if cfg.Outputs.S3Bucket != "" {
			if rec, mirrorErr := loadMirroredRecord(ctx, cfg); mirrorErr == nil {
				return rec, nil
			}
		}
		if !refresh {
			return nil, fmt.Errorf("%w\nRun 'rfleet apply' first, or use --refresh to read live state", err)
		}
	}

	rec := &outputs.Record{
		Name:   cfg.Name,
		Region: cfg.Region,
	}
	if cfg.ClusterEnabled() {
		rec.ClusterName = provisioning.ClusterName(cfg.Name)
	}
	return rec, nil
}

// loadMirroredRecord fetches the record from the configured S3 mirror.
func loadMirroredRecord(ctx context.Context, cfg *config.Config) (*outputs.Record, error) {
	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
	}
	data, err := store.GetObject(ctx, cfg.Outputs.S3Bucket, outputsKey(cfg))
	if err != nil {
		return nil, err
	}
	return outputs.Decode(data)
}

// refreshAddresses replaces the record's fleet addresses with the live
// membership of the autoscaling group.
func refreshAddresses(ctx context.Context, cfg *config.Config, rec *outputs.Record) error {
	if !cfg.FleetEnabled() {
		return nil
	}

	client, err := newInfraClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}

	addrs, err := client.GroupAddresses(ctx, provisioning.FleetName(cfg.Name), refreshTimeout)
	if err != nil {
		return fmt.Errorf("failed to read fleet addresses: %w", err)
	}

	rec.FleetAddresses = rec.FleetAddresses[:0]
	for _, addr := range addrs {
		rec.FleetAddresses = append(rec.FleetAddresses, outputs.Address{
			InstanceID: addr.InstanceID,
			PrivateIP:  addr.PrivateIP,
			PublicIP:   addr.PublicIP,
		})
	}
	return nil
}
