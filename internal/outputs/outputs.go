// Package outputs assembles and persists the machine-readable record of what
// an apply produced: the VPC, the fleet's guard security group and instance
// addresses, and the cluster name.
package outputs

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// Address is one fleet instance's reachable endpoints.
type Address struct {
	InstanceID string `json:"instance_id"`
	PrivateIP  string `json:"private_ip"`
	PublicIP   string `json:"public_ip,omitempty"`
}

// Record is the outputs document written after apply and read back by the
// outputs command.
type Record struct {
	Name            string    `json:"name"`
	Region          string    `json:"region"`
	GeneratedAt     time.Time `json:"generated_at"`
	VPCID           string    `json:"vpc_id,omitempty"`
	SecurityGroupID string    `json:"security_group_id,omitempty"`
	FleetAddresses  []Address `json:"fleet_addresses,omitempty"`
	ClusterName     string    `json:"cluster_name,omitempty"`
}

// Collect builds the record from provisioning results. Units that did not run
// leave their fields empty.
func Collect(cfg *config.Config, state *provisioning.State) *Record {
	rec := &Record{
		Name:        cfg.Name,
		Region:      cfg.Region,
		GeneratedAt: time.Now().UTC(),
	}

	if state.VPC != nil {
		rec.VPCID = state.VPC.ID
	}
	if state.SecurityGroup != nil {
		rec.SecurityGroupID = state.SecurityGroup.ID
	}
	for _, inst := range state.Instances {
		rec.FleetAddresses = append(rec.FleetAddresses, Address{
			InstanceID: inst.InstanceID,
			PrivateIP:  inst.PrivateIP,
			PublicIP:   inst.PublicIP,
		})
	}
	if state.Cluster != nil {
		rec.ClusterName = state.Cluster.Name
	}

	return rec
}

// Encode renders the record as indented JSON.
func (r *Record) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode outputs: %w", err)
	}
	return append(data, '\n'), nil
}

// WriteFile persists the record to path.
func (r *Record) WriteFile(path string) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write outputs file %s: %w", path, err)
	}
	return nil
}

// Decode parses a previously encoded record.
func Decode(data []byte) (*Record, error) {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse outputs record: %w", err)
	}
	return &rec, nil
}

// ReadFile loads a previously written record.
func ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read outputs file %s: %w", path, err)
	}
	rec, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}
