package outputs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/provisioning"
)

func TestCollect(t *testing.T) {
	cfg := &config.Config{Name: "redis-prod", Region: "eu-central-1"}
	state := provisioning.NewState()
	state.VPC = &aws.VPC{ID: "vpc-1", CIDR: "10.0.0.0/16"}
	state.SecurityGroup = &aws.SecurityGroup{ID: "sg-1"}
	state.Instances = []aws.InstanceAddress{
		{InstanceID: "i-1", PrivateIP: "10.0.48.10", PublicIP: "3.66.0.1"},
		{InstanceID: "i-2", PrivateIP: "10.0.48.11"},
	}
	state.Cluster = &aws.Cluster{Name: "redis-prod", Status: aws.ClusterStatusActive}

	rec := Collect(cfg, state)

	assert.Equal(t, "redis-prod", rec.Name)
	assert.Equal(t, "vpc-1", rec.VPCID)
	assert.Equal(t, "sg-1", rec.SecurityGroupID)
	assert.Equal(t, "redis-prod", rec.ClusterName)
	require.Len(t, rec.FleetAddresses, 2)
	assert.Equal(t, "3.66.0.1", rec.FleetAddresses[0].PublicIP)
	assert.Empty(t, rec.FleetAddresses[1].PublicIP)
	assert.False(t, rec.GeneratedAt.IsZero())
}

func TestCollect_PartialUnits(t *testing.T) {
	cfg := &config.Config{Name: "net-only", Region: "us-east-1"}
	state := provisioning.NewState()
	state.VPC = &aws.VPC{ID: "vpc-9"}

	rec := Collect(cfg, state)

	assert.Equal(t, "vpc-9", rec.VPCID)
	assert.Empty(t, rec.SecurityGroupID)
	assert.Empty(t, rec.ClusterName)
	assert.Empty(t, rec.FleetAddresses)
}

func TestRecord_WriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outputs.json")
	rec := &Record{
		Name:            "redis-prod",
		Region:          "eu-central-1",
		VPCID:           "vpc-1",
		SecurityGroupID: "sg-1",
		FleetAddresses:  []Address{{InstanceID: "i-1", PrivateIP: "10.0.48.10"}},
		ClusterName:     "redis-prod",
	}

	require.NoError(t, rec.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, rec.VPCID, got.VPCID)
	assert.Equal(t, rec.FleetAddresses, got.FleetAddresses)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
