package network

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/provisioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const networkYAML = `
name: redis-prod
region: eu-central-1
network:
  cidr: 10.0.0.0/16
  azs: [eu-central-1a, eu-central-1b]
fleet:
  ami: ami-0123456789abcdef0
  key_name: ops
`

func newContext(t *testing.T, mock *aws.MockClient) *provisioning.Context {
	t.Helper()
	cfg, err := config.Parse([]byte(networkYAML))
	require.NoError(t, err)
	require.NoError(t, cfg.Network.DeriveSubnets())
	return provisioning.NewContext(context.Background(), cfg, mock)
}

func TestProvision_BuildsFullNetwork(t *testing.T) {
	var subnetNames []string
	var natSubnet string
	var routeTables []aws.RouteTableOpts
	mock := &aws.MockClient{
		EnsureSubnetFunc: func(_ context.Context, _ *aws.VPC, name, cidr, az string, public bool, _ map[string]string) (*aws.Subnet, error) {
			subnetNames = append(subnetNames, name)
			return &aws.Subnet{ID: "subnet-" + name, CIDR: cidr, AZ: az, Public: public}, nil
		},
		EnsureNATGatewayFunc: func(_ context.Context, subnetID, _ string, _ map[string]string) (string, error) {
			natSubnet = subnetID
			return "nat-1", nil
		},
		EnsureRouteTableFunc: func(_ context.Context, opts aws.RouteTableOpts) (string, error) {
			routeTables = append(routeTables, opts)
			return "rtb-" + opts.Name, nil
		},
	}
	ctx := newContext(t, mock)

	require.NoError(t, NewProvisioner().Provision(ctx))

	assert.Equal(t, []string{
		"redis-prod-public-eu-central-1a",
		"redis-prod-public-eu-central-1b",
		"redis-prod-private-eu-central-1a",
		"redis-prod-private-eu-central-1b",
	}, subnetNames)

	require.NotNil(t, ctx.State.VPC)
	assert.Len(t, ctx.State.PublicSubnets, 2)
	assert.Len(t, ctx.State.PrivateSubnets, 2)
	assert.Equal(t, "nat-1", ctx.State.NATGateway)
	assert.Equal(t, ctx.State.PublicSubnets[0].ID, natSubnet, "NAT lives in the first public subnet")

	require.Len(t, routeTables, 2)
	assert.NotEmpty(t, routeTables[0].GatewayID)
	assert.Empty(t, routeTables[0].NATGatewayID)
	assert.Equal(t, "nat-1", routeTables[1].NATGatewayID)
	assert.Empty(t, routeTables[1].GatewayID)
}

func TestProvision_NATNoneSkipsNATAndPrivateRouting(t *testing.T) {
	natCalled := false
	var routeTables []aws.RouteTableOpts
	mock := &aws.MockClient{
		EnsureNATGatewayFunc: func(_ context.Context, _, _ string, _ map[string]string) (string, error) {
			natCalled = true
			return "nat-1", nil
		},
		EnsureRouteTableFunc: func(_ context.Context, opts aws.RouteTableOpts) (string, error) {
			routeTables = append(routeTables, opts)
			return "rtb-1", nil
		},
	}
	ctx := newContext(t, mock)
	ctx.Config.Network.NAT = config.NATNone

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.False(t, natCalled)
	require.Len(t, routeTables, 1, "only the public route table is created")
	assert.Empty(t, ctx.State.NATGateway)
}

func TestProvision_FailureMarksResourceFailed(t *testing.T) {
	mock := &aws.MockClient{
		EnsureVPCFunc: func(_ context.Context, _, _ string, _ map[string]string) (*aws.VPC, error) {
			return nil, &smithy.GenericAPIError{Code: "VpcLimitExceeded"}
		},
	}
	ctx := newContext(t, mock)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, provisioning.KindQuota, provisioning.KindOf(err))

	rec := ctx.State.Resource("redis-prod-vpc")
	require.NotNil(t, rec)
	assert.Equal(t, provisioning.StatusFailed, rec.Status)
}

func TestProvision_AdoptedVPCWithDifferentCIDRIsRejected(t *testing.T) {
	subnetCalled := false
	mock := &aws.MockClient{
		EnsureVPCFunc: func(_ context.Context, _, _ string, _ map[string]string) (*aws.VPC, error) {
			return &aws.VPC{ID: "vpc-existing", CIDR: "172.16.0.0/16"}, nil
		},
		EnsureSubnetFunc: func(_ context.Context, _ *aws.VPC, _, _, _ string, _ bool, _ map[string]string) (*aws.Subnet, error) {
			subnetCalled = true
			return nil, errors.New("unreachable")
		},
	}
	ctx := newContext(t, mock)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, provisioning.KindValidation, provisioning.KindOf(err))
	assert.Contains(t, err.Error(), "network.cidr")
	assert.Contains(t, err.Error(), "172.16.0.0/16")
	assert.False(t, subnetCalled, "no subnets are carved into a mismatched VPC")

	rec := ctx.State.Resource("redis-prod-vpc")
	require.NotNil(t, rec)
	assert.Equal(t, provisioning.StatusFailed, rec.Status)
}

func TestProvision_Idempotence(t *testing.T) {
	// The mock's Ensure defaults return stable records, so a second run
	// resolves the same IDs and leaves every resource ready.
	mock := &aws.MockClient{}
	ctx := newContext(t, mock)

	require.NoError(t, NewProvisioner().Provision(ctx))
	first := ctx.State.Resources()

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, first, ctx.State.Resources())
	for _, rec := range ctx.State.Resources() {
		assert.Equal(t, provisioning.StatusReady, rec.Status, rec.Name)
	}
}

func TestProvision_SubnetErrorWrapsName(t *testing.T) {
	mock := &aws.MockClient{
		EnsureSubnetFunc: func(_ context.Context, _ *aws.VPC, _, _, _ string, _ bool, _ map[string]string) (*aws.Subnet, error) {
			return nil, errors.New("boom")
		},
	}
	ctx := newContext(t, mock)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis-prod-public-eu-central-1a")
}
