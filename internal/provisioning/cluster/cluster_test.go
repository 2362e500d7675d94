package cluster

import (
	"context"
	"testing"
	"time"

	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/provisioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const clusterYAML = `
name: redis-prod
region: eu-central-1
network:
  azs: [eu-central-1a, eu-central-1b]
fleet:
  ami: ami-0123456789abcdef0
  key_name: ops
cluster:
  version: "1.29"
  node_type: t3.large
  nodes: {min: 2, desired: 2, max: 5}
  addons:
    cluster_autoscaler: {enabled: true, version: 9.37.0}
`

func newContext(t *testing.T, mock *aws.MockClient) *provisioning.Context {
	t.Helper()
	cfg, err := config.Parse([]byte(clusterYAML))
	require.NoError(t, err)
	ctx := provisioning.NewContext(context.Background(), cfg, mock)
	ctx.State.VPC = &aws.VPC{ID: "vpc-1", CIDR: "10.0.0.0/16"}
	ctx.State.PrivateSubnets = []*aws.Subnet{{ID: "subnet-priv-a"}, {ID: "subnet-priv-b"}}
	return ctx
}

func TestProvision_OrdersControlPlaneBeforeNodeGroup(t *testing.T) {
	var order []string
	mock := &aws.MockClient{
		EnsureClusterFunc: func(_ context.Context, opts aws.ClusterOpts) (*aws.Cluster, error) {
			order = append(order, "cluster")
			return &aws.Cluster{Name: opts.Name, Status: aws.ClusterStatusCreating}, nil
		},
		WaitForClusterActiveFunc: func(_ context.Context, name string, _ time.Duration) (*aws.Cluster, error) {
			order = append(order, "wait-active")
			return &aws.Cluster{
				Name:       name,
				Status:     aws.ClusterStatusActive,
				Endpoint:   "https://example.eks.amazonaws.com",
				OIDCIssuer: "https://oidc.eks.example.com/id/ABC",
			}, nil
		},
		EnsureNodeGroupFunc: func(_ context.Context, opts aws.NodeGroupOpts) error {
			order = append(order, "node-group")
			return nil
		},
		WaitForNodeGroupActiveFunc: func(_ context.Context, _, _ string, _ time.Duration) error {
			order = append(order, "wait-nodes")
			return nil
		},
	}
	ctx := newContext(t, mock)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, []string{"cluster", "wait-active", "node-group", "wait-nodes"}, order)
	assert.NotEmpty(t, ctx.State.Kubeconfig)
}

func TestProvision_NodeGroupBounds(t *testing.T) {
	var nodeGroup aws.NodeGroupOpts
	mock := &aws.MockClient{
		EnsureNodeGroupFunc: func(_ context.Context, opts aws.NodeGroupOpts) error {
			nodeGroup = opts
			return nil
		},
	}
	ctx := newContext(t, mock)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, "redis-prod-nodes", nodeGroup.Name)
	assert.Equal(t, "redis-prod", nodeGroup.ClusterName)
	assert.Equal(t, int32(2), nodeGroup.Min)
	assert.Equal(t, int32(2), nodeGroup.Desired)
	assert.Equal(t, int32(5), nodeGroup.Max)
	assert.Equal(t, []string{"subnet-priv-a", "subnet-priv-b"}, nodeGroup.SubnetIDs)
}

func TestProvision_AutoscalerRoleOnlyWhenAddonEnabled(t *testing.T) {
	roleCreated := false
	mock := &aws.MockClient{
		EnsureAutoscalerRoleFunc: func(_ context.Context, name, providerARN, issuerURL string) (string, error) {
			roleCreated = true
			assert.Equal(t, "redis-prod-cluster-autoscaler", name)
			assert.NotEmpty(t, providerARN)
			assert.NotEmpty(t, issuerURL)
			return "arn:aws:iam::000000000000:role/" + name, nil
		},
	}
	ctx := newContext(t, mock)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.True(t, roleCreated)
	assert.NotEmpty(t, ctx.State.AutoscalerRoleARN)

	// Disabled autoscaler skips the role.
	roleCreated = false
	ctx = newContext(t, mock)
	ctx.Config.Cluster.Addons.ClusterAutoscaler.Enabled = false
	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.False(t, roleCreated)
	assert.Empty(t, ctx.State.AutoscalerRoleARN)
}

func TestProvision_AlreadyActiveSkipsWait(t *testing.T) {
	waited := false
	mock := &aws.MockClient{
		EnsureClusterFunc: func(_ context.Context, opts aws.ClusterOpts) (*aws.Cluster, error) {
			return &aws.Cluster{
				Name:       opts.Name,
				Status:     aws.ClusterStatusActive,
				Endpoint:   "https://example.eks.amazonaws.com",
				OIDCIssuer: "https://oidc.eks.example.com/id/ABC",
			}, nil
		},
		WaitForClusterActiveFunc: func(_ context.Context, name string, _ time.Duration) (*aws.Cluster, error) {
			waited = true
			return nil, nil
		},
	}
	ctx := newContext(t, mock)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.False(t, waited)
}

func TestProvision_WithoutNetworkIsDependencyNotReady(t *testing.T) {
	ctx := newContext(t, &aws.MockClient{})
	ctx.State.VPC = nil

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, provisioning.KindDependencyNotReady, provisioning.KindOf(err))
}

func TestProvision_DisabledClusterDoesNothing(t *testing.T) {
	called := false
	mock := &aws.MockClient{
		EnsureClusterFunc: func(_ context.Context, _ aws.ClusterOpts) (*aws.Cluster, error) {
			called = true
			return nil, nil
		},
	}
	ctx := newContext(t, mock)
	disabled := false
	ctx.Config.Cluster.Enabled = &disabled

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.False(t, called)
}
