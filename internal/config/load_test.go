package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
name: redis-prod
region: eu-central-1
network:
  cidr: 10.0.0.0/16
  azs: [eu-central-1a, eu-central-1b, eu-central-1c]
  nat: single
fleet:
  ami: ami-0123456789abcdef0
  instance_type: t3.medium
  key_name: ops
  count: 3
  public: true
  ssh_allow: [203.0.113.0/24]
  data_allow: [10.0.0.0/16]
  ports: {base: 7000, count: 16}
cluster:
  version: "1.29"
  node_type: t3.large
  nodes: {min: 2, desired: 2, max: 5}
  addons:
    cluster_autoscaler: {enabled: true, version: 9.37.0}
    argocd: {enabled: false, version: 7.3.4, service_type: LoadBalancer}
    argo_rollouts: {enabled: true, version: 2.37.2}
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "redis-prod", cfg.Name)
	assert.Equal(t, "eu-central-1", cfg.Region)
	assert.Equal(t, "10.0.0.0/16", cfg.Network.CIDR)
	assert.Len(t, cfg.Network.AZs, 3)
	assert.Equal(t, NATSingle, cfg.Network.NAT)

	assert.Equal(t, 3, cfg.Fleet.Count)
	assert.True(t, cfg.FleetPublic())
	assert.Equal(t, 7000, cfg.Fleet.Ports.Base)
	assert.Equal(t, 16, cfg.Fleet.Ports.Count)

	assert.Equal(t, "1.29", cfg.Cluster.Version)
	assert.True(t, cfg.Cluster.Addons.ClusterAutoscaler.Enabled)
	assert.False(t, cfg.Cluster.Addons.ArgoCD.Enabled)
	assert.Equal(t, "LoadBalancer", cfg.Cluster.Addons.ArgoCD.ServiceType)
	assert.True(t, cfg.Cluster.Addons.ArgoRollouts.Enabled)
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("name: minimal\nregion: us-east-1\nnetwork:\n  azs: [us-east-1a]\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultNetworkCIDR, cfg.Network.CIDR)
	assert.Equal(t, NATSingle, cfg.Network.NAT)
	assert.Equal(t, DefaultFleetCount, cfg.Fleet.Count)
	assert.Equal(t, DefaultPortBase, cfg.Fleet.Ports.Base)
	assert.Equal(t, DefaultPortCount, cfg.Fleet.Ports.Count)
	assert.Equal(t, DefaultClusterVersion, cfg.Cluster.Version)
	assert.Equal(t, NodeGroupBounds{Min: 2, Desired: 2, Max: 5}, cfg.Cluster.Nodes)
	assert.Equal(t, "kube-system", cfg.Cluster.Addons.ClusterAutoscaler.Namespace)
	assert.Equal(t, "argocd", cfg.Cluster.Addons.ArgoCD.Namespace)
	assert.Equal(t, DefaultArgoCDServiceType, cfg.Cluster.Addons.ArgoCD.ServiceType)
	assert.True(t, cfg.FleetEnabled())
	assert.True(t, cfg.ClusterEnabled())
	assert.False(t, cfg.FleetPublic())
}

func TestParse_UnknownKeyRejected(t *testing.T) {
	_, err := Parse([]byte("name: x\nregions: typo\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rfleet.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "redis-prod", cfg.Name)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")

	cfg, err := Parse([]byte("name: x\nregion: us-east-1\nnetwork:\n  azs: [us-east-1a]\n"))
	require.NoError(t, err)
	assert.Equal(t, "AKIAEXAMPLE", cfg.AccessKeyID)
	assert.Equal(t, "secret", cfg.SecretAccessKey)
}

func TestDeriveSubnets(t *testing.T) {
	n := NetworkConfig{
		CIDR: "10.0.0.0/16",
		AZs:  []string{"us-east-1a", "us-east-1b", "us-east-1c"},
	}
	require.NoError(t, n.DeriveSubnets())
	assert.Equal(t, []string{"10.0.0.0/20", "10.0.16.0/20", "10.0.32.0/20"}, n.PublicSubnets)
	assert.Equal(t, []string{"10.0.48.0/20", "10.0.64.0/20", "10.0.80.0/20"}, n.PrivateSubnets)
}

func TestDeriveSubnets_KeepsExplicitLists(t *testing.T) {
	n := NetworkConfig{
		CIDR:          "10.0.0.0/16",
		AZs:           []string{"us-east-1a"},
		PublicSubnets: []string{"10.0.1.0/24"},
	}
	require.NoError(t, n.DeriveSubnets())
	assert.Equal(t, []string{"10.0.1.0/24"}, n.PublicSubnets)
	assert.Empty(t, n.PrivateSubnets)
}
