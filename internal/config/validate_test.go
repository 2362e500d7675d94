package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg, err := Parse([]byte(sampleYAML))
	if err != nil {
		panic(err)
	}
	if err := cfg.Network.DeriveSubnets(); err != nil {
		panic(err)
	}
	return cfg
}

func errorsFor(issues []Issue, field string) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.IsError() && strings.HasPrefix(i.Field, field) {
			out = append(out, i)
		}
	}
	return out
}

func TestValidate_CleanConfig(t *testing.T) {
	issues := validConfig().Validate()
	for _, i := range issues {
		assert.False(t, i.IsError(), "unexpected error: %s", i)
	}
}

func TestValidate_RequiredIdentity(t *testing.T) {
	cfg := validConfig()
	cfg.Name = ""
	cfg.Region = ""
	issues := cfg.Validate()
	assert.NotEmpty(t, errorsFor(issues, "name"))
	assert.NotEmpty(t, errorsFor(issues, "region"))
}

func TestValidate_SubnetOutsideCIDR(t *testing.T) {
	cfg := validConfig()
	cfg.Network.PublicSubnets[0] = "192.168.0.0/24"
	issues := cfg.Validate()
	require.NotEmpty(t, errorsFor(issues, "network.subnets"))
	assert.Contains(t, errorsFor(issues, "network.subnets")[0].Message, "not contained")
}

func TestValidate_OverlappingSubnets(t *testing.T) {
	cfg := validConfig()
	cfg.Network.PrivateSubnets[0] = cfg.Network.PublicSubnets[0]
	issues := cfg.Validate()
	require.NotEmpty(t, errorsFor(issues, "network.subnets"))
	assert.Contains(t, errorsFor(issues, "network.subnets")[0].Message, "overlap")
}

func TestValidate_SubnetsExceedAZs(t *testing.T) {
	cfg := validConfig()
	cfg.Network.AZs = cfg.Network.AZs[:1]
	issues := cfg.Validate()
	assert.NotEmpty(t, errorsFor(issues, "network.public_subnets"))
	assert.NotEmpty(t, errorsFor(issues, "network.private_subnets"))
}

func TestValidate_NATMode(t *testing.T) {
	cfg := validConfig()
	cfg.Network.NAT = "multi"
	assert.NotEmpty(t, errorsFor(cfg.Validate(), "network.nat"))

	cfg = validConfig()
	cfg.Network.NAT = NATSingle
	cfg.Network.PublicSubnets = nil
	assert.NotEmpty(t, errorsFor(cfg.Validate(), "network.nat"))
}

func TestValidate_NATNoneWarnsOnPrivateSubnets(t *testing.T) {
	cfg := validConfig()
	cfg.Network.NAT = NATNone
	var warned bool
	for _, i := range cfg.Validate() {
		if i.Field == "network.nat" && !i.IsError() {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestValidate_PortBounds(t *testing.T) {
	tests := []struct {
		name  string
		ports PortsConfig
	}{
		{"base below 1024", PortsConfig{Base: 22, Count: 4}},
		{"base above 65500", PortsConfig{Base: 65501, Count: 4}},
		{"range past 65535", PortsConfig{Base: 65000, Count: 1000}},
		{"zero count", PortsConfig{Base: 7000, Count: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Fleet.Ports = tt.ports
			assert.NotEmpty(t, errorsFor(cfg.Validate(), "fleet.ports"))
		})
	}
}

func TestValidate_FleetKeyRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Fleet.KeyName = ""
	cfg.Fleet.GenerateKey = false
	assert.NotEmpty(t, errorsFor(cfg.Validate(), "fleet.key_name"))

	cfg.Fleet.GenerateKey = true
	assert.Empty(t, errorsFor(cfg.Validate(), "fleet.key_name"))
}

func TestValidate_FleetSkippedWhenDisabled(t *testing.T) {
	cfg := validConfig()
	disabled := false
	cfg.Fleet.Enabled = &disabled
	cfg.Fleet.AMI = ""
	assert.Empty(t, errorsFor(cfg.Validate(), "fleet"))
}

func TestValidate_NodeGroupBounds(t *testing.T) {
	cfg := validConfig()
	cfg.Cluster.Nodes = NodeGroupBounds{Min: 3, Desired: 2, Max: 5}
	assert.NotEmpty(t, errorsFor(cfg.Validate(), "cluster.nodes"))

	cfg.Cluster.Nodes = NodeGroupBounds{Min: 2, Desired: 6, Max: 5}
	assert.NotEmpty(t, errorsFor(cfg.Validate(), "cluster.nodes"))
}

func TestValidate_EnabledAddonNeedsVersion(t *testing.T) {
	cfg := validConfig()
	cfg.Cluster.Addons.ClusterAutoscaler.Version = ""
	issues := errorsFor(cfg.Validate(), "cluster.addons.cluster_autoscaler")
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0].Message, "chart version")

	// Disabled add-ons may omit the version.
	cfg = validConfig()
	cfg.Cluster.Addons.ArgoCD.Version = ""
	assert.Empty(t, errorsFor(cfg.Validate(), "cluster.addons.argocd"))
}

func TestValidate_InvalidAllowListCIDR(t *testing.T) {
	cfg := validConfig()
	cfg.Fleet.SSHAllow = []string{"203.0.113.5"}
	assert.NotEmpty(t, errorsFor(cfg.Validate(), "fleet.ssh_allow"))
}
