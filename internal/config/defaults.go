package config

import (
	"fmt"

	"github.com/rfleet/rfleet/internal/util/netutil"
)

// Default values applied after decoding. Versions track the charts the tool
// was last verified against; users pin their own via config.
const (
	DefaultNetworkCIDR       = "10.0.0.0/16"
	DefaultInstanceType      = "t3.medium"
	DefaultNodeType          = "t3.large"
	DefaultClusterVersion    = "1.29"
	DefaultPortBase          = 7000
	DefaultPortCount         = 16
	DefaultFleetCount        = 3
	DefaultArgoCDServiceType = "LoadBalancer"

	// Subnets derived from the VPC CIDR are carved as /20 blocks.
	derivedSubnetPrefixLen = 20
)

func applyDefaults(cfg *Config) {
	if cfg.Network.CIDR == "" {
		cfg.Network.CIDR = DefaultNetworkCIDR
	}
	if cfg.Network.NAT == "" {
		cfg.Network.NAT = NATSingle
	}
	if cfg.Fleet.InstanceType == "" {
		cfg.Fleet.InstanceType = DefaultInstanceType
	}
	if cfg.Fleet.Count == 0 {
		cfg.Fleet.Count = DefaultFleetCount
	}
	if cfg.Fleet.Ports.Base == 0 {
		cfg.Fleet.Ports.Base = DefaultPortBase
	}
	if cfg.Fleet.Ports.Count == 0 {
		cfg.Fleet.Ports.Count = DefaultPortCount
	}
	if cfg.Cluster.Version == "" {
		cfg.Cluster.Version = DefaultClusterVersion
	}
	if cfg.Cluster.NodeType == "" {
		cfg.Cluster.NodeType = DefaultNodeType
	}
	if cfg.Cluster.Nodes == (NodeGroupBounds{}) {
		cfg.Cluster.Nodes = NodeGroupBounds{Min: 2, Desired: 2, Max: 5}
	}

	addons := &cfg.Cluster.Addons
	if addons.ClusterAutoscaler.Namespace == "" {
		addons.ClusterAutoscaler.Namespace = "kube-system"
	}
	if addons.ArgoCD.Namespace == "" {
		addons.ArgoCD.Namespace = "argocd"
	}
	if addons.ArgoCD.ServiceType == "" {
		addons.ArgoCD.ServiceType = DefaultArgoCDServiceType
	}
	if addons.ArgoRollouts.Namespace == "" {
		addons.ArgoRollouts.Namespace = "argo-rollouts"
	}
}

// DeriveSubnets fills in PublicSubnets and PrivateSubnets from the VPC CIDR
// when they were omitted, one subnet per AZ. Public subnets occupy the first
// blocks, private subnets follow.
func (n *NetworkConfig) DeriveSubnets() error {
	if len(n.AZs) == 0 {
		return fmt.Errorf("network.azs must list at least one availability zone")
	}
	if len(n.PublicSubnets) > 0 || len(n.PrivateSubnets) > 0 {
		return nil
	}

	blocks, err := netutil.Subnets(n.CIDR, derivedSubnetPrefixLen, 2*len(n.AZs))
	if err != nil {
		return fmt.Errorf("failed to derive subnets from %s: %w", n.CIDR, err)
	}
	n.PublicSubnets = blocks[:len(n.AZs)]
	n.PrivateSubnets = blocks[len(n.AZs):]
	return nil
}
