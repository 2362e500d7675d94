package config

import (
	"fmt"
	"net/netip"

	"github.com/rfleet/rfleet/internal/util/netutil"
)

// Severity levels for validation issues.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// SSHPort is reserved for the SSH ingress rule and must stay outside the data
// port range.
const SSHPort = 22

// Issue is a single validation finding scoped to a config field.
type Issue struct {
	Field    string
	Message  string
	Severity string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Field, i.Message)
}

// IsError reports whether this issue blocks provisioning.
func (i Issue) IsError() bool { return i.Severity == SeverityError }

// Validate checks the whole configuration and returns every issue found.
// Defaults and subnet derivation must already have been applied.
func (c *Config) Validate() []Issue {
	var issues []Issue

	if c.Name == "" {
		issues = append(issues, errIssue("name", "required"))
	}
	if c.Region == "" {
		issues = append(issues, errIssue("region", "required"))
	}

	issues = append(issues, c.Network.validate()...)
	if c.FleetEnabled() {
		issues = append(issues, c.Fleet.validate()...)
	}
	if c.ClusterEnabled() {
		issues = append(issues, c.Cluster.validate()...)
	}
	return issues
}

func (n *NetworkConfig) validate() []Issue {
	var issues []Issue

	if _, err := netip.ParsePrefix(n.CIDR); err != nil {
		issues = append(issues, errIssue("network.cidr", fmt.Sprintf("invalid CIDR: %v", err)))
		return issues
	}
	if len(n.AZs) == 0 {
		issues = append(issues, errIssue("network.azs", "at least one availability zone required"))
	}
	if len(n.PublicSubnets) > len(n.AZs) {
		issues = append(issues, errIssue("network.public_subnets",
			fmt.Sprintf("%d subnets declared but only %d availability zones", len(n.PublicSubnets), len(n.AZs))))
	}
	if len(n.PrivateSubnets) > len(n.AZs) {
		issues = append(issues, errIssue("network.private_subnets",
			fmt.Sprintf("%d subnets declared but only %d availability zones", len(n.PrivateSubnets), len(n.AZs))))
	}

	if n.NAT != NATSingle && n.NAT != NATNone {
		issues = append(issues, errIssue("network.nat", fmt.Sprintf("must be %q or %q", NATSingle, NATNone)))
	}
	if n.NAT == NATSingle && len(n.PrivateSubnets) > 0 && len(n.PublicSubnets) == 0 {
		issues = append(issues, errIssue("network.nat", "a single NAT gateway requires at least one public subnet"))
	}
	if n.NAT == NATNone && len(n.PrivateSubnets) > 0 {
		issues = append(issues, Issue{
			Field:    "network.nat",
			Message:  "private subnets have no internet egress with nat=none",
			Severity: SeverityWarning,
		})
	}

	// All subnets must sit inside the VPC CIDR and must not overlap each other.
	all := make([]string, 0, len(n.PublicSubnets)+len(n.PrivateSubnets))
	all = append(all, n.PublicSubnets...)
	all = append(all, n.PrivateSubnets...)
	for i, subnet := range all {
		inside, err := netutil.Contains(n.CIDR, subnet)
		if err != nil {
			issues = append(issues, errIssue("network.subnets", err.Error()))
			continue
		}
		if !inside {
			issues = append(issues, errIssue("network.subnets",
				fmt.Sprintf("subnet %s is not contained in %s", subnet, n.CIDR)))
		}
		for _, other := range all[i+1:] {
			if overlap, err := netutil.Overlap(subnet, other); err == nil && overlap {
				issues = append(issues, errIssue("network.subnets",
					fmt.Sprintf("subnets %s and %s overlap", subnet, other)))
			}
		}
	}
	return issues
}

func (f *FleetConfig) validate() []Issue {
	var issues []Issue

	if f.AMI == "" {
		issues = append(issues, errIssue("fleet.ami", "required"))
	}
	if f.KeyName == "" && !f.GenerateKey {
		issues = append(issues, errIssue("fleet.key_name", "set a key pair name or enable generate_key"))
	}
	if f.Count < 1 {
		issues = append(issues, errIssue("fleet.count", "must be at least 1"))
	}

	// Bounds follow the original deployment tool: base in [1024, 65500] and
	// the inclusive range end must stay below 65535.
	p := f.Ports
	if p.Base < 1024 || p.Base > 65500 {
		issues = append(issues, errIssue("fleet.ports.base", "must be between 1024 and 65500"))
	}
	if p.Count < 1 || p.Base+p.Count >= 65535 {
		issues = append(issues, errIssue("fleet.ports.count", "port range exceeds 65535 or is empty"))
	}
	if p.Base <= SSHPort && SSHPort <= p.Base+p.Count-1 {
		issues = append(issues, errIssue("fleet.ports", "data port range must not include the SSH port"))
	}

	issues = append(issues, validateCIDRList("fleet.ssh_allow", f.SSHAllow)...)
	issues = append(issues, validateCIDRList("fleet.data_allow", f.DataAllow)...)
	if len(f.SSHAllow) == 0 {
		issues = append(issues, Issue{
			Field:    "fleet.ssh_allow",
			Message:  "empty allow-list: no SSH ingress rule will be created",
			Severity: SeverityWarning,
		})
	}
	return issues
}

func (cl *ClusterConfig) validate() []Issue {
	var issues []Issue

	if cl.Version == "" {
		issues = append(issues, errIssue("cluster.version", "required"))
	}
	b := cl.Nodes
	if b.Min < 1 || b.Min > b.Desired || b.Desired > b.Max {
		issues = append(issues, errIssue("cluster.nodes", "bounds must satisfy 1 <= min <= desired <= max"))
	}

	for field, addon := range map[string]AddonConfig{
		"cluster.addons.cluster_autoscaler": cl.Addons.ClusterAutoscaler,
		"cluster.addons.argocd":             cl.Addons.ArgoCD.AddonConfig,
		"cluster.addons.argo_rollouts":      cl.Addons.ArgoRollouts,
	} {
		if addon.Enabled && addon.Version == "" {
			issues = append(issues, errIssue(field+".version", "a chart version is required for enabled add-ons"))
		}
	}
	return issues
}

func validateCIDRList(field string, cidrs []string) []Issue {
	var issues []Issue
	for _, cidr := range cidrs {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			issues = append(issues, errIssue(field, fmt.Sprintf("invalid CIDR %q", cidr)))
		}
	}
	return issues
}

func errIssue(field, msg string) Issue {
	return Issue{Field: field, Message: msg, Severity: SeverityError}
}
