package fleet

import (
	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/platform/aws"
)

// IngressRules builds the exact ingress rule set for the fleet's security
// boundary: SSH from the admin allow-list and the data port range from the
// data allow-list. The data range covers ports base through base+count-1,
// both ends inclusive, so count ports total. With no data allow-list the
// range is opened to the VPC only.
func IngressRules(fleet *config.FleetConfig, vpcCIDR string) []aws.IngressRule {
	var rules []aws.IngressRule

	if len(fleet.SSHAllow) > 0 {
		rules = append(rules, aws.IngressRule{
			Description: "ssh",
			FromPort:    config.SSHPort,
			ToPort:      config.SSHPort,
			Sources:     fleet.SSHAllow,
		})
	}

	sources := fleet.DataAllow
	if len(sources) == 0 {
		sources = []string{vpcCIDR}
	}
	rules = append(rules, aws.IngressRule{
		Description: "data",
		FromPort:    int32(fleet.Ports.Base),
		ToPort:      int32(fleet.Ports.Base + fleet.Ports.Count - 1),
		Sources:     sources,
	})
	return rules
}
