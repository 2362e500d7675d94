package aws

import (
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func permission(from, to int32, cidr string) ec2types.IpPermission {
	return ec2types.IpPermission{
		IpProtocol: awssdk.String("tcp"),
		FromPort:   awssdk.Int32(from),
		ToPort:     awssdk.Int32(to),
		IpRanges:   []ec2types.IpRange{{CidrIp: awssdk.String(cidr)}},
	}
}

func TestDiffIngress_EmptyGroup(t *testing.T) {
	rules := []IngressRule{
		{Description: "ssh", FromPort: 22, ToPort: 22, Sources: []string{"203.0.113.0/24"}},
		{Description: "data", FromPort: 7000, ToPort: 7015, Sources: []string{"10.0.0.0/16"}},
	}

	authorize, revoke := diffIngress(nil, rules)
	assert.Empty(t, revoke)
	require.Len(t, authorize, 2)
}

func TestDiffIngress_Converged(t *testing.T) {
	current := []ec2types.IpPermission{
		permission(22, 22, "203.0.113.0/24"),
		permission(7000, 7015, "10.0.0.0/16"),
	}
	rules := []IngressRule{
		{FromPort: 22, ToPort: 22, Sources: []string{"203.0.113.0/24"}},
		{FromPort: 7000, ToPort: 7015, Sources: []string{"10.0.0.0/16"}},
	}

	authorize, revoke := diffIngress(current, rules)
	assert.Empty(t, authorize)
	assert.Empty(t, revoke)
}

func TestDiffIngress_RevokesStaleEntries(t *testing.T) {
	current := []ec2types.IpPermission{
		permission(22, 22, "0.0.0.0/0"), // manually widened, must go
		permission(7000, 7015, "10.0.0.0/16"),
	}
	rules := []IngressRule{
		{FromPort: 22, ToPort: 22, Sources: []string{"203.0.113.0/24"}},
		{FromPort: 7000, ToPort: 7015, Sources: []string{"10.0.0.0/16"}},
	}

	authorize, revoke := diffIngress(current, rules)
	require.Len(t, authorize, 1)
	assert.Equal(t, "203.0.113.0/24", strVal(authorize[0].IpRanges[0].CidrIp))
	require.Len(t, revoke, 1)
	assert.Equal(t, "0.0.0.0/0", strVal(revoke[0].IpRanges[0].CidrIp))
}

func TestDiffIngress_MultipleSourcesPerRule(t *testing.T) {
	rules := []IngressRule{
		{FromPort: 22, ToPort: 22, Sources: []string{"203.0.113.0/24", "198.51.100.0/24"}},
	}

	authorize, revoke := diffIngress(nil, rules)
	assert.Empty(t, revoke)
	require.Len(t, authorize, 2)
}

func TestDiffIngress_PortRangeChange(t *testing.T) {
	// Shrinking the port count replaces the old range entirely.
	current := []ec2types.IpPermission{permission(7000, 7015, "10.0.0.0/16")}
	rules := []IngressRule{{FromPort: 7000, ToPort: 7007, Sources: []string{"10.0.0.0/16"}}}

	authorize, revoke := diffIngress(current, rules)
	require.Len(t, authorize, 1)
	assert.Equal(t, int32(7007), awssdk.ToInt32(authorize[0].ToPort))
	require.Len(t, revoke, 1)
	assert.Equal(t, int32(7015), awssdk.ToInt32(revoke[0].ToPort))
}

func TestDiffIngress_IgnoresOtherProtocolKeyOnlyOnMatch(t *testing.T) {
	current := []ec2types.IpPermission{{
		IpProtocol: awssdk.String("udp"),
		FromPort:   awssdk.Int32(53),
		ToPort:     awssdk.Int32(53),
		IpRanges:   []ec2types.IpRange{{CidrIp: awssdk.String("10.0.0.0/16")}},
	}}
	rules := []IngressRule{{FromPort: 53, ToPort: 53, Sources: []string{"10.0.0.0/16"}}}

	// A UDP entry never satisfies a TCP rule: both sides change.
	authorize, revoke := diffIngress(current, rules)
	assert.Len(t, authorize, 1)
	assert.Len(t, revoke, 1)
}
