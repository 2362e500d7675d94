package aws

import (
	"context"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEC2 overrides only the calls a test expects; anything else panics via
// the embedded nil interface.
type fakeEC2 struct {
	EC2API

	describeVpcs          func(*ec2.DescribeVpcsInput) (*ec2.DescribeVpcsOutput, error)
	createVpc             func(*ec2.CreateVpcInput) (*ec2.CreateVpcOutput, error)
	modifyVpcAttribute    func(*ec2.ModifyVpcAttributeInput) (*ec2.ModifyVpcAttributeOutput, error)
	describeSubnets       func(*ec2.DescribeSubnetsInput) (*ec2.DescribeSubnetsOutput, error)
	createSubnet          func(*ec2.CreateSubnetInput) (*ec2.CreateSubnetOutput, error)
	modifySubnetAttribute func(*ec2.ModifySubnetAttributeInput) (*ec2.ModifySubnetAttributeOutput, error)
	describeRouteTables   func(*ec2.DescribeRouteTablesInput) (*ec2.DescribeRouteTablesOutput, error)
	associateRouteTable   func(*ec2.AssociateRouteTableInput) (*ec2.AssociateRouteTableOutput, error)
}

func (f *fakeEC2) DescribeVpcs(_ context.Context, in *ec2.DescribeVpcsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcsOutput, error) {
	return f.describeVpcs(in)
}

func (f *fakeEC2) CreateVpc(_ context.Context, in *ec2.CreateVpcInput, _ ...func(*ec2.Options)) (*ec2.CreateVpcOutput, error) {
	return f.createVpc(in)
}

func (f *fakeEC2) ModifyVpcAttribute(_ context.Context, in *ec2.ModifyVpcAttributeInput, _ ...func(*ec2.Options)) (*ec2.ModifyVpcAttributeOutput, error) {
	return f.modifyVpcAttribute(in)
}

func (f *fakeEC2) DescribeSubnets(_ context.Context, in *ec2.DescribeSubnetsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSubnetsOutput, error) {
	return f.describeSubnets(in)
}

func (f *fakeEC2) CreateSubnet(_ context.Context, in *ec2.CreateSubnetInput, _ ...func(*ec2.Options)) (*ec2.CreateSubnetOutput, error) {
	return f.createSubnet(in)
}

func (f *fakeEC2) ModifySubnetAttribute(_ context.Context, in *ec2.ModifySubnetAttributeInput, _ ...func(*ec2.Options)) (*ec2.ModifySubnetAttributeOutput, error) {
	return f.modifySubnetAttribute(in)
}

func (f *fakeEC2) DescribeRouteTables(_ context.Context, in *ec2.DescribeRouteTablesInput, _ ...func(*ec2.Options)) (*ec2.DescribeRouteTablesOutput, error) {
	return f.describeRouteTables(in)
}

func (f *fakeEC2) AssociateRouteTable(_ context.Context, in *ec2.AssociateRouteTableInput, _ ...func(*ec2.Options)) (*ec2.AssociateRouteTableOutput, error) {
	return f.associateRouteTable(in)
}

func TestEnsureVPC_ExistingIsNotRecreated(t *testing.T) {
	creates := 0
	fake := &fakeEC2{
		describeVpcs: func(in *ec2.DescribeVpcsInput) (*ec2.DescribeVpcsOutput, error) {
			return &ec2.DescribeVpcsOutput{Vpcs: []ec2types.Vpc{{
				VpcId:     awssdk.String("vpc-existing"),
				CidrBlock: awssdk.String("10.0.0.0/16"),
			}}}, nil
		},
		createVpc: func(in *ec2.CreateVpcInput) (*ec2.CreateVpcOutput, error) {
			creates++
			return nil, nil
		},
	}
	client := &RealClient{ec2: fake}

	vpc, err := client.EnsureVPC(context.Background(), "redis-prod-vpc", "10.0.0.0/16", nil)
	require.NoError(t, err)
	assert.Equal(t, "vpc-existing", vpc.ID)
	assert.Zero(t, creates, "existing VPC must not trigger a create")
}

func TestEnsureVPC_CreatesAndEnablesDNS(t *testing.T) {
	var dnsCalls int
	fake := &fakeEC2{
		describeVpcs: func(in *ec2.DescribeVpcsInput) (*ec2.DescribeVpcsOutput, error) {
			return &ec2.DescribeVpcsOutput{}, nil
		},
		createVpc: func(in *ec2.CreateVpcInput) (*ec2.CreateVpcOutput, error) {
			assert.Equal(t, "10.0.0.0/16", strVal(in.CidrBlock))
			require.Len(t, in.TagSpecifications, 1)
			return &ec2.CreateVpcOutput{Vpc: &ec2types.Vpc{VpcId: awssdk.String("vpc-new")}}, nil
		},
		modifyVpcAttribute: func(in *ec2.ModifyVpcAttributeInput) (*ec2.ModifyVpcAttributeOutput, error) {
			dnsCalls++
			return &ec2.ModifyVpcAttributeOutput{}, nil
		},
	}
	client := &RealClient{ec2: fake}

	vpc, err := client.EnsureVPC(context.Background(), "redis-prod-vpc", "10.0.0.0/16", nil)
	require.NoError(t, err)
	assert.Equal(t, "vpc-new", vpc.ID)
	assert.Equal(t, 2, dnsCalls, "DNS support and hostnames are enabled separately")
}

func TestEnsureSubnet_PublicGetsAutoAssign(t *testing.T) {
	var mapped bool
	fake := &fakeEC2{
		describeSubnets: func(in *ec2.DescribeSubnetsInput) (*ec2.DescribeSubnetsOutput, error) {
			return &ec2.DescribeSubnetsOutput{}, nil
		},
		createSubnet: func(in *ec2.CreateSubnetInput) (*ec2.CreateSubnetOutput, error) {
			return &ec2.CreateSubnetOutput{Subnet: &ec2types.Subnet{SubnetId: awssdk.String("subnet-1")}}, nil
		},
		modifySubnetAttribute: func(in *ec2.ModifySubnetAttributeInput) (*ec2.ModifySubnetAttributeOutput, error) {
			mapped = awssdk.ToBool(in.MapPublicIpOnLaunch.Value)
			return &ec2.ModifySubnetAttributeOutput{}, nil
		},
	}
	client := &RealClient{ec2: fake}

	subnet, err := client.EnsureSubnet(context.Background(), &VPC{ID: "vpc-1"}, "redis-prod-public-a", "10.0.0.0/20", "eu-central-1a", true, nil)
	require.NoError(t, err)
	assert.Equal(t, "subnet-1", subnet.ID)
	assert.True(t, mapped)
}

func TestEnsureRouteTable_OnlyAssociatesMissingSubnets(t *testing.T) {
	var associated []string
	fake := &fakeEC2{
		describeRouteTables: func(in *ec2.DescribeRouteTablesInput) (*ec2.DescribeRouteTablesOutput, error) {
			return &ec2.DescribeRouteTablesOutput{RouteTables: []ec2types.RouteTable{{
				RouteTableId: awssdk.String("rtb-1"),
				Associations: []ec2types.RouteTableAssociation{
					{SubnetId: awssdk.String("subnet-a")},
				},
			}}}, nil
		},
		associateRouteTable: func(in *ec2.AssociateRouteTableInput) (*ec2.AssociateRouteTableOutput, error) {
			associated = append(associated, strVal(in.SubnetId))
			return &ec2.AssociateRouteTableOutput{}, nil
		},
	}
	client := &RealClient{ec2: fake}

	id, err := client.EnsureRouteTable(context.Background(), RouteTableOpts{
		Name:      "redis-prod-public",
		VPCID:     "vpc-1",
		GatewayID: "igw-1",
		SubnetIDs: []string{"subnet-a", "subnet-b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "rtb-1", id)
	assert.Equal(t, []string{"subnet-b"}, associated)
}
