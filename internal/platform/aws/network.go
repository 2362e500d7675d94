package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const natPollInterval = 15 * time.Second

// EnsureVPC creates the VPC if it does not exist and enables DNS support and
// hostnames on it. Lookup is by Name tag.
func (c *RealClient) EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error) {
	out, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{Filters: nameFilter(name)})
	if err != nil {
		return nil, fmt.Errorf("describing VPC %s: %w", name, err)
	}
	if len(out.Vpcs) > 0 {
		v := out.Vpcs[0]
		return &VPC{ID: strVal(v.VpcId), CIDR: strVal(v.CidrBlock)}, nil
	}

	var created *ec2.CreateVpcOutput
	err = c.callWithRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.ec2.CreateVpc(ctx, &ec2.CreateVpcInput{
			CidrBlock:         awssdk.String(cidr),
			TagSpecifications: ec2TagSpec(ec2types.ResourceTypeVpc, name, tags),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating VPC %s: %w", name, err)
	}

	id := strVal(created.Vpc.VpcId)
	for _, attr := range []*ec2.ModifyVpcAttributeInput{
		{VpcId: awssdk.String(id), EnableDnsSupport: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)}},
		{VpcId: awssdk.String(id), EnableDnsHostnames: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)}},
	} {
		if _, err := c.ec2.ModifyVpcAttribute(ctx, attr); err != nil {
			return nil, fmt.Errorf("enabling DNS on VPC %s: %w", name, err)
		}
	}

	return &VPC{ID: id, CIDR: cidr}, nil
}

// EnsureSubnet creates a subnet in the given availability zone if it does not
// exist. Public subnets get automatic public IP assignment at launch.
func (c *RealClient) EnsureSubnet(ctx context.Context, vpc *VPC, name, cidr, az string, public bool, tags map[string]string) (*Subnet, error) {
	out, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{Filters: nameFilter(name)})
	if err != nil {
		return nil, fmt.Errorf("describing subnet %s: %w", name, err)
	}
	if len(out.Subnets) > 0 {
		s := out.Subnets[0]
		return &Subnet{ID: strVal(s.SubnetId), CIDR: strVal(s.CidrBlock), AZ: strVal(s.AvailabilityZone), Public: public}, nil
	}

	var created *ec2.CreateSubnetOutput
	err = c.callWithRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.ec2.CreateSubnet(ctx, &ec2.CreateSubnetInput{
			VpcId:             awssdk.String(vpc.ID),
			CidrBlock:         awssdk.String(cidr),
			AvailabilityZone:  awssdk.String(az),
			TagSpecifications: ec2TagSpec(ec2types.ResourceTypeSubnet, name, tags),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating subnet %s: %w", name, err)
	}

	id := strVal(created.Subnet.SubnetId)
	if public {
		_, err := c.ec2.ModifySubnetAttribute(ctx, &ec2.ModifySubnetAttributeInput{
			SubnetId:            awssdk.String(id),
			MapPublicIpOnLaunch: &ec2types.AttributeBooleanValue{Value: awssdk.Bool(true)},
		})
		if err != nil {
			return nil, fmt.Errorf("enabling public IPs on subnet %s: %w", name, err)
		}
	}

	return &Subnet{ID: id, CIDR: cidr, AZ: az, Public: public}, nil
}

// EnsureInternetGateway creates the internet gateway if needed and attaches
// it to the VPC.
func (c *RealClient) EnsureInternetGateway(ctx context.Context, vpcID, name string, tags map[string]string) (string, error) {
	out, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{Filters: nameFilter(name)})
	if err != nil {
		return "", fmt.Errorf("describing internet gateway %s: %w", name, err)
	}

	var id string
	if len(out.InternetGateways) > 0 {
		igw := out.InternetGateways[0]
		id = strVal(igw.InternetGatewayId)
		for _, att := range igw.Attachments {
			if strVal(att.VpcId) == vpcID {
				return id, nil
			}
		}
	} else {
		var created *ec2.CreateInternetGatewayOutput
		err = c.callWithRetry(ctx, func(ctx context.Context) error {
			var err error
			created, err = c.ec2.CreateInternetGateway(ctx, &ec2.CreateInternetGatewayInput{
				TagSpecifications: ec2TagSpec(ec2types.ResourceTypeInternetGateway, name, tags),
			})
			return err
		})
		if err != nil {
			return "", fmt.Errorf("creating internet gateway %s: %w", name, err)
		}
		id = strVal(created.InternetGateway.InternetGatewayId)
	}

	_, err = c.ec2.AttachInternetGateway(ctx, &ec2.AttachInternetGatewayInput{
		InternetGatewayId: awssdk.String(id),
		VpcId:             awssdk.String(vpcID),
	})
	if err != nil {
		return "", fmt.Errorf("attaching internet gateway %s: %w", name, err)
	}
	return id, nil
}

// EnsureNATGateway allocates an elastic IP, creates the NAT gateway in the
// given public subnet, and blocks until it reports available. Pass a context
// with a deadline to bound the wait.
func (c *RealClient) EnsureNATGateway(ctx context.Context, subnetID, name string, tags map[string]string) (string, error) {
	out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
		Filter: append(nameFilter(name), ec2types.Filter{
			Name:   awssdk.String("state"),
			Values: []string{string(ec2types.NatGatewayStatePending), string(ec2types.NatGatewayStateAvailable)},
		}),
	})
	if err != nil {
		return "", fmt.Errorf("describing NAT gateway %s: %w", name, err)
	}

	var id string
	if len(out.NatGateways) > 0 {
		id = strVal(out.NatGateways[0].NatGatewayId)
	} else {
		alloc, err := c.ec2.AllocateAddress(ctx, &ec2.AllocateAddressInput{
			Domain:            ec2types.DomainTypeVpc,
			TagSpecifications: ec2TagSpec(ec2types.ResourceTypeElasticIp, name, tags),
		})
		if err != nil {
			return "", fmt.Errorf("allocating elastic IP for %s: %w", name, err)
		}

		var created *ec2.CreateNatGatewayOutput
		err = c.callWithRetry(ctx, func(ctx context.Context) error {
			var err error
			created, err = c.ec2.CreateNatGateway(ctx, &ec2.CreateNatGatewayInput{
				SubnetId:          awssdk.String(subnetID),
				AllocationId:      alloc.AllocationId,
				TagSpecifications: ec2TagSpec(ec2types.ResourceTypeNatgateway, name, tags),
			})
			return err
		})
		if err != nil {
			return "", fmt.Errorf("creating NAT gateway %s: %w", name, err)
		}
		id = strVal(created.NatGateway.NatGatewayId)
	}

	if err := c.waitForNATState(ctx, id, ec2types.NatGatewayStateAvailable); err != nil {
		return "", fmt.Errorf("waiting for NAT gateway %s: %w", name, err)
	}
	return id, nil
}

func (c *RealClient) waitForNATState(ctx context.Context, id string, want ec2types.NatGatewayState) error {
	ticker := time.NewTicker(natPollInterval)
	defer ticker.Stop()

	for {
		out, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
			NatGatewayIds: []string{id},
		})
		switch {
		case want == ec2types.NatGatewayStateDeleted && IsNotFound(err):
			return nil
		case err != nil:
			return err
		}

		for _, nat := range out.NatGateways {
			switch nat.State {
			case want:
				return nil
			case ec2types.NatGatewayStateFailed:
				return fmt.Errorf("NAT gateway %s entered failed state: %s", id, strVal(nat.FailureMessage))
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// EnsureRouteTable creates a route table with a default route through either
// the internet gateway or the NAT gateway, and associates the given subnets.
func (c *RealClient) EnsureRouteTable(ctx context.Context, opts RouteTableOpts) (string, error) {
	out, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{Filters: nameFilter(opts.Name)})
	if err != nil {
		return "", fmt.Errorf("describing route table %s: %w", opts.Name, err)
	}

	var id string
	associated := map[string]bool{}
	if len(out.RouteTables) > 0 {
		rt := out.RouteTables[0]
		id = strVal(rt.RouteTableId)
		for _, assoc := range rt.Associations {
			associated[strVal(assoc.SubnetId)] = true
		}
	} else {
		var created *ec2.CreateRouteTableOutput
		err = c.callWithRetry(ctx, func(ctx context.Context) error {
			var err error
			created, err = c.ec2.CreateRouteTable(ctx, &ec2.CreateRouteTableInput{
				VpcId:             awssdk.String(opts.VPCID),
				TagSpecifications: ec2TagSpec(ec2types.ResourceTypeRouteTable, opts.Name, opts.Tags),
			})
			return err
		})
		if err != nil {
			return "", fmt.Errorf("creating route table %s: %w", opts.Name, err)
		}
		id = strVal(created.RouteTable.RouteTableId)

		route := &ec2.CreateRouteInput{
			RouteTableId:         awssdk.String(id),
			DestinationCidrBlock: awssdk.String("0.0.0.0/0"),
		}
		if opts.GatewayID != "" {
			route.GatewayId = awssdk.String(opts.GatewayID)
		} else {
			route.NatGatewayId = awssdk.String(opts.NATGatewayID)
		}
		if _, err := c.ec2.CreateRoute(ctx, route); err != nil {
			return "", fmt.Errorf("creating default route for %s: %w", opts.Name, err)
		}
	}

	for _, subnetID := range opts.SubnetIDs {
		if associated[subnetID] {
			continue
		}
		_, err := c.ec2.AssociateRouteTable(ctx, &ec2.AssociateRouteTableInput{
			RouteTableId: awssdk.String(id),
			SubnetId:     awssdk.String(subnetID),
		})
		if err != nil {
			return "", fmt.Errorf("associating subnet %s with %s: %w", subnetID, opts.Name, err)
		}
	}
	return id, nil
}

// DeleteNetwork tears down every network resource tagged with the given
// stack: NAT gateways first (waiting for them to vanish), then elastic IPs,
// route tables, internet gateways, subnets, and finally the VPC.
func (c *RealClient) DeleteNetwork(ctx context.Context, stack string) error {
	nats, err := c.ec2.DescribeNatGateways(ctx, &ec2.DescribeNatGatewaysInput{
		Filter: append(stackFilter(stack), ec2types.Filter{
			Name:   awssdk.String("state"),
			Values: []string{string(ec2types.NatGatewayStatePending), string(ec2types.NatGatewayStateAvailable)},
		}),
	})
	if err != nil {
		return fmt.Errorf("listing NAT gateways: %w", err)
	}
	for _, nat := range nats.NatGateways {
		id := strVal(nat.NatGatewayId)
		if _, err := c.ec2.DeleteNatGateway(ctx, &ec2.DeleteNatGatewayInput{NatGatewayId: awssdk.String(id)}); err != nil {
			return fmt.Errorf("deleting NAT gateway %s: %w", id, err)
		}
		if err := c.waitForNATState(ctx, id, ec2types.NatGatewayStateDeleted); err != nil {
			return fmt.Errorf("waiting for NAT gateway %s to delete: %w", id, err)
		}
	}

	addrs, err := c.ec2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{Filters: stackFilter(stack)})
	if err != nil {
		return fmt.Errorf("listing elastic IPs: %w", err)
	}
	for _, addr := range addrs.Addresses {
		if _, err := c.ec2.ReleaseAddress(ctx, &ec2.ReleaseAddressInput{AllocationId: addr.AllocationId}); err != nil {
			return fmt.Errorf("releasing elastic IP %s: %w", strVal(addr.AllocationId), err)
		}
	}

	tables, err := c.ec2.DescribeRouteTables(ctx, &ec2.DescribeRouteTablesInput{Filters: stackFilter(stack)})
	if err != nil {
		return fmt.Errorf("listing route tables: %w", err)
	}
	for _, rt := range tables.RouteTables {
		for _, assoc := range rt.Associations {
			if awssdk.ToBool(assoc.Main) {
				continue
			}
			_, err := c.ec2.DisassociateRouteTable(ctx, &ec2.DisassociateRouteTableInput{
				AssociationId: assoc.RouteTableAssociationId,
			})
			if err != nil && !IsNotFound(err) {
				return fmt.Errorf("disassociating route table: %w", err)
			}
		}
		if _, err := c.ec2.DeleteRouteTable(ctx, &ec2.DeleteRouteTableInput{RouteTableId: rt.RouteTableId}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("deleting route table %s: %w", strVal(rt.RouteTableId), err)
		}
	}

	igws, err := c.ec2.DescribeInternetGateways(ctx, &ec2.DescribeInternetGatewaysInput{Filters: stackFilter(stack)})
	if err != nil {
		return fmt.Errorf("listing internet gateways: %w", err)
	}
	for _, igw := range igws.InternetGateways {
		for _, att := range igw.Attachments {
			_, err := c.ec2.DetachInternetGateway(ctx, &ec2.DetachInternetGatewayInput{
				InternetGatewayId: igw.InternetGatewayId,
				VpcId:             att.VpcId,
			})
			if err != nil && !IsNotFound(err) {
				return fmt.Errorf("detaching internet gateway: %w", err)
			}
		}
		if _, err := c.ec2.DeleteInternetGateway(ctx, &ec2.DeleteInternetGatewayInput{InternetGatewayId: igw.InternetGatewayId}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("deleting internet gateway %s: %w", strVal(igw.InternetGatewayId), err)
		}
	}

	subnets, err := c.ec2.DescribeSubnets(ctx, &ec2.DescribeSubnetsInput{Filters: stackFilter(stack)})
	if err != nil {
		return fmt.Errorf("listing subnets: %w", err)
	}
	for _, s := range subnets.Subnets {
		if _, err := c.ec2.DeleteSubnet(ctx, &ec2.DeleteSubnetInput{SubnetId: s.SubnetId}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("deleting subnet %s: %w", strVal(s.SubnetId), err)
		}
	}

	vpcs, err := c.ec2.DescribeVpcs(ctx, &ec2.DescribeVpcsInput{Filters: stackFilter(stack)})
	if err != nil {
		return fmt.Errorf("listing VPCs: %w", err)
	}
	for _, v := range vpcs.Vpcs {
		if _, err := c.ec2.DeleteVpc(ctx, &ec2.DeleteVpcInput{VpcId: v.VpcId}); err != nil && !IsNotFound(err) {
			return fmt.Errorf("deleting VPC %s: %w", strVal(v.VpcId), err)
		}
	}
	return nil
}
