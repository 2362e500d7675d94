// Package network provisions the virtual network unit: the VPC, its public
// and private subnets spread across availability zones, the internet
// gateway, the optional NAT gateway, and the route tables tying them
// together.
package network

import (
	"context"
	"fmt"

	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// Provisioner implements the Phase interface for the network unit.
type Provisioner struct{}

// NewProvisioner creates a new network provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the Phase interface.
func (p *Provisioner) Name() string {
	return "network"
}

// Provision implements the Phase interface. Every step is idempotent, so a
// rerun after a partial failure resumes where the previous apply stopped.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	vpc, err := p.ensureVPC(ctx)
	if err != nil {
		return err
	}
	ctx.State.VPC = vpc

	if err := p.ensureSubnets(ctx, vpc); err != nil {
		return err
	}
	if err := p.ensureGateways(ctx, vpc); err != nil {
		return err
	}
	return p.ensureRouting(ctx, vpc)
}

func (p *Provisioner) ensureVPC(ctx *provisioning.Context) (*aws.VPC, error) {
	name := provisioning.VPCName(ctx.Config.Name)
	ctx.State.Transition(name, "vpc", "", provisioning.StatusCreating)

	vpc, err := ctx.Infra.EnsureVPC(ctx, name, ctx.Config.Network.CIDR, ctx.Tags())
	if err != nil {
		ctx.State.Transition(name, "vpc", "", provisioning.StatusFailed)
		return nil, provisioning.ClassifyAPIError(name, err)
	}
	// A same-name VPC may predate this apply. Adopting it with a different
	// CIDR would carve subnets that don't fit, so refuse up front.
	if vpc.CIDR != ctx.Config.Network.CIDR {
		ctx.State.Transition(name, "vpc", vpc.ID, provisioning.StatusFailed)
		return nil, provisioning.E(provisioning.KindValidation, name,
			fmt.Errorf("network.cidr: existing VPC %s has CIDR %s, configuration declares %s",
				vpc.ID, vpc.CIDR, ctx.Config.Network.CIDR))
	}
	ctx.State.Transition(name, "vpc", vpc.ID, provisioning.StatusReady)
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreated,
		Phase:    p.Name(),
		Resource: name,
		Message:  fmt.Sprintf("VPC %s (%s)", vpc.ID, vpc.CIDR),
	})
	return vpc, nil
}

func (p *Provisioner) ensureSubnets(ctx *provisioning.Context, vpc *aws.VPC) error {
	cfg := ctx.Config

	public, err := p.ensureSubnetSet(ctx, vpc, cfg.Network.PublicSubnets, true)
	if err != nil {
		return err
	}
	ctx.State.PublicSubnets = public

	private, err := p.ensureSubnetSet(ctx, vpc, cfg.Network.PrivateSubnets, false)
	if err != nil {
		return err
	}
	ctx.State.PrivateSubnets = private
	return nil
}

// ensureSubnetSet creates one subnet per CIDR, assigning availability zones
// round-robin in config order.
func (p *Provisioner) ensureSubnetSet(ctx *provisioning.Context, vpc *aws.VPC, cidrs []string, public bool) ([]*aws.Subnet, error) {
	azs := ctx.Config.Network.AZs
	subnets := make([]*aws.Subnet, 0, len(cidrs))
	for i, cidr := range cidrs {
		az := azs[i%len(azs)]
		name := provisioning.PrivateSubnetName(ctx.Config.Name, az)
		if public {
			name = provisioning.PublicSubnetName(ctx.Config.Name, az)
		}

		ctx.State.Transition(name, "subnet", "", provisioning.StatusCreating)
		subnet, err := ctx.Infra.EnsureSubnet(ctx, vpc, name, cidr, az, public, ctx.Tags())
		if err != nil {
			ctx.State.Transition(name, "subnet", "", provisioning.StatusFailed)
			return nil, provisioning.ClassifyAPIError(name, err)
		}
		ctx.State.Transition(name, "subnet", subnet.ID, provisioning.StatusReady)
		subnets = append(subnets, subnet)
	}
	return subnets, nil
}

func (p *Provisioner) ensureGateways(ctx *provisioning.Context, vpc *aws.VPC) error {
	stack := ctx.Config.Name

	if len(ctx.State.PublicSubnets) > 0 {
		name := provisioning.InternetGatewayName(stack)
		ctx.State.Transition(name, "internet-gateway", "", provisioning.StatusCreating)
		id, err := ctx.Infra.EnsureInternetGateway(ctx, vpc.ID, name, ctx.Tags())
		if err != nil {
			ctx.State.Transition(name, "internet-gateway", "", provisioning.StatusFailed)
			return provisioning.ClassifyAPIError(name, err)
		}
		ctx.State.Transition(name, "internet-gateway", id, provisioning.StatusReady)
		ctx.State.InternetGateway = id
	}

	if ctx.Config.Network.NAT != config.NATSingle || len(ctx.State.PrivateSubnets) == 0 {
		return nil
	}

	name := provisioning.NATGatewayName(stack)
	ctx.State.Transition(name, "nat-gateway", "", provisioning.StatusCreating)

	// NAT gateways take a few minutes to come up.
	natCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.NATReady)
	defer cancel()
	id, err := ctx.Infra.EnsureNATGateway(natCtx, ctx.State.PublicSubnets[0].ID, name, ctx.Tags())
	if err != nil {
		ctx.State.Transition(name, "nat-gateway", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}
	ctx.State.Transition(name, "nat-gateway", id, provisioning.StatusReady)
	ctx.State.NATGateway = id
	return nil
}

func (p *Provisioner) ensureRouting(ctx *provisioning.Context, vpc *aws.VPC) error {
	stack := ctx.Config.Name

	if len(ctx.State.PublicSubnets) > 0 {
		name := provisioning.PublicRouteTableName(stack)
		ctx.State.Transition(name, "route-table", "", provisioning.StatusCreating)
		id, err := ctx.Infra.EnsureRouteTable(ctx, aws.RouteTableOpts{
			Name:      name,
			VPCID:     vpc.ID,
			GatewayID: ctx.State.InternetGateway,
			SubnetIDs: provisioning.SubnetIDs(ctx.State.PublicSubnets),
			Tags:      ctx.Tags(),
		})
		if err != nil {
			ctx.State.Transition(name, "route-table", "", provisioning.StatusFailed)
			return provisioning.ClassifyAPIError(name, err)
		}
		ctx.State.Transition(name, "route-table", id, provisioning.StatusReady)
	}

	// Without NAT, private subnets keep the main route table and stay
	// isolated from the internet.
	if ctx.State.NATGateway == "" || len(ctx.State.PrivateSubnets) == 0 {
		return nil
	}

	name := provisioning.PrivateRouteTableName(stack)
	ctx.State.Transition(name, "route-table", "", provisioning.StatusCreating)
	id, err := ctx.Infra.EnsureRouteTable(ctx, aws.RouteTableOpts{
		Name:         name,
		VPCID:        vpc.ID,
		NATGatewayID: ctx.State.NATGateway,
		SubnetIDs:    provisioning.SubnetIDs(ctx.State.PrivateSubnets),
		Tags:         ctx.Tags(),
	})
	if err != nil {
		ctx.State.Transition(name, "route-table", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}
	ctx.State.Transition(name, "route-table", id, provisioning.StatusReady)
	return nil
}
