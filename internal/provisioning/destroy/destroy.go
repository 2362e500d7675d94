// Package destroy tears the stack down in reverse dependency order: the
// cluster unit first, then the fleet, then the network. Each teardown phase
// is idempotent; resources that are already gone are skipped.
package destroy

import (
	"context"

	"github.com/rfleet/rfleet/internal/provisioning"
)

// ClusterTeardown removes the managed Kubernetes unit.
type ClusterTeardown struct{}

// NewClusterTeardown creates the cluster teardown phase.
func NewClusterTeardown() *ClusterTeardown {
	return &ClusterTeardown{}
}

// Name implements the Phase interface.
func (p *ClusterTeardown) Name() string {
	return "cluster-teardown"
}

// Provision implements the Phase interface.
func (p *ClusterTeardown) Provision(ctx *provisioning.Context) error {
	name := provisioning.ClusterName(ctx.Config.Name)
	ctx.State.Transition(name, "eks-cluster", "", provisioning.StatusDeleting)

	delCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Delete)
	defer cancel()
	if err := ctx.Infra.DeleteCluster(delCtx, name); err != nil {
		ctx.State.Transition(name, "eks-cluster", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}

	ctx.State.Transition(name, "eks-cluster", "", provisioning.StatusAbsent)
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceDeleted,
		Phase:    p.Name(),
		Resource: name,
		Message:  "cluster deleted",
	})
	return nil
}

// FleetTeardown removes the instance fleet unit.
type FleetTeardown struct{}

// NewFleetTeardown creates the fleet teardown phase.
func NewFleetTeardown() *FleetTeardown {
	return &FleetTeardown{}
}

// Name implements the Phase interface.
func (p *FleetTeardown) Name() string {
	return "fleet-teardown"
}

// Provision implements the Phase interface.
func (p *FleetTeardown) Provision(ctx *provisioning.Context) error {
	name := provisioning.FleetName(ctx.Config.Name)
	ctx.State.Transition(name, "autoscaling-group", "", provisioning.StatusDeleting)

	delCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Delete)
	defer cancel()
	if err := ctx.Infra.DeleteFleet(delCtx, ctx.Config.Name); err != nil {
		ctx.State.Transition(name, "autoscaling-group", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}

	ctx.State.Transition(name, "autoscaling-group", "", provisioning.StatusAbsent)
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceDeleted,
		Phase:    p.Name(),
		Resource: name,
		Message:  "fleet deleted",
	})
	return nil
}

// NetworkTeardown removes the virtual network unit. It must run last since
// both other units hold resources inside the VPC.
type NetworkTeardown struct{}

// NewNetworkTeardown creates the network teardown phase.
func NewNetworkTeardown() *NetworkTeardown {
	return &NetworkTeardown{}
}

// Name implements the Phase interface.
func (p *NetworkTeardown) Name() string {
	return "network-teardown"
}

// Provision implements the Phase interface.
func (p *NetworkTeardown) Provision(ctx *provisioning.Context) error {
	name := provisioning.VPCName(ctx.Config.Name)
	ctx.State.Transition(name, "vpc", "", provisioning.StatusDeleting)

	delCtx, cancel := context.WithTimeout(ctx, ctx.Timeouts.Delete)
	defer cancel()
	if err := ctx.Infra.DeleteNetwork(delCtx, ctx.Config.Name); err != nil {
		ctx.State.Transition(name, "vpc", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}

	ctx.State.Transition(name, "vpc", "", provisioning.StatusAbsent)
	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceDeleted,
		Phase:    p.Name(),
		Resource: name,
		Message:  "network deleted",
	})
	return nil
}
