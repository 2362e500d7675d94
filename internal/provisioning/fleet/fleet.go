// Package fleet provisions the fixed-size instance fleet unit: the SSH key
// pair, the security boundary around the data service, the launch template,
// and the self-healing instance group behind it.
package fleet

import (
	"errors"
	"fmt"

	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/provisioning"
	"github.com/rfleet/rfleet/internal/util/keygen"
)

// HealthCheckGracePeriodSeconds delays liveness evaluation of freshly
// launched instances so the data service has time to start before the group
// considers replacing them.
const HealthCheckGracePeriodSeconds = 120

// Provisioner implements the Phase interface for the fleet unit.
type Provisioner struct{}

// NewProvisioner creates a new fleet provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the Phase interface.
func (p *Provisioner) Name() string {
	return "fleet"
}

// Provision implements the Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if !ctx.Config.FleetEnabled() {
		ctx.Observer.Printf("[Fleet] disabled, skipping")
		return nil
	}
	if ctx.State.VPC == nil {
		return provisioning.E(provisioning.KindDependencyNotReady, provisioning.FleetName(ctx.Config.Name),
			errors.New("network unit has not been provisioned"))
	}

	keyName, err := p.ensureKeyPair(ctx)
	if err != nil {
		return err
	}

	sg, err := p.ensureSecurityGroup(ctx)
	if err != nil {
		return err
	}

	templateID, err := p.ensureLaunchTemplate(ctx, keyName, sg.ID)
	if err != nil {
		return err
	}

	return p.ensureGroup(ctx, templateID)
}

// ensureKeyPair resolves the SSH key for fleet instances. A pre-existing key
// is referenced by name; a generated one is created locally and its public
// half imported, with the private half kept in state for the caller to save.
func (p *Provisioner) ensureKeyPair(ctx *provisioning.Context) (string, error) {
	cfg := ctx.Config
	if !cfg.Fleet.GenerateKey {
		return cfg.Fleet.KeyName, nil
	}

	name := cfg.Fleet.KeyName
	if name == "" {
		name = provisioning.KeyPairName(cfg.Name)
	}

	ctx.State.Transition(name, "key-pair", "", provisioning.StatusCreating)
	pair, err := keygen.Generate(name)
	if err != nil {
		ctx.State.Transition(name, "key-pair", "", provisioning.StatusFailed)
		return "", provisioning.E(provisioning.KindInternal, name, fmt.Errorf("generating key pair: %w", err))
	}

	id, err := ctx.Infra.EnsureKeyPair(ctx, name, pair.PublicKey, ctx.Tags())
	if err != nil {
		ctx.State.Transition(name, "key-pair", "", provisioning.StatusFailed)
		return "", provisioning.ClassifyAPIError(name, err)
	}
	ctx.State.Transition(name, "key-pair", id, provisioning.StatusReady)
	ctx.State.KeyPairID = id
	ctx.State.PrivateKey = pair.PrivateKey
	return name, nil
}

func (p *Provisioner) ensureSecurityGroup(ctx *provisioning.Context) (*aws.SecurityGroup, error) {
	name := provisioning.SecurityGroupName(ctx.Config.Name)
	ctx.State.Transition(name, "security-group", "", provisioning.StatusCreating)

	rules := IngressRules(&ctx.Config.Fleet, ctx.State.VPC.CIDR)
	sg, err := ctx.Infra.EnsureSecurityGroup(ctx, name, ctx.State.VPC.ID, rules, ctx.Tags())
	if err != nil {
		ctx.State.Transition(name, "security-group", "", provisioning.StatusFailed)
		return nil, provisioning.ClassifyAPIError(name, err)
	}
	ctx.State.Transition(name, "security-group", sg.ID, provisioning.StatusReady)
	ctx.State.SecurityGroup = sg
	return sg, nil
}

func (p *Provisioner) ensureLaunchTemplate(ctx *provisioning.Context, keyName, sgID string) (string, error) {
	cfg := ctx.Config
	name := provisioning.LaunchTemplateName(cfg.Name)
	ctx.State.Transition(name, "launch-template", "", provisioning.StatusCreating)

	id, err := ctx.Infra.EnsureLaunchTemplate(ctx, aws.LaunchTemplateOpts{
		Name:            name,
		AMI:             cfg.Fleet.AMI,
		InstanceType:    cfg.Fleet.InstanceType,
		KeyName:         keyName,
		SecurityGroupID: sgID,
		PublicIP:        cfg.FleetPublic(),
		Tags:            ctx.Tags(),
	})
	if err != nil {
		ctx.State.Transition(name, "launch-template", "", provisioning.StatusFailed)
		return "", provisioning.ClassifyAPIError(name, err)
	}
	ctx.State.Transition(name, "launch-template", id, provisioning.StatusReady)
	ctx.State.LaunchTemplateID = id
	return id, nil
}

// ensureGroup creates the instance group with min, desired, and max all
// pinned to the configured count, then waits for the instances to come up.
func (p *Provisioner) ensureGroup(ctx *provisioning.Context, templateID string) error {
	cfg := ctx.Config
	name := provisioning.FleetName(cfg.Name)

	subnets := ctx.State.PrivateSubnets
	if cfg.FleetPublic() {
		subnets = ctx.State.PublicSubnets
	}
	if len(subnets) == 0 {
		return provisioning.E(provisioning.KindDependencyNotReady, name,
			errors.New("no subnets available for the fleet placement"))
	}

	count := int32(cfg.Fleet.Count)
	ctx.State.Transition(name, "autoscaling-group", "", provisioning.StatusCreating)
	err := ctx.Infra.EnsureGroup(ctx, aws.GroupOpts{
		Name:               name,
		LaunchTemplateID:   templateID,
		SubnetIDs:          provisioning.SubnetIDs(subnets),
		Min:                count,
		Desired:            count,
		Max:                count,
		GracePeriodSeconds: HealthCheckGracePeriodSeconds,
		Tags:               ctx.Tags(),
	})
	if err != nil {
		ctx.State.Transition(name, "autoscaling-group", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}

	addrs, err := ctx.Infra.GroupAddresses(ctx, name, ctx.Timeouts.InstancesReady)
	if err != nil {
		ctx.State.Transition(name, "autoscaling-group", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}
	ctx.State.Transition(name, "autoscaling-group", "", provisioning.StatusReady)
	ctx.State.Instances = addrs

	ctx.Observer.Event(provisioning.Event{
		Type:     provisioning.EventResourceCreated,
		Phase:    p.Name(),
		Resource: name,
		Message:  fmt.Sprintf("%d instances in service", len(addrs)),
	})
	return nil
}
