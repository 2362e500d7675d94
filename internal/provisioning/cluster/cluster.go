// Package cluster provisions the managed Kubernetes unit: the IAM roles, the
// control plane, the workload identity federation, and the bounded node
// group. The control plane must be ACTIVE before the node group is created,
// and the kubeconfig is only assembled once the API endpoint exists.
package cluster

import (
	"errors"

	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/provisioning"
)

// Provisioner implements the Phase interface for the cluster unit.
type Provisioner struct{}

// NewProvisioner creates a new cluster provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the Phase interface.
func (p *Provisioner) Name() string {
	return "cluster"
}

// Provision implements the Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	if !ctx.Config.ClusterEnabled() {
		ctx.Observer.Printf("[Cluster] disabled, skipping")
		return nil
	}
	if ctx.State.VPC == nil || len(ctx.State.PrivateSubnets) == 0 {
		return provisioning.E(provisioning.KindDependencyNotReady, provisioning.ClusterName(ctx.Config.Name),
			errors.New("network unit has not been provisioned"))
	}

	clusterRoleARN, nodeRoleARN, err := p.ensureRoles(ctx)
	if err != nil {
		return err
	}

	cluster, err := p.ensureControlPlane(ctx, clusterRoleARN)
	if err != nil {
		return err
	}

	if err := p.ensureIdentityFederation(ctx, cluster); err != nil {
		return err
	}

	if err := p.ensureNodeGroup(ctx, cluster, nodeRoleARN); err != nil {
		return err
	}

	return p.resolveKubeconfig(ctx, cluster)
}

func (p *Provisioner) ensureRoles(ctx *provisioning.Context) (clusterRoleARN, nodeRoleARN string, err error) {
	stack := ctx.Config.Name

	clusterRole := provisioning.ClusterRoleName(stack)
	ctx.State.Transition(clusterRole, "iam-role", "", provisioning.StatusCreating)
	clusterRoleARN, err = ctx.Infra.EnsureClusterRole(ctx, clusterRole)
	if err != nil {
		ctx.State.Transition(clusterRole, "iam-role", "", provisioning.StatusFailed)
		return "", "", provisioning.ClassifyAPIError(clusterRole, err)
	}
	ctx.State.Transition(clusterRole, "iam-role", clusterRoleARN, provisioning.StatusReady)

	nodeRole := provisioning.NodeRoleName(stack)
	ctx.State.Transition(nodeRole, "iam-role", "", provisioning.StatusCreating)
	nodeRoleARN, err = ctx.Infra.EnsureNodeRole(ctx, nodeRole)
	if err != nil {
		ctx.State.Transition(nodeRole, "iam-role", "", provisioning.StatusFailed)
		return "", "", provisioning.ClassifyAPIError(nodeRole, err)
	}
	ctx.State.Transition(nodeRole, "iam-role", nodeRoleARN, provisioning.StatusReady)
	return clusterRoleARN, nodeRoleARN, nil
}

// ensureControlPlane creates the cluster across the private subnets and
// blocks until the control plane is ACTIVE. The returned record carries the
// endpoint, CA bundle, and OIDC issuer of the running cluster.
func (p *Provisioner) ensureControlPlane(ctx *provisioning.Context, roleARN string) (*aws.Cluster, error) {
	cfg := ctx.Config
	name := provisioning.ClusterName(cfg.Name)

	ctx.State.Transition(name, "eks-cluster", "", provisioning.StatusCreating)
	cluster, err := ctx.Infra.EnsureCluster(ctx, aws.ClusterOpts{
		Name:      name,
		Version:   cfg.Cluster.Version,
		RoleARN:   roleARN,
		SubnetIDs: provisioning.SubnetIDs(ctx.State.PrivateSubnets),
		Tags:      ctx.Tags(),
	})
	if err != nil {
		ctx.State.Transition(name, "eks-cluster", "", provisioning.StatusFailed)
		return nil, provisioning.ClassifyAPIError(name, err)
	}

	if cluster.Status != aws.ClusterStatusActive {
		cluster, err = ctx.Infra.WaitForClusterActive(ctx, name, ctx.Timeouts.ClusterReady)
		if err != nil {
			ctx.State.Transition(name, "eks-cluster", "", provisioning.StatusFailed)
			return nil, provisioning.ClassifyAPIError(name, err)
		}
	}
	ctx.State.Transition(name, "eks-cluster", cluster.ARN, provisioning.StatusReady)
	ctx.State.Cluster = cluster
	return cluster, nil
}

// ensureIdentityFederation registers the OIDC issuer and, when the cluster
// autoscaler add-on is enabled, prepares the IAM role its service account
// assumes.
func (p *Provisioner) ensureIdentityFederation(ctx *provisioning.Context, cluster *aws.Cluster) error {
	if cluster.OIDCIssuer == "" {
		return provisioning.E(provisioning.KindDependencyNotReady, cluster.Name,
			errors.New("cluster reports no OIDC issuer"))
	}

	providerARN, err := ctx.Infra.EnsureOIDCProvider(ctx, cluster.OIDCIssuer, ctx.Tags())
	if err != nil {
		return provisioning.ClassifyAPIError(cluster.Name, err)
	}
	ctx.State.OIDCProviderARN = providerARN

	if !ctx.Config.Cluster.Addons.ClusterAutoscaler.Enabled {
		return nil
	}

	roleName := provisioning.AutoscalerRoleName(ctx.Config.Name)
	ctx.State.Transition(roleName, "iam-role", "", provisioning.StatusCreating)
	roleARN, err := ctx.Infra.EnsureAutoscalerRole(ctx, roleName, providerARN, cluster.OIDCIssuer)
	if err != nil {
		ctx.State.Transition(roleName, "iam-role", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(roleName, err)
	}
	ctx.State.Transition(roleName, "iam-role", roleARN, provisioning.StatusReady)
	ctx.State.AutoscalerRoleARN = roleARN
	return nil
}

func (p *Provisioner) ensureNodeGroup(ctx *provisioning.Context, cluster *aws.Cluster, nodeRoleARN string) error {
	cfg := ctx.Config
	name := provisioning.NodeGroupName(cfg.Name)

	ctx.State.Transition(name, "node-group", "", provisioning.StatusCreating)
	err := ctx.Infra.EnsureNodeGroup(ctx, aws.NodeGroupOpts{
		ClusterName:  cluster.Name,
		Name:         name,
		InstanceType: cfg.Cluster.NodeType,
		RoleARN:      nodeRoleARN,
		SubnetIDs:    provisioning.SubnetIDs(ctx.State.PrivateSubnets),
		Min:          int32(cfg.Cluster.Nodes.Min),
		Desired:      int32(cfg.Cluster.Nodes.Desired),
		Max:          int32(cfg.Cluster.Nodes.Max),
		Tags:         ctx.Tags(),
	})
	if err != nil {
		ctx.State.Transition(name, "node-group", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}

	if err := ctx.Infra.WaitForNodeGroupActive(ctx, cluster.Name, name, ctx.Timeouts.NodeGroupReady); err != nil {
		ctx.State.Transition(name, "node-group", "", provisioning.StatusFailed)
		return provisioning.ClassifyAPIError(name, err)
	}
	ctx.State.Transition(name, "node-group", "", provisioning.StatusReady)
	return nil
}

func (p *Provisioner) resolveKubeconfig(ctx *provisioning.Context, cluster *aws.Cluster) error {
	kubeconfig, err := ctx.Infra.Kubeconfig(ctx, cluster.Name)
	if err != nil {
		return provisioning.ClassifyAPIError(cluster.Name, err)
	}
	ctx.State.Kubeconfig = kubeconfig
	return nil
}
