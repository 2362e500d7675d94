package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eks"
	ekstypes "github.com/aws/aws-sdk-go-v2/service/eks/types"
)

const clusterPollInterval = 20 * time.Second

func clusterFromAPI(c *ekstypes.Cluster) *Cluster {
	out := &Cluster{
		Name:     strVal(c.Name),
		ARN:      strVal(c.Arn),
		Version:  strVal(c.Version),
		Status:   string(c.Status),
		Endpoint: strVal(c.Endpoint),
	}
	if c.CertificateAuthority != nil {
		out.CertificateAuthority = strVal(c.CertificateAuthority.Data)
	}
	if c.Identity != nil && c.Identity.Oidc != nil {
		out.OIDCIssuer = strVal(c.Identity.Oidc.Issuer)
	}
	return out
}

// EnsureCluster creates the control plane if it does not exist. The returned
// cluster is usually still CREATING; callers follow up with
// WaitForClusterActive before using the endpoint.
func (c *RealClient) EnsureCluster(ctx context.Context, opts ClusterOpts) (*Cluster, error) {
	existing, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(opts.Name)})
	switch {
	case err == nil:
		return clusterFromAPI(existing.Cluster), nil
	case !IsNotFound(err):
		return nil, fmt.Errorf("describing cluster %s: %w", opts.Name, err)
	}

	tags := mergeTags(opts.Name, opts.Tags)
	var created *eks.CreateClusterOutput
	err = c.callWithRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.eks.CreateCluster(ctx, &eks.CreateClusterInput{
			Name:    awssdk.String(opts.Name),
			Version: awssdk.String(opts.Version),
			RoleArn: awssdk.String(opts.RoleARN),
			ResourcesVpcConfig: &ekstypes.VpcConfigRequest{
				SubnetIds: opts.SubnetIDs,
			},
			Tags: tags,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating cluster %s: %w", opts.Name, err)
	}
	return clusterFromAPI(created.Cluster), nil
}

// WaitForClusterActive blocks until the control plane reports ACTIVE and
// returns its final record, including endpoint, CA bundle, and OIDC issuer.
func (c *RealClient) WaitForClusterActive(ctx context.Context, name string, timeout time.Duration) (*Cluster, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(clusterPollInterval)
	defer ticker.Stop()

	for {
		out, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(name)})
		if err != nil {
			return nil, fmt.Errorf("describing cluster %s: %w", name, err)
		}

		switch out.Cluster.Status {
		case ekstypes.ClusterStatusActive:
			return clusterFromAPI(out.Cluster), nil
		case ekstypes.ClusterStatusFailed:
			return nil, fmt.Errorf("cluster %s entered failed state", name)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for cluster %s: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

// EnsureNodeGroup creates the managed node group if it does not exist.
func (c *RealClient) EnsureNodeGroup(ctx context.Context, opts NodeGroupOpts) error {
	_, err := c.eks.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
		ClusterName:   awssdk.String(opts.ClusterName),
		NodegroupName: awssdk.String(opts.Name),
	})
	switch {
	case err == nil:
		return nil
	case !IsNotFound(err):
		return fmt.Errorf("describing node group %s: %w", opts.Name, err)
	}

	err = c.callWithRetry(ctx, func(ctx context.Context) error {
		_, err := c.eks.CreateNodegroup(ctx, &eks.CreateNodegroupInput{
			ClusterName:   awssdk.String(opts.ClusterName),
			NodegroupName: awssdk.String(opts.Name),
			NodeRole:      awssdk.String(opts.RoleARN),
			Subnets:       opts.SubnetIDs,
			InstanceTypes: []string{opts.InstanceType},
			ScalingConfig: &ekstypes.NodegroupScalingConfig{
				MinSize:     awssdk.Int32(opts.Min),
				DesiredSize: awssdk.Int32(opts.Desired),
				MaxSize:     awssdk.Int32(opts.Max),
			},
			Tags: mergeTags(opts.Name, opts.Tags),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("creating node group %s: %w", opts.Name, err)
	}
	return nil
}

// WaitForNodeGroupActive blocks until the node group reports ACTIVE.
func (c *RealClient) WaitForNodeGroupActive(ctx context.Context, clusterName, name string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(clusterPollInterval)
	defer ticker.Stop()

	for {
		out, err := c.eks.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
			ClusterName:   awssdk.String(clusterName),
			NodegroupName: awssdk.String(name),
		})
		if err != nil {
			return fmt.Errorf("describing node group %s: %w", name, err)
		}

		switch out.Nodegroup.Status {
		case ekstypes.NodegroupStatusActive:
			return nil
		case ekstypes.NodegroupStatusCreateFailed, ekstypes.NodegroupStatusDegraded:
			return fmt.Errorf("node group %s entered %s state", name, out.Nodegroup.Status)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for node group %s: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

// DeleteCluster removes the node group first, waits for it to vanish, then
// deletes the control plane and waits for that too. Missing resources are
// treated as already deleted.
func (c *RealClient) DeleteCluster(ctx context.Context, name string) error {
	nodeGroup := name + "-nodes"
	_, err := c.eks.DeleteNodegroup(ctx, &eks.DeleteNodegroupInput{
		ClusterName:   awssdk.String(name),
		NodegroupName: awssdk.String(nodeGroup),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("deleting node group %s: %w", nodeGroup, err)
	}
	if err == nil {
		if err := c.waitForNodeGroupGone(ctx, name, nodeGroup); err != nil {
			return err
		}
	}

	_, err = c.eks.DeleteCluster(ctx, &eks.DeleteClusterInput{Name: awssdk.String(name)})
	switch {
	case IsNotFound(err):
		return nil
	case err != nil:
		return fmt.Errorf("deleting cluster %s: %w", name, err)
	}
	return c.waitForClusterGone(ctx, name)
}

func (c *RealClient) waitForNodeGroupGone(ctx context.Context, clusterName, name string) error {
	ticker := time.NewTicker(clusterPollInterval)
	defer ticker.Stop()

	for {
		_, err := c.eks.DescribeNodegroup(ctx, &eks.DescribeNodegroupInput{
			ClusterName:   awssdk.String(clusterName),
			NodegroupName: awssdk.String(name),
		})
		switch {
		case IsNotFound(err):
			return nil
		case err != nil:
			return fmt.Errorf("describing node group %s: %w", name, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for node group %s to delete: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *RealClient) waitForClusterGone(ctx context.Context, name string) error {
	ticker := time.NewTicker(clusterPollInterval)
	defer ticker.Stop()

	for {
		_, err := c.eks.DescribeCluster(ctx, &eks.DescribeClusterInput{Name: awssdk.String(name)})
		switch {
		case IsNotFound(err):
			return nil
		case err != nil:
			return fmt.Errorf("describing cluster %s: %w", name, err)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for cluster %s to delete: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}
