package aws

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/autoscaling"
	asgtypes "github.com/aws/aws-sdk-go-v2/service/autoscaling/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const (
	groupPollInterval = 10 * time.Second
	healthCheckEC2    = "EC2"
)

// EnsureKeyPair imports the public key under the given name if it is not
// already registered.
func (c *RealClient) EnsureKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) (string, error) {
	out, err := c.ec2.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		KeyNames: []string{name},
	})
	switch {
	case err == nil && len(out.KeyPairs) > 0:
		return strVal(out.KeyPairs[0].KeyPairId), nil
	case err != nil && !IsNotFound(err):
		return "", fmt.Errorf("describing key pair %s: %w", name, err)
	}

	imported, err := c.ec2.ImportKeyPair(ctx, &ec2.ImportKeyPairInput{
		KeyName:           awssdk.String(name),
		PublicKeyMaterial: publicKey,
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeKeyPair, name, tags),
	})
	if err != nil {
		return "", fmt.Errorf("importing key pair %s: %w", name, err)
	}
	return strVal(imported.KeyPairId), nil
}

// EnsureSecurityGroup creates the group if needed and reconciles its ingress
// to exactly the given rule set: missing entries are authorized, anything
// else is revoked. Egress is left at the API default (allow all).
func (c *RealClient) EnsureSecurityGroup(ctx context.Context, name, vpcID string, rules []IngressRule, tags map[string]string) (*SecurityGroup, error) {
	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{Filters: nameFilter(name)})
	if err != nil {
		return nil, fmt.Errorf("describing security group %s: %w", name, err)
	}

	var id string
	var current []ec2types.IpPermission
	if len(out.SecurityGroups) > 0 {
		sg := out.SecurityGroups[0]
		id = strVal(sg.GroupId)
		current = sg.IpPermissions
	} else {
		var created *ec2.CreateSecurityGroupOutput
		err = c.callWithRetry(ctx, func(ctx context.Context) error {
			var err error
			created, err = c.ec2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
				GroupName:         awssdk.String(name),
				Description:       awssdk.String("managed by rfleet"),
				VpcId:             awssdk.String(vpcID),
				TagSpecifications: ec2TagSpec(ec2types.ResourceTypeSecurityGroup, name, tags),
			})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("creating security group %s: %w", name, err)
		}
		id = strVal(created.GroupId)
	}

	authorize, revoke := diffIngress(current, rules)
	if len(revoke) > 0 {
		_, err := c.ec2.RevokeSecurityGroupIngress(ctx, &ec2.RevokeSecurityGroupIngressInput{
			GroupId:       awssdk.String(id),
			IpPermissions: revoke,
		})
		if err != nil {
			return nil, fmt.Errorf("revoking stale ingress on %s: %w", name, err)
		}
	}
	if len(authorize) > 0 {
		_, err := c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       awssdk.String(id),
			IpPermissions: authorize,
		})
		if err != nil {
			return nil, fmt.Errorf("authorizing ingress on %s: %w", name, err)
		}
	}

	return &SecurityGroup{ID: id, Ingress: rules}, nil
}

// ingressKey identifies one (port range, source) ingress entry.
func ingressKey(proto string, from, to int32, cidr string) string {
	return fmt.Sprintf("%s/%d-%d/%s", proto, from, to, cidr)
}

// diffIngress computes the permission sets to authorize and revoke so the
// group ends up with exactly the desired rules. Each desired rule expands to
// one permission per source CIDR.
func diffIngress(current []ec2types.IpPermission, desired []IngressRule) (authorize, revoke []ec2types.IpPermission) {
	want := map[string]ec2types.IpPermission{}
	for _, rule := range desired {
		for _, src := range rule.Sources {
			key := ingressKey("tcp", rule.FromPort, rule.ToPort, src)
			want[key] = ec2types.IpPermission{
				IpProtocol: awssdk.String("tcp"),
				FromPort:   awssdk.Int32(rule.FromPort),
				ToPort:     awssdk.Int32(rule.ToPort),
				IpRanges: []ec2types.IpRange{{
					CidrIp:      awssdk.String(src),
					Description: awssdk.String(rule.Description),
				}},
			}
		}
	}

	have := map[string]bool{}
	for _, perm := range current {
		proto := strVal(perm.IpProtocol)
		for _, rng := range perm.IpRanges {
			key := ingressKey(proto, awssdk.ToInt32(perm.FromPort), awssdk.ToInt32(perm.ToPort), strVal(rng.CidrIp))
			have[key] = true
			if _, ok := want[key]; !ok {
				revoke = append(revoke, ec2types.IpPermission{
					IpProtocol: perm.IpProtocol,
					FromPort:   perm.FromPort,
					ToPort:     perm.ToPort,
					IpRanges:   []ec2types.IpRange{{CidrIp: rng.CidrIp}},
				})
			}
		}
	}

	keys := make([]string, 0, len(want))
	for key := range want {
		if !have[key] {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	for _, key := range keys {
		authorize = append(authorize, want[key])
	}
	return authorize, revoke
}

// EnsureLaunchTemplate creates the launch template if it does not exist. The
// template pins the AMI, instance type, key pair, and a single network
// interface carrying the security group and the public IP setting.
func (c *RealClient) EnsureLaunchTemplate(ctx context.Context, opts LaunchTemplateOpts) (string, error) {
	out, err := c.ec2.DescribeLaunchTemplates(ctx, &ec2.DescribeLaunchTemplatesInput{Filters: nameFilter(opts.Name)})
	if err != nil {
		return "", fmt.Errorf("describing launch template %s: %w", opts.Name, err)
	}
	if len(out.LaunchTemplates) > 0 {
		return strVal(out.LaunchTemplates[0].LaunchTemplateId), nil
	}

	data := &ec2types.RequestLaunchTemplateData{
		ImageId:      awssdk.String(opts.AMI),
		InstanceType: ec2types.InstanceType(opts.InstanceType),
		KeyName:      awssdk.String(opts.KeyName),
		NetworkInterfaces: []ec2types.LaunchTemplateInstanceNetworkInterfaceSpecificationRequest{{
			DeviceIndex:              awssdk.Int32(0),
			AssociatePublicIpAddress: awssdk.Bool(opts.PublicIP),
			Groups:                   []string{opts.SecurityGroupID},
		}},
		TagSpecifications: []ec2types.LaunchTemplateTagSpecificationRequest{{
			ResourceType: ec2types.ResourceTypeInstance,
			Tags:         ec2Tags(opts.Name, opts.Tags),
		}},
	}

	var created *ec2.CreateLaunchTemplateOutput
	err = c.callWithRetry(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.ec2.CreateLaunchTemplate(ctx, &ec2.CreateLaunchTemplateInput{
			LaunchTemplateName: awssdk.String(opts.Name),
			LaunchTemplateData: data,
			TagSpecifications:  ec2TagSpec(ec2types.ResourceTypeLaunchTemplate, opts.Name, opts.Tags),
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("creating launch template %s: %w", opts.Name, err)
	}
	return strVal(created.LaunchTemplate.LaunchTemplateId), nil
}

// EnsureGroup creates the autoscaling group if it does not exist, or updates
// its size bounds and subnets if it does. Health checking stays on plain
// instance status so replacement only happens on real instance failure.
func (c *RealClient) EnsureGroup(ctx context.Context, opts GroupOpts) error {
	out, err := c.autoscaling.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
		AutoScalingGroupNames: []string{opts.Name},
	})
	if err != nil {
		return fmt.Errorf("describing autoscaling group %s: %w", opts.Name, err)
	}

	zoneIdentifier := strings.Join(opts.SubnetIDs, ",")
	if len(out.AutoScalingGroups) > 0 {
		_, err := c.autoscaling.UpdateAutoScalingGroup(ctx, &autoscaling.UpdateAutoScalingGroupInput{
			AutoScalingGroupName: awssdk.String(opts.Name),
			MinSize:              awssdk.Int32(opts.Min),
			MaxSize:              awssdk.Int32(opts.Max),
			DesiredCapacity:      awssdk.Int32(opts.Desired),
			VPCZoneIdentifier:    awssdk.String(zoneIdentifier),
		})
		if err != nil {
			return fmt.Errorf("updating autoscaling group %s: %w", opts.Name, err)
		}
		return nil
	}

	err = c.callWithRetry(ctx, func(ctx context.Context) error {
		_, err := c.autoscaling.CreateAutoScalingGroup(ctx, &autoscaling.CreateAutoScalingGroupInput{
			AutoScalingGroupName: awssdk.String(opts.Name),
			LaunchTemplate: &asgtypes.LaunchTemplateSpecification{
				LaunchTemplateId: awssdk.String(opts.LaunchTemplateID),
				Version:          awssdk.String("$Latest"),
			},
			MinSize:                awssdk.Int32(opts.Min),
			MaxSize:                awssdk.Int32(opts.Max),
			DesiredCapacity:        awssdk.Int32(opts.Desired),
			VPCZoneIdentifier:      awssdk.String(zoneIdentifier),
			HealthCheckType:        awssdk.String(healthCheckEC2),
			HealthCheckGracePeriod: awssdk.Int32(opts.GracePeriodSeconds),
			Tags:                   asgTags(opts.Name, opts.Tags),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("creating autoscaling group %s: %w", opts.Name, err)
	}
	return nil
}

// GroupAddresses blocks until the group's in-service instance count reaches
// its desired capacity, then resolves their addresses.
func (c *RealClient) GroupAddresses(ctx context.Context, name string, timeout time.Duration) ([]InstanceAddress, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(groupPollInterval)
	defer ticker.Stop()

	for {
		out, err := c.autoscaling.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
			AutoScalingGroupNames: []string{name},
		})
		if err != nil {
			return nil, fmt.Errorf("describing autoscaling group %s: %w", name, err)
		}
		if len(out.AutoScalingGroups) == 0 {
			return nil, fmt.Errorf("autoscaling group %s not found", name)
		}

		group := out.AutoScalingGroups[0]
		var ids []string
		for _, inst := range group.Instances {
			if inst.LifecycleState == asgtypes.LifecycleStateInService {
				ids = append(ids, strVal(inst.InstanceId))
			}
		}
		if int32(len(ids)) >= awssdk.ToInt32(group.DesiredCapacity) {
			return c.instanceAddresses(ctx, ids)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for %s to reach capacity: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *RealClient) instanceAddresses(ctx context.Context, ids []string) ([]InstanceAddress, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{InstanceIds: ids})
	if err != nil {
		return nil, fmt.Errorf("describing instances: %w", err)
	}

	var addrs []InstanceAddress
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			addrs = append(addrs, InstanceAddress{
				InstanceID: strVal(inst.InstanceId),
				PrivateIP:  strVal(inst.PrivateIpAddress),
				PublicIP:   strVal(inst.PublicIpAddress),
			})
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].InstanceID < addrs[j].InstanceID })
	return addrs, nil
}

// DeleteFleet tears down every fleet resource tagged with the given stack:
// the autoscaling group (force-terminating its instances), the launch
// template, imported key pairs, and the security group. The security group
// delete is retried while terminating instances still hold references to it.
func (c *RealClient) DeleteFleet(ctx context.Context, stack string) error {
	groups, err := c.autoscaling.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
		Filters: []asgtypes.Filter{
			{Name: awssdk.String("tag:" + StackTag), Values: []string{stack}},
			{Name: awssdk.String("tag:" + ManagedByTag), Values: []string{ManagedByValue}},
		},
	})
	if err != nil {
		return fmt.Errorf("listing autoscaling groups: %w", err)
	}
	for _, group := range groups.AutoScalingGroups {
		name := strVal(group.AutoScalingGroupName)
		_, err := c.autoscaling.DeleteAutoScalingGroup(ctx, &autoscaling.DeleteAutoScalingGroupInput{
			AutoScalingGroupName: awssdk.String(name),
			ForceDelete:          awssdk.Bool(true),
		})
		if err != nil && !IsNotFound(err) {
			return fmt.Errorf("deleting autoscaling group %s: %w", name, err)
		}
		if err := c.waitForGroupGone(ctx, name); err != nil {
			return err
		}
	}

	templates, err := c.ec2.DescribeLaunchTemplates(ctx, &ec2.DescribeLaunchTemplatesInput{Filters: stackFilter(stack)})
	if err != nil {
		return fmt.Errorf("listing launch templates: %w", err)
	}
	for _, lt := range templates.LaunchTemplates {
		_, err := c.ec2.DeleteLaunchTemplate(ctx, &ec2.DeleteLaunchTemplateInput{LaunchTemplateId: lt.LaunchTemplateId})
		if err != nil && !IsNotFound(err) {
			return fmt.Errorf("deleting launch template %s: %w", strVal(lt.LaunchTemplateId), err)
		}
	}

	keys, err := c.ec2.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{Filters: stackFilter(stack)})
	if err != nil {
		return fmt.Errorf("listing key pairs: %w", err)
	}
	for _, key := range keys.KeyPairs {
		_, err := c.ec2.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{KeyPairId: key.KeyPairId})
		if err != nil && !IsNotFound(err) {
			return fmt.Errorf("deleting key pair %s: %w", strVal(key.KeyName), err)
		}
	}

	sgs, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{Filters: stackFilter(stack)})
	if err != nil {
		return fmt.Errorf("listing security groups: %w", err)
	}
	for _, sg := range sgs.SecurityGroups {
		if err := c.deleteSecurityGroup(ctx, strVal(sg.GroupId)); err != nil {
			return err
		}
	}
	return nil
}

func (c *RealClient) waitForGroupGone(ctx context.Context, name string) error {
	ticker := time.NewTicker(groupPollInterval)
	defer ticker.Stop()

	for {
		out, err := c.autoscaling.DescribeAutoScalingGroups(ctx, &autoscaling.DescribeAutoScalingGroupsInput{
			AutoScalingGroupNames: []string{name},
		})
		if err != nil {
			return fmt.Errorf("describing autoscaling group %s: %w", name, err)
		}
		if len(out.AutoScalingGroups) == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %s to delete: %w", name, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (c *RealClient) deleteSecurityGroup(ctx context.Context, id string) error {
	ticker := time.NewTicker(groupPollInterval)
	defer ticker.Stop()

	for {
		_, err := c.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{GroupId: awssdk.String(id)})
		switch {
		case err == nil, IsNotFound(err):
			return nil
		case !isAPIErrorCode(err, "DependencyViolation"):
			return fmt.Errorf("deleting security group %s: %w", id, err)
		}

		// Instances from the deleted group may still be terminating.
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting to delete security group %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}
