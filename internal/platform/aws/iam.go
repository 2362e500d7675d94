package aws

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
)

// Managed policies attached to the control-plane and node roles.
const (
	clusterPolicyARN     = "arn:aws:iam::aws:policy/AmazonEKSClusterPolicy"
	workerNodePolicyARN  = "arn:aws:iam::aws:policy/AmazonEKSWorkerNodePolicy"
	cniPolicyARN         = "arn:aws:iam::aws:policy/AmazonEKS_CNI_Policy"
	ecrReadOnlyPolicyARN = "arn:aws:iam::aws:policy/AmazonEC2ContainerRegistryReadOnly"
)

// oidcAudience is the token audience for workload identity federation.
const oidcAudience = "sts.amazonaws.com"

// oidcThumbprint is the root CA thumbprint the OIDC provider API requires.
// The EKS issuer chains to this root in all commercial regions.
const oidcThumbprint = "9e99a48a9960b14926bb7f3b02e22da2b0ab7280"

const clusterTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Service": "eks.amazonaws.com"},
    "Action": "sts:AssumeRole"
  }]
}`

const nodeTrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Service": "ec2.amazonaws.com"},
    "Action": "sts:AssumeRole"
  }]
}`

// autoscalerPolicy grants the node-group scaling calls the cluster
// autoscaler issues.
const autoscalerPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Action": [
      "autoscaling:DescribeAutoScalingGroups",
      "autoscaling:DescribeAutoScalingInstances",
      "autoscaling:DescribeLaunchConfigurations",
      "autoscaling:DescribeScalingActivities",
      "autoscaling:SetDesiredCapacity",
      "autoscaling:TerminateInstanceInAutoScalingGroup",
      "ec2:DescribeImages",
      "ec2:DescribeInstanceTypes",
      "ec2:DescribeLaunchTemplateVersions",
      "ec2:GetInstanceTypesFromInstanceRequirements",
      "eks:DescribeNodegroup"
    ],
    "Resource": "*"
  }]
}`

// EnsureClusterRole creates the control-plane service role if it does not
// exist and attaches the managed cluster policy.
func (c *RealClient) EnsureClusterRole(ctx context.Context, name string) (string, error) {
	return c.ensureRole(ctx, name, clusterTrustPolicy, []string{clusterPolicyARN})
}

// EnsureNodeRole creates the node instance role if it does not exist and
// attaches the worker, CNI, and registry pull policies.
func (c *RealClient) EnsureNodeRole(ctx context.Context, name string) (string, error) {
	return c.ensureRole(ctx, name, nodeTrustPolicy, []string{
		workerNodePolicyARN,
		cniPolicyARN,
		ecrReadOnlyPolicyARN,
	})
}

func (c *RealClient) ensureRole(ctx context.Context, name, trustPolicy string, policyARNs []string) (string, error) {
	existing, err := c.iam.GetRole(ctx, &iam.GetRoleInput{RoleName: awssdk.String(name)})
	switch {
	case err == nil:
		return strVal(existing.Role.Arn), nil
	case !IsNotFound(err):
		return "", fmt.Errorf("describing role %s: %w", name, err)
	}

	created, err := c.iam.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 awssdk.String(name),
		AssumeRolePolicyDocument: awssdk.String(trustPolicy),
		Tags: []iamtypes.Tag{
			{Key: awssdk.String(ManagedByTag), Value: awssdk.String(ManagedByValue)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("creating role %s: %w", name, err)
	}

	for _, arn := range policyARNs {
		_, err := c.iam.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
			RoleName:  awssdk.String(name),
			PolicyArn: awssdk.String(arn),
		})
		if err != nil {
			return "", fmt.Errorf("attaching %s to role %s: %w", arn, name, err)
		}
	}
	return strVal(created.Role.Arn), nil
}

// EnsureOIDCProvider registers the cluster's OIDC issuer for workload
// identity federation, returning the provider ARN. Lookup is by issuer URL
// since provider ARNs embed the issuer host.
func (c *RealClient) EnsureOIDCProvider(ctx context.Context, issuerURL string, tags map[string]string) (string, error) {
	issuerHost := strings.TrimPrefix(issuerURL, "https://")

	list, err := c.iam.ListOpenIDConnectProviders(ctx, &iam.ListOpenIDConnectProvidersInput{})
	if err != nil {
		return "", fmt.Errorf("listing OIDC providers: %w", err)
	}
	for _, p := range list.OpenIDConnectProviderList {
		if strings.HasSuffix(strVal(p.Arn), issuerHost) {
			return strVal(p.Arn), nil
		}
	}

	iamTags := []iamtypes.Tag{
		{Key: awssdk.String(ManagedByTag), Value: awssdk.String(ManagedByValue)},
	}
	for k, v := range tags {
		iamTags = append(iamTags, iamtypes.Tag{Key: awssdk.String(k), Value: awssdk.String(v)})
	}

	created, err := c.iam.CreateOpenIDConnectProvider(ctx, &iam.CreateOpenIDConnectProviderInput{
		Url:            awssdk.String(issuerURL),
		ClientIDList:   []string{oidcAudience},
		ThumbprintList: []string{oidcThumbprint},
		Tags:           iamTags,
	})
	if err != nil {
		return "", fmt.Errorf("creating OIDC provider for %s: %w", issuerHost, err)
	}
	return strVal(created.OpenIDConnectProviderArn), nil
}

// EnsureAutoscalerRole creates the IAM role the cluster autoscaler's service
// account assumes through the cluster's OIDC provider.
func (c *RealClient) EnsureAutoscalerRole(ctx context.Context, name, oidcProviderARN, issuerURL string) (string, error) {
	issuerHost := strings.TrimPrefix(issuerURL, "https://")
	trustPolicy := fmt.Sprintf(`{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Federated": %q},
    "Action": "sts:AssumeRoleWithWebIdentity",
    "Condition": {
      "StringEquals": {
        %q: "system:serviceaccount:kube-system:cluster-autoscaler",
        %q: %q
      }
    }
  }]
}`, oidcProviderARN, issuerHost+":sub", issuerHost+":aud", oidcAudience)

	arn, err := c.ensureRole(ctx, name, trustPolicy, nil)
	if err != nil {
		return "", err
	}

	_, err = c.iam.PutRolePolicy(ctx, &iam.PutRolePolicyInput{
		RoleName:       awssdk.String(name),
		PolicyName:     awssdk.String("cluster-autoscaler"),
		PolicyDocument: awssdk.String(autoscalerPolicy),
	})
	if err != nil {
		return "", fmt.Errorf("writing autoscaler policy on %s: %w", name, err)
	}
	return arn, nil
}
