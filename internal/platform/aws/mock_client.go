package aws

import (
	"context"
	"time"
)

// MockClient is a mock implementation of InfrastructureManager.
type MockClient struct {
	// Network
	EnsureVPCFunc             func(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error)
	EnsureSubnetFunc          func(ctx context.Context, vpc *VPC, name, cidr, az string, public bool, tags map[string]string) (*Subnet, error)
	EnsureInternetGatewayFunc func(ctx context.Context, vpcID, name string, tags map[string]string) (string, error)
	EnsureNATGatewayFunc      func(ctx context.Context, subnetID, name string, tags map[string]string) (string, error)
	EnsureRouteTableFunc      func(ctx context.Context, opts RouteTableOpts) (string, error)
	DeleteNetworkFunc         func(ctx context.Context, name string) error

	// Fleet
	EnsureKeyPairFunc        func(ctx context.Context, name string, publicKey []byte, tags map[string]string) (string, error)
	EnsureSecurityGroupFunc  func(ctx context.Context, name, vpcID string, rules []IngressRule, tags map[string]string) (*SecurityGroup, error)
	EnsureLaunchTemplateFunc func(ctx context.Context, opts LaunchTemplateOpts) (string, error)
	EnsureGroupFunc          func(ctx context.Context, opts GroupOpts) error
	GroupAddressesFunc       func(ctx context.Context, name string, timeout time.Duration) ([]InstanceAddress, error)
	DeleteFleetFunc          func(ctx context.Context, name string) error

	// Cluster
	EnsureClusterRoleFunc      func(ctx context.Context, name string) (string, error)
	EnsureNodeRoleFunc         func(ctx context.Context, name string) (string, error)
	EnsureClusterFunc          func(ctx context.Context, opts ClusterOpts) (*Cluster, error)
	WaitForClusterActiveFunc   func(ctx context.Context, name string, timeout time.Duration) (*Cluster, error)
	EnsureOIDCProviderFunc     func(ctx context.Context, issuerURL string, tags map[string]string) (string, error)
	EnsureAutoscalerRoleFunc   func(ctx context.Context, name, oidcProviderARN, issuerURL string) (string, error)
	EnsureNodeGroupFunc        func(ctx context.Context, opts NodeGroupOpts) error
	WaitForNodeGroupActiveFunc func(ctx context.Context, clusterName, name string, timeout time.Duration) error
	AuthTokenFunc              func(ctx context.Context, clusterName string) (string, error)
	KubeconfigFunc             func(ctx context.Context, clusterName string) ([]byte, error)
	DeleteClusterFunc          func(ctx context.Context, name string) error
}

// Ensure interface compliance
var _ InfrastructureManager = (*MockClient)(nil)

// EnsureVPC mocks VPC provisioning.
func (m *MockClient) EnsureVPC(ctx context.Context, name, cidr string, tags map[string]string) (*VPC, error) {
	if m.EnsureVPCFunc != nil {
		return m.EnsureVPCFunc(ctx, name, cidr, tags)
	}
	return &VPC{ID: "vpc-mock", CIDR: cidr}, nil
}

// EnsureSubnet mocks subnet provisioning.
func (m *MockClient) EnsureSubnet(ctx context.Context, vpc *VPC, name, cidr, az string, public bool, tags map[string]string) (*Subnet, error) {
	if m.EnsureSubnetFunc != nil {
		return m.EnsureSubnetFunc(ctx, vpc, name, cidr, az, public, tags)
	}
	return &Subnet{ID: "subnet-mock", CIDR: cidr, AZ: az, Public: public}, nil
}

// EnsureInternetGateway mocks internet gateway provisioning.
func (m *MockClient) EnsureInternetGateway(ctx context.Context, vpcID, name string, tags map[string]string) (string, error) {
	if m.EnsureInternetGatewayFunc != nil {
		return m.EnsureInternetGatewayFunc(ctx, vpcID, name, tags)
	}
	return "igw-mock", nil
}

// EnsureNATGateway mocks NAT gateway provisioning.
func (m *MockClient) EnsureNATGateway(ctx context.Context, subnetID, name string, tags map[string]string) (string, error) {
	if m.EnsureNATGatewayFunc != nil {
		return m.EnsureNATGatewayFunc(ctx, subnetID, name, tags)
	}
	return "nat-mock", nil
}

// EnsureRouteTable mocks route table provisioning.
func (m *MockClient) EnsureRouteTable(ctx context.Context, opts RouteTableOpts) (string, error) {
	if m.EnsureRouteTableFunc != nil {
		return m.EnsureRouteTableFunc(ctx, opts)
	}
	return "rtb-mock", nil
}

// DeleteNetwork mocks network teardown.
func (m *MockClient) DeleteNetwork(ctx context.Context, name string) error {
	if m.DeleteNetworkFunc != nil {
		return m.DeleteNetworkFunc(ctx, name)
	}
	return nil
}

// EnsureKeyPair mocks key pair import.
func (m *MockClient) EnsureKeyPair(ctx context.Context, name string, publicKey []byte, tags map[string]string) (string, error) {
	if m.EnsureKeyPairFunc != nil {
		return m.EnsureKeyPairFunc(ctx, name, publicKey, tags)
	}
	return "key-mock", nil
}

// EnsureSecurityGroup mocks security group reconciliation.
func (m *MockClient) EnsureSecurityGroup(ctx context.Context, name, vpcID string, rules []IngressRule, tags map[string]string) (*SecurityGroup, error) {
	if m.EnsureSecurityGroupFunc != nil {
		return m.EnsureSecurityGroupFunc(ctx, name, vpcID, rules, tags)
	}
	return &SecurityGroup{ID: "sg-mock", Ingress: rules}, nil
}

// EnsureLaunchTemplate mocks launch template provisioning.
func (m *MockClient) EnsureLaunchTemplate(ctx context.Context, opts LaunchTemplateOpts) (string, error) {
	if m.EnsureLaunchTemplateFunc != nil {
		return m.EnsureLaunchTemplateFunc(ctx, opts)
	}
	return "lt-mock", nil
}

// EnsureGroup mocks autoscaling group provisioning.
func (m *MockClient) EnsureGroup(ctx context.Context, opts GroupOpts) error {
	if m.EnsureGroupFunc != nil {
		return m.EnsureGroupFunc(ctx, opts)
	}
	return nil
}

// GroupAddresses mocks waiting for fleet capacity.
func (m *MockClient) GroupAddresses(ctx context.Context, name string, timeout time.Duration) ([]InstanceAddress, error) {
	if m.GroupAddressesFunc != nil {
		return m.GroupAddressesFunc(ctx, name, timeout)
	}
	return []InstanceAddress{{InstanceID: "i-mock", PrivateIP: "10.0.48.10"}}, nil
}

// DeleteFleet mocks fleet teardown.
func (m *MockClient) DeleteFleet(ctx context.Context, name string) error {
	if m.DeleteFleetFunc != nil {
		return m.DeleteFleetFunc(ctx, name)
	}
	return nil
}

// EnsureClusterRole mocks control-plane role provisioning.
func (m *MockClient) EnsureClusterRole(ctx context.Context, name string) (string, error) {
	if m.EnsureClusterRoleFunc != nil {
		return m.EnsureClusterRoleFunc(ctx, name)
	}
	return "arn:aws:iam::000000000000:role/" + name, nil
}

// EnsureNodeRole mocks node role provisioning.
func (m *MockClient) EnsureNodeRole(ctx context.Context, name string) (string, error) {
	if m.EnsureNodeRoleFunc != nil {
		return m.EnsureNodeRoleFunc(ctx, name)
	}
	return "arn:aws:iam::000000000000:role/" + name, nil
}

// EnsureCluster mocks control plane provisioning.
func (m *MockClient) EnsureCluster(ctx context.Context, opts ClusterOpts) (*Cluster, error) {
	if m.EnsureClusterFunc != nil {
		return m.EnsureClusterFunc(ctx, opts)
	}
	return &Cluster{Name: opts.Name, Version: opts.Version, Status: ClusterStatusCreating}, nil
}

// WaitForClusterActive mocks waiting for the control plane.
func (m *MockClient) WaitForClusterActive(ctx context.Context, name string, timeout time.Duration) (*Cluster, error) {
	if m.WaitForClusterActiveFunc != nil {
		return m.WaitForClusterActiveFunc(ctx, name, timeout)
	}
	return &Cluster{
		Name:       name,
		Status:     ClusterStatusActive,
		Endpoint:   "https://mock.eks.example.com",
		OIDCIssuer: "https://oidc.eks.example.com/id/MOCK",
	}, nil
}

// EnsureOIDCProvider mocks identity provider registration.
func (m *MockClient) EnsureOIDCProvider(ctx context.Context, issuerURL string, tags map[string]string) (string, error) {
	if m.EnsureOIDCProviderFunc != nil {
		return m.EnsureOIDCProviderFunc(ctx, issuerURL, tags)
	}
	return "arn:aws:iam::000000000000:oidc-provider/mock", nil
}

// EnsureAutoscalerRole mocks the autoscaler IAM role.
func (m *MockClient) EnsureAutoscalerRole(ctx context.Context, name, oidcProviderARN, issuerURL string) (string, error) {
	if m.EnsureAutoscalerRoleFunc != nil {
		return m.EnsureAutoscalerRoleFunc(ctx, name, oidcProviderARN, issuerURL)
	}
	return "arn:aws:iam::000000000000:role/" + name, nil
}

// EnsureNodeGroup mocks node group provisioning.
func (m *MockClient) EnsureNodeGroup(ctx context.Context, opts NodeGroupOpts) error {
	if m.EnsureNodeGroupFunc != nil {
		return m.EnsureNodeGroupFunc(ctx, opts)
	}
	return nil
}

// WaitForNodeGroupActive mocks waiting for the node group.
func (m *MockClient) WaitForNodeGroupActive(ctx context.Context, clusterName, name string, timeout time.Duration) error {
	if m.WaitForNodeGroupActiveFunc != nil {
		return m.WaitForNodeGroupActiveFunc(ctx, clusterName, name, timeout)
	}
	return nil
}

// AuthToken mocks cluster token exchange.
func (m *MockClient) AuthToken(ctx context.Context, clusterName string) (string, error) {
	if m.AuthTokenFunc != nil {
		return m.AuthTokenFunc(ctx, clusterName)
	}
	return "k8s-aws-v1.mock", nil
}

// Kubeconfig mocks kubeconfig assembly.
func (m *MockClient) Kubeconfig(ctx context.Context, clusterName string) ([]byte, error) {
	if m.KubeconfigFunc != nil {
		return m.KubeconfigFunc(ctx, clusterName)
	}
	return []byte("apiVersion: v1\nkind: Config\n"), nil
}

// DeleteCluster mocks cluster teardown.
func (m *MockClient) DeleteCluster(ctx context.Context, name string) error {
	if m.DeleteClusterFunc != nil {
		return m.DeleteClusterFunc(ctx, name)
	}
	return nil
}
