package aws

// VPC is the owned record of a provisioned virtual network.
type VPC struct {
	ID   string
	CIDR string
}

// Subnet is the owned record of a provisioned subnet.
type Subnet struct {
	ID     string
	CIDR   string
	AZ     string
	Public bool
}

// IngressRule is one TCP ingress entry of a security boundary. Ports are
// inclusive on both ends; a single-port rule has FromPort == ToPort.
type IngressRule struct {
	Description string
	FromPort    int32
	ToPort      int32
	Sources     []string
}

// SecurityGroup is the owned record of a provisioned security boundary.
type SecurityGroup struct {
	ID      string
	Ingress []IngressRule
}

// RouteTableOpts declares a route table with a default route and its subnet
// associations. Exactly one of GatewayID or NATGatewayID should be set.
type RouteTableOpts struct {
	Name         string
	VPCID        string
	GatewayID    string
	NATGatewayID string
	SubnetIDs    []string
	Tags         map[string]string
}

// LaunchTemplateOpts declares how fleet instances are started.
type LaunchTemplateOpts struct {
	Name            string
	AMI             string
	InstanceType    string
	KeyName         string
	SecurityGroupID string
	PublicIP        bool
	Tags            map[string]string
}

// GroupOpts declares a fixed-size self-healing autoscaling group.
type GroupOpts struct {
	Name             string
	LaunchTemplateID string
	SubnetIDs        []string
	Min              int32
	Desired          int32
	Max              int32
	// GracePeriodSeconds delays liveness evaluation of freshly launched
	// instances.
	GracePeriodSeconds int32
	Tags               map[string]string
}

// InstanceAddress is the network identity of one fleet instance.
type InstanceAddress struct {
	InstanceID string
	PrivateIP  string
	PublicIP   string
}

// ClusterOpts declares a managed control plane.
type ClusterOpts struct {
	Name      string
	Version   string
	RoleARN   string
	SubnetIDs []string
	Tags      map[string]string
}

// Cluster is the owned record of a provisioned control plane.
type Cluster struct {
	Name     string
	ARN      string
	Version  string
	Status   string
	Endpoint string
	// CertificateAuthority is the base64-encoded cluster CA bundle.
	CertificateAuthority string
	// OIDCIssuer is the issuer URL used for workload identity federation.
	OIDCIssuer string
}

// Cluster status values reported by the control plane API.
const (
	ClusterStatusCreating = "CREATING"
	ClusterStatusActive   = "ACTIVE"
	ClusterStatusFailed   = "FAILED"
)

// NodeGroupOpts declares a bounded managed node group.
type NodeGroupOpts struct {
	ClusterName  string
	Name         string
	InstanceType string
	RoleARN      string
	SubnetIDs    []string
	Min          int32
	Desired      int32
	Max          int32
	Tags         map[string]string
}
