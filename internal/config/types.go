// Package config defines the rfleet configuration surface and its validation.
package config

// Config is the top-level configuration for all provisioning units.
type Config struct {
	// Name identifies every resource created by this tool; it becomes the
	// Name tag prefix on AWS resources.
	Name   string `mapstructure:"name" yaml:"name"`
	Region string `mapstructure:"region" yaml:"region"`

	// Static credentials are optional; the default AWS credential chain is
	// used when they are empty. Environment variables AWS_ACCESS_KEY_ID and
	// AWS_SECRET_ACCESS_KEY override these fields.
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`

	Network NetworkConfig `mapstructure:"network" yaml:"network"`
	Fleet   FleetConfig   `mapstructure:"fleet" yaml:"fleet"`
	Cluster ClusterConfig `mapstructure:"cluster" yaml:"cluster"`
	Outputs OutputsConfig `mapstructure:"outputs" yaml:"outputs"`
}

// NAT gateway modes.
const (
	NATSingle = "single"
	NATNone   = "none"
)

// NetworkConfig describes the VPC and its subnet layout.
type NetworkConfig struct {
	CIDR string   `mapstructure:"cidr" yaml:"cidr"`
	AZs  []string `mapstructure:"azs" yaml:"azs"`

	// Subnet CIDR lists, one entry per AZ position. Derived from CIDR when
	// left empty.
	PublicSubnets  []string `mapstructure:"public_subnets" yaml:"public_subnets"`
	PrivateSubnets []string `mapstructure:"private_subnets" yaml:"private_subnets"`

	// NAT is the egress mode for private subnets: "single" provisions one
	// shared NAT gateway, "none" skips NAT entirely.
	NAT string `mapstructure:"nat" yaml:"nat"`
}

// FleetConfig describes the fixed-size autoscaling group hosting the data
// store.
type FleetConfig struct {
	Enabled *bool `mapstructure:"enabled" yaml:"enabled"`

	AMI          string `mapstructure:"ami" yaml:"ami"`
	InstanceType string `mapstructure:"instance_type" yaml:"instance_type"`

	// KeyName references an existing EC2 key pair. When GenerateKey is set a
	// fresh ed25519 pair is generated and imported instead; the private key is
	// written next to the outputs file.
	KeyName     string `mapstructure:"key_name" yaml:"key_name"`
	GenerateKey bool   `mapstructure:"generate_key" yaml:"generate_key"`

	// Count is desired, minimum, and maximum group size at once. The group is
	// self-healing, not elastic.
	Count int `mapstructure:"count" yaml:"count"`

	// Public places instances in the public subnets with public addresses.
	Public *bool `mapstructure:"public" yaml:"public"`

	SSHAllow  []string    `mapstructure:"ssh_allow" yaml:"ssh_allow"`
	DataAllow []string    `mapstructure:"data_allow" yaml:"data_allow"`
	Ports     PortsConfig `mapstructure:"ports" yaml:"ports"`
}

// PortsConfig declares the contiguous data port range, covering
// [Base, Base+Count-1] inclusive.
type PortsConfig struct {
	Base  int `mapstructure:"base" yaml:"base"`
	Count int `mapstructure:"count" yaml:"count"`
}

// ClusterConfig describes the managed Kubernetes control plane and node group.
type ClusterConfig struct {
	Enabled *bool `mapstructure:"enabled" yaml:"enabled"`

	Version  string          `mapstructure:"version" yaml:"version"`
	NodeType string          `mapstructure:"node_type" yaml:"node_type"`
	Nodes    NodeGroupBounds `mapstructure:"nodes" yaml:"nodes"`

	Addons AddonsConfig `mapstructure:"addons" yaml:"addons"`
}

// NodeGroupBounds holds min/desired/max node group sizing.
type NodeGroupBounds struct {
	Min     int `mapstructure:"min" yaml:"min"`
	Desired int `mapstructure:"desired" yaml:"desired"`
	Max     int `mapstructure:"max" yaml:"max"`
}

// AddonsConfig groups the optional cluster add-ons. Each one is independently
// toggleable and versioned; disabling an add-on gates future installs but
// never uninstalls an existing release.
type AddonsConfig struct {
	ClusterAutoscaler AddonConfig  `mapstructure:"cluster_autoscaler" yaml:"cluster_autoscaler"`
	ArgoCD            ArgoCDConfig `mapstructure:"argocd" yaml:"argocd"`
	ArgoRollouts      AddonConfig  `mapstructure:"argo_rollouts" yaml:"argo_rollouts"`
}

// AddonConfig configures a single Helm-installed add-on.
type AddonConfig struct {
	Enabled   bool   `mapstructure:"enabled" yaml:"enabled"`
	Version   string `mapstructure:"version" yaml:"version"`
	Namespace string `mapstructure:"namespace" yaml:"namespace"`

	// Repository and Chart override the built-in chart registry entry.
	Repository string `mapstructure:"repository" yaml:"repository"`
	Chart      string `mapstructure:"chart" yaml:"chart"`

	// Values are merged over the generated chart values; ValuesFile is read
	// and merged on top of Values.
	Values     map[string]any `mapstructure:"values" yaml:"values"`
	ValuesFile string         `mapstructure:"values_file" yaml:"values_file"`
}

// ArgoCDConfig extends AddonConfig with the service exposure mode for the
// Argo CD API server.
type ArgoCDConfig struct {
	AddonConfig `mapstructure:",squash" yaml:",inline"`

	// ServiceType is the Kubernetes service type for the argocd-server
	// service, e.g. LoadBalancer or ClusterIP.
	ServiceType string `mapstructure:"service_type" yaml:"service_type"`
}

// OutputsConfig controls where the outputs record is written.
type OutputsConfig struct {
	// Path of the local JSON record; empty writes to stdout only.
	Path string `mapstructure:"path" yaml:"path"`

	// S3Bucket/S3Key optionally mirror the record to object storage.
	S3Bucket string `mapstructure:"s3_bucket" yaml:"s3_bucket"`
	S3Key    string `mapstructure:"s3_key" yaml:"s3_key"`
}

// FleetEnabled reports whether the fleet unit participates in apply/destroy.
func (c *Config) FleetEnabled() bool {
	return c.Fleet.Enabled == nil || *c.Fleet.Enabled
}

// ClusterEnabled reports whether the cluster unit participates in apply/destroy.
func (c *Config) ClusterEnabled() bool {
	return c.Cluster.Enabled == nil || *c.Cluster.Enabled
}

// FleetPublic reports whether fleet instances get public addresses.
func (c *Config) FleetPublic() bool {
	return c.Fleet.Public != nil && *c.Fleet.Public
}
