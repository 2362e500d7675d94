package provisioning

import (
	"sort"
	"sync"

	"github.com/rfleet/rfleet/internal/platform/aws"
)

// Status is the lifecycle state of one tracked resource.
type Status string

const (
	StatusAbsent   Status = "absent"
	StatusCreating Status = "creating"
	StatusReady    Status = "ready"
	StatusUpdating Status = "updating"
	StatusDeleting Status = "deleting"
	StatusFailed   Status = "failed"
)

// Record tracks the lifecycle of one resource across phases.
type Record struct {
	Name   string
	Type   string
	ID     string
	Status Status
}

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results. Fleet and cluster phases
// run concurrently, so the resource records are guarded by a mutex; the
// typed result fields are each written by exactly one phase.
type State struct {
	// Network results (populated by the network provisioner)
	VPC             *aws.VPC
	PublicSubnets   []*aws.Subnet
	PrivateSubnets  []*aws.Subnet
	InternetGateway string
	NATGateway      string

	// Fleet results (populated by the fleet provisioner)
	KeyPairID        string
	PrivateKey       []byte // only set when the key pair was generated
	SecurityGroup    *aws.SecurityGroup
	LaunchTemplateID string
	Instances        []aws.InstanceAddress

	// Cluster results (populated by the cluster provisioner)
	Cluster           *aws.Cluster
	OIDCProviderARN   string
	AutoscalerRoleARN string
	Kubeconfig        []byte

	// Addon results (populated by the addon phase)
	InstalledAddons []string

	mu      sync.Mutex
	records map[string]*Record
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		records: make(map[string]*Record),
	}
}

// Transition records a lifecycle change for a named resource. The first
// transition implicitly registers the resource; its ID may be filled in
// later via the same call once known.
func (s *State) Transition(name, resourceType, id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[name]
	if !ok {
		rec = &Record{Name: name, Type: resourceType}
		s.records[name] = rec
	}
	if id != "" {
		rec.ID = id
	}
	rec.Status = status
}

// Resource returns the record for a named resource, or nil if it was never
// tracked.
func (s *State) Resource(name string) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[name]
	if !ok {
		return nil
	}
	copied := *rec
	return &copied
}

// Resources returns a snapshot of all tracked records sorted by name.
func (s *State) Resources() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SubnetIDs extracts the IDs of the given subnets.
func SubnetIDs(subnets []*aws.Subnet) []string {
	out := make([]string, 0, len(subnets))
	for _, s := range subnets {
		out = append(out, s.ID)
	}
	return out
}
