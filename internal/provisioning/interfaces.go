// Package provisioning provides shared types and interfaces for
// infrastructure provisioning.
//
// The provisioning domain is organized into focused subpackages:
//   - network/ — VPC, subnets, gateways, routing
//   - fleet/ — key pairs, security boundary, launch template, instance group
//   - cluster/ — IAM roles, control plane, node group, identity federation
//   - destroy/ — reverse-order teardown of all units
//
// This root package contains the phase pipeline, shared state, error
// classification, and observability types used across subpackages.
package provisioning

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Logger is the minimal printf-style logging surface phases depend on.
type Logger interface {
	Printf(format string, v ...interface{})
}
