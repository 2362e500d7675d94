package addons

import "github.com/rfleet/rfleet/internal/provisioning"

// Phase adapts the add-on manager to the provisioning pipeline. It runs
// after the cluster phase, which leaves the kubeconfig in state.
type Phase struct {
	manager *Manager
}

// NewPhase creates the add-on installation phase.
func NewPhase() *Phase {
	return &Phase{manager: NewManager()}
}

// NewPhaseWithManager creates the phase with a preconfigured manager.
func NewPhaseWithManager(manager *Manager) *Phase {
	return &Phase{manager: manager}
}

// Name returns the phase name.
func (p *Phase) Name() string {
	return "addons"
}

// Provision installs the enabled add-ons.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	return p.manager.Apply(ctx)
}
