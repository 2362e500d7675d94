package provisioning

import (
	"context"

	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/platform/aws"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Infra    aws.InfrastructureManager
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, infra aws.InfrastructureManager) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Infra:    infra,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
	}
}

// Tags returns the base tag set every resource of this deployment carries.
func (c *Context) Tags() map[string]string {
	return map[string]string{
		aws.StackTag: c.Config.Name,
	}
}
