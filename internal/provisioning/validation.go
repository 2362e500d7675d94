package provisioning

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationPhase implements the Phase interface for pre-flight validation.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface. It derives subnet blocks for
// configs that omit explicit lists, then rejects the run on any validation
// error. Warnings are logged and do not block.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	if err := ctx.Config.Network.DeriveSubnets(); err != nil {
		return E(KindValidation, "network", fmt.Errorf("deriving subnets: %w", err))
	}

	var errMsgs []string
	for _, issue := range ctx.Config.Validate() {
		if !issue.IsError() {
			ctx.Observer.Event(Event{
				Type:    EventValidationWarning,
				Phase:   vp.Name(),
				Message: issue.Error(),
			})
			continue
		}
		ctx.Observer.Event(Event{
			Type:    EventValidationError,
			Phase:   vp.Name(),
			Message: issue.Error(),
		})
		errMsgs = append(errMsgs, issue.Error())
	}

	if len(errMsgs) > 0 {
		return E(KindValidation, "", errors.New("configuration validation failed:\n  "+strings.Join(errMsgs, "\n  ")))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}
