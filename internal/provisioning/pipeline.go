package provisioning

import (
	"fmt"
	"time"
)

// RunPhases executes phases in order, stopping at the first failure. Phases
// mutate the shared context state, so a failed run leaves earlier results in
// place and a rerun resumes from them.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()

	for i, phase := range phases {
		phaseStart := time.Now()
		label := fmt.Sprintf("%d/%d %s", i+1, len(phases), phase.Name())

		ctx.Observer.Printf("[%s] starting", label)
		if err := phase.Provision(ctx); err != nil {
			ctx.Observer.Printf("[%s] failed: %v", label, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}
		ctx.Observer.Printf("[%s] done in %v", label, time.Since(phaseStart).Round(time.Millisecond))
	}

	ctx.Observer.Printf("%d phases done in %v", len(phases), time.Since(start).Round(time.Millisecond))
	return nil
}
