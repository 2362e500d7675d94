// Package async provides helpers for running independent provisioning tasks
// concurrently.
package async

import (
	"context"
	"fmt"
)

// Task is a named operation that can run concurrently with others.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts all tasks concurrently and waits for every one to finish.
// The first failure is returned, wrapped with the task name; remaining tasks
// are not interrupted beyond whatever ctx provides, so partially created
// resources stay reconcilable by a later apply.
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}
	results := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			results <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var firstErr error
	for range len(tasks) {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", res.name, res.err)
		}
	}
	return firstErr
}
