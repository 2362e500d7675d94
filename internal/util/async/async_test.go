package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParallel_Empty(t *testing.T) {
	assert.NoError(t, RunParallel(context.Background(), nil))
}

func TestRunParallel_AllSucceed(t *testing.T) {
	var count atomic.Int32
	tasks := []Task{
		{Name: "a", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "b", Func: func(context.Context) error { count.Add(1); return nil }},
		{Name: "c", Func: func(context.Context) error { count.Add(1); return nil }},
	}
	require.NoError(t, RunParallel(context.Background(), tasks))
	assert.Equal(t, int32(3), count.Load())
}

func TestRunParallel_ReportsFailureWithTaskName(t *testing.T) {
	boom := errors.New("boom")
	var ran atomic.Bool
	tasks := []Task{
		{Name: "fleet", Func: func(context.Context) error { return boom }},
		{Name: "cluster", Func: func(context.Context) error { ran.Store(true); return nil }},
	}
	err := RunParallel(context.Background(), tasks)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fleet")
	// The sibling task still ran to completion.
	assert.True(t, ran.Load())
}
