package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	timeouts := LoadTimeouts()

	assert.Equal(t, 20*time.Minute, timeouts.ClusterReady)
	assert.Equal(t, 15*time.Minute, timeouts.NodeGroupReady)
	assert.Equal(t, 5*time.Minute, timeouts.NATReady)
	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
	assert.Equal(t, time.Second, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_EnvOverrides(t *testing.T) {
	t.Setenv("RFLEET_TIMEOUT_CLUSTER_READY", "30m")
	t.Setenv("RFLEET_RETRY_MAX_ATTEMPTS", "8")
	t.Setenv("RFLEET_RETRY_INITIAL_DELAY", "250ms")

	timeouts := LoadTimeouts()

	assert.Equal(t, 30*time.Minute, timeouts.ClusterReady)
	assert.Equal(t, 8, timeouts.RetryMaxAttempts)
	assert.Equal(t, 250*time.Millisecond, timeouts.RetryInitialDelay)
}

func TestLoadTimeouts_UnparseableValuesFallBack(t *testing.T) {
	t.Setenv("RFLEET_RETRY_MAX_ATTEMPTS", "lots")
	t.Setenv("RFLEET_TIMEOUT_DELETE", "soon")

	timeouts := LoadTimeouts()

	assert.Equal(t, 5, timeouts.RetryMaxAttempts)
	assert.Equal(t, 15*time.Minute, timeouts.Delete)
}
