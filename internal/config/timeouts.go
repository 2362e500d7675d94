package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds per-resource readiness wait budgets. Exceeding one is a
// reported failure for that resource, never a process crash.
type Timeouts struct {
	ClusterReady      time.Duration // EKS control plane ACTIVE wait
	NodeGroupReady    time.Duration // node group ACTIVE wait
	NATReady          time.Duration // NAT gateway available wait
	InstancesReady    time.Duration // fleet instance address collection wait
	Delete            time.Duration // per-resource teardown wait
	RetryMaxAttempts  int           // attempts for transient API failures
	RetryInitialDelay time.Duration // first backoff delay
}

// LoadTimeouts reads timeout configuration from environment variables,
// falling back to defaults.
//
// Environment variables:
//   - RFLEET_TIMEOUT_CLUSTER_READY (default: 20m)
//   - RFLEET_TIMEOUT_NODEGROUP_READY (default: 15m)
//   - RFLEET_TIMEOUT_NAT_READY (default: 5m)
//   - RFLEET_TIMEOUT_INSTANCES_READY (default: 5m)
//   - RFLEET_TIMEOUT_DELETE (default: 15m)
//   - RFLEET_RETRY_MAX_ATTEMPTS (default: 5)
//   - RFLEET_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ClusterReady:      parseDuration("RFLEET_TIMEOUT_CLUSTER_READY", 20*time.Minute),
		NodeGroupReady:    parseDuration("RFLEET_TIMEOUT_NODEGROUP_READY", 15*time.Minute),
		NATReady:          parseDuration("RFLEET_TIMEOUT_NAT_READY", 5*time.Minute),
		InstancesReady:    parseDuration("RFLEET_TIMEOUT_INSTANCES_READY", 5*time.Minute),
		Delete:            parseDuration("RFLEET_TIMEOUT_DELETE", 15*time.Minute),
		RetryMaxAttempts:  parseInt("RFLEET_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("RFLEET_RETRY_INITIAL_DELAY", time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}
