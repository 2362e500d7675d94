package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/provisioning"
)

type teardownStub struct {
	name string
	ran  *[]string
	err  error
}

func (p *teardownStub) Name() string { return p.name }
func (p *teardownStub) Provision(_ *provisioning.Context) error {
	*p.ran = append(*p.ran, p.name)
	return p.err
}

func stubTeardowns(t *testing.T, ran *[]string, fleetErr error) {
	t.Helper()
	origCluster := newClusterTeardown
	origFleet := newFleetTeardown
	origNetwork := newNetworkTeardown
	t.Cleanup(func() {
		newClusterTeardown = origCluster
		newFleetTeardown = origFleet
		newNetworkTeardown = origNetwork
	})

	newClusterTeardown = func() provisioning.Phase { return &teardownStub{name: "cluster-teardown", ran: ran} }
	newFleetTeardown = func() provisioning.Phase { return &teardownStub{name: "fleet-teardown", ran: ran, err: fleetErr} }
	newNetworkTeardown = func() provisioning.Phase { return &teardownStub{name: "network-teardown", ran: ran} }
}

func TestDestroy_ReverseDependencyOrder(t *testing.T) {
	cfg := handlerConfig(t)
	stubFactories(t, cfg, &aws.MockClient{})
	var ran []string
	stubTeardowns(t, &ran, nil)

	require.NoError(t, Destroy(context.Background(), "rfleet.yaml", nil))
	assert.Equal(t, []string{"cluster-teardown", "fleet-teardown", "network-teardown"}, ran)
}

func TestDestroy_UnitSelection(t *testing.T) {
	cfg := handlerConfig(t)
	stubFactories(t, cfg, &aws.MockClient{})
	var ran []string
	stubTeardowns(t, &ran, nil)

	require.NoError(t, Destroy(context.Background(), "rfleet.yaml", []string{"fleet"}))
	assert.Equal(t, []string{"fleet-teardown"}, ran)
}

func TestDestroy_StopsOnFailure(t *testing.T) {
	cfg := handlerConfig(t)
	stubFactories(t, cfg, &aws.MockClient{})
	var ran []string
	stubTeardowns(t, &ran, errors.New("dependency violation"))

	err := Destroy(context.Background(), "rfleet.yaml", nil)
	require.Error(t, err)
	assert.Equal(t, []string{"cluster-teardown", "fleet-teardown"}, ran,
		"network teardown does not run after a fleet failure")
}
