package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/rfleet/rfleet/internal/provisioning"
)

func TestValidate_OK(t *testing.T) {
	cfg := handlerConfig(t)
	stubFactories(t, cfg, &aws.MockClient{})

	require.NoError(t, Validate(context.Background(), ""))
	assert.NotEmpty(t, cfg.Network.PublicSubnets, "subnets derived during validation")
}

func TestValidate_BadPortBase(t *testing.T) {
	cfg := handlerConfig(t)
	cfg.Fleet.Ports.Base = 22
	stubFactories(t, cfg, &aws.MockClient{})

	err := Validate(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, provisioning.KindValidation, provisioning.KindOf(err))
}
