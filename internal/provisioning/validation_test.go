package provisioning

import (
	"context"
	"testing"

	"github.com/rfleet/rfleet/internal/config"
	"github.com/rfleet/rfleet/internal/platform/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validationYAML = `
name: redis-prod
region: eu-central-1
network:
  azs: [eu-central-1a, eu-central-1b]
fleet:
  ami: ami-0123456789abcdef0
  key_name: ops
`

func TestValidationPhase_Passes(t *testing.T) {
	cfg, err := config.Parse([]byte(validationYAML))
	require.NoError(t, err)
	ctx := NewContext(context.Background(), cfg, &aws.MockClient{})

	require.NoError(t, NewValidationPhase().Provision(ctx))
	assert.NotEmpty(t, cfg.Network.PublicSubnets, "subnets are derived during validation")
	assert.NotEmpty(t, cfg.Network.PrivateSubnets)
}

func TestValidationPhase_RejectsBadConfig(t *testing.T) {
	cfg, err := config.Parse([]byte(validationYAML))
	require.NoError(t, err)
	cfg.Fleet.Ports.Base = 22
	ctx := NewContext(context.Background(), cfg, &aws.MockClient{})

	err = NewValidationPhase().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}
