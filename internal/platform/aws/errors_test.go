package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "test"}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindUnknown},
		{"throttling", apiError("Throttling"), KindTransient},
		{"request limit", apiError("RequestLimitExceeded"), KindTransient},
		{"vcpu quota", apiError("VcpuLimitExceeded"), KindQuota},
		{"generic quota suffix", apiError("NatGatewayLimitExceeded"), KindQuota},
		{"unauthorized", apiError("UnauthorizedOperation"), KindAuth},
		{"access denied", apiError("AccessDeniedException"), KindAuth},
		{"bad credentials", apiError("AuthFailure"), KindAuth},
		{"vpc not found", apiError("InvalidVpcID.NotFound"), KindNotFound},
		{"eks not found", apiError("ResourceNotFoundException"), KindNotFound},
		{"plain error", errors.New("boom"), KindUnknown},
		{"wrapped", fmt.Errorf("describing: %w", apiError("Throttling")), KindTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(apiError("InvalidSubnetID.NotFound")))
	assert.True(t, IsNotFound(apiError("NoSuchEntity")))
	assert.False(t, IsNotFound(apiError("Throttling")))
	assert.False(t, IsNotFound(nil))
}
