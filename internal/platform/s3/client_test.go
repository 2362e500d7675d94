package s3

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"typed NoSuchBucket", &types.NoSuchBucket{}, true},
		{"typed NotFound", &types.NotFound{}, true},
		{"api code NotFound", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"api code 404", &smithy.GenericAPIError{Code: "404"}, true},
		{"wrapped", fmt.Errorf("head bucket: %w", &smithy.GenericAPIError{Code: "NoSuchBucket"}), true},
		{"access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isNotFoundError(tt.err))
		})
	}
}
