package aws

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// isThrottled checks if an error indicates API rate limiting. These errors
// are retryable with backoff.
func isThrottled(err error) bool {
	return isAPIErrorCode(err,
		"Throttling",
		"ThrottlingException",
		"RequestLimitExceeded",
		"TooManyRequestsException",
	)
}

// isQuotaExceeded checks if an error indicates an account service quota was
// hit. Retrying does not help until the quota is raised.
func isQuotaExceeded(err error) bool {
	if isAPIErrorCode(err,
		"VcpuLimitExceeded",
		"InstanceLimitExceeded",
		"AddressLimitExceeded",
		"NatGatewayLimitExceeded",
		"VpcLimitExceeded",
		"ResourceLimitExceeded",
	) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return strings.HasSuffix(apiErr.ErrorCode(), "LimitExceeded")
	}
	return false
}

// isAuthFailure checks if an error indicates missing or invalid credentials
// or permissions. These errors are fatal.
func isAuthFailure(err error) bool {
	return isAPIErrorCode(err,
		"UnauthorizedOperation",
		"AccessDenied",
		"AccessDeniedException",
		"AuthFailure",
		"InvalidClientTokenId",
		"SignatureDoesNotMatch",
		"ExpiredToken",
	)
}

// IsNotFound checks if an error indicates the resource does not exist.
func IsNotFound(err error) bool {
	if isAPIErrorCode(err, "ResourceNotFoundException", "NoSuchEntity") {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return strings.HasSuffix(apiErr.ErrorCode(), ".NotFound")
	}
	return false
}

// isAPIErrorCode checks if the error is an AWS API error with one of the
// given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		for _, code := range codes {
			if apiErr.ErrorCode() == code {
				return true
			}
		}
	}
	return false
}

// ErrorKind buckets an API failure for the caller's retry and reporting
// decisions.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTransient
	KindQuota
	KindAuth
	KindNotFound
)

// Classify maps an AWS API error to its kind. Unrecognized errors are
// KindUnknown and left to the caller's default handling.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case isThrottled(err):
		return KindTransient
	case isQuotaExceeded(err):
		return KindQuota
	case isAuthFailure(err):
		return KindAuth
	case IsNotFound(err):
		return KindNotFound
	default:
		return KindUnknown
	}
}
