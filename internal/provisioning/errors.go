package provisioning

import (
	"errors"
	"fmt"

	"github.com/rfleet/rfleet/internal/platform/aws"
)

// Kind classifies a provisioning failure for reporting and retry decisions.
type Kind string

const (
	// KindValidation marks configuration rejected before any API call.
	KindValidation Kind = "validation"
	// KindQuota marks an account limit that blocks resource creation.
	KindQuota Kind = "quota"
	// KindAuth marks missing or invalid credentials or permissions.
	KindAuth Kind = "auth"
	// KindDependencyNotReady marks an operation attempted before the
	// resource it depends on reached a ready state.
	KindDependencyNotReady Kind = "dependency-not-ready"
	// KindTransient marks failures that may succeed on retry.
	KindTransient Kind = "transient"
	// KindInternal marks everything else.
	KindInternal Kind = "internal"
)

// Error is a classified provisioning failure tied to a named resource.
type Error struct {
	Kind     Kind
	Resource string
	Err      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind and the resource it concerns.
func E(kind Kind, resource string, err error) *Error {
	return &Error{Kind: kind, Resource: resource, Err: err}
}

// KindOf returns the classification of err, or KindInternal if it carries
// none.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindInternal
}

// ClassifyAPIError wraps a cloud API failure with the kind derived from its
// error code. Unrecognized codes become KindInternal.
func ClassifyAPIError(resource string, err error) error {
	if err == nil {
		return nil
	}
	switch aws.Classify(err) {
	case aws.KindTransient:
		return E(KindTransient, resource, err)
	case aws.KindQuota:
		return E(KindQuota, resource, err)
	case aws.KindAuth:
		return E(KindAuth, resource, err)
	default:
		return E(KindInternal, resource, err)
	}
}
