package domain

import (
	"errors"
	"fmt"
)

// ErrEmptyCompletion reports a provider call that succeeded at the transport
// level but returned no content.
var ErrEmptyCompletion = errors.New("empty response from completion provider")

// ValidationError reports invalid caller input. Handlers map it to 400.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// NotFoundError reports a reference to an unknown resource. Handlers map it
// to 404.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// ProviderError wraps an upstream completion failure. Handlers map it to 500.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return "completion provider: " + e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }
