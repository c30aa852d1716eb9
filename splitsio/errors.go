package splitsio

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrNotHistoric indicates historic-only data was requested from a run
	// that was not fetched in historic mode
	ErrNotHistoric = errors.New("historic data not requested at fetch time")
	// ErrNoAlternateKey indicates a Key identifier was used for a resource
	// kind that only supports numeric ids
	ErrNoAlternateKey = errors.New("resource kind has no alternate lookup key")
	// ErrNotAttached indicates a relationship accessor was called on a
	// resource that was not produced by a client fetch
	ErrNotAttached = errors.New("resource is not attached to a client")
)

// APIError represents a failed splits.io API request
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("splits.io API error: %s: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}

// MappingError indicates a JSON response did not match the expected shape
// for its resource kind
type MappingError struct {
	Kind   Kind
	Field  string
	Reason string
	Err    error
}

// Error implements the error interface
func (e *MappingError) Error() string {
	msg := fmt.Sprintf("cannot map %s", e.Kind)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *MappingError) Unwrap() error {
	return e.Err
}

// RegistryError indicates an internal inconsistency in the resource
// registry. It is a programmer error: NewClient runs a registry self-check
// so a correct build never produces one at request time.
type RegistryError struct {
	Kind         Kind
	Relationship string
}

// Error implements the error interface
func (e *RegistryError) Error() string {
	if e.Relationship != "" {
		return fmt.Sprintf("registry: %s has no relationship %q", e.Kind, e.Relationship)
	}
	return fmt.Sprintf("registry: incomplete entry for %s", e.Kind)
}
