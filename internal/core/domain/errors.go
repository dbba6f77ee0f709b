package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")
)

// ConfigurationError indicates a required credential or storage handle is
// missing or could not be constructed. It is never retried; the message
// names the offending setting so the operator can act on it.
type ConfigurationError struct {
	// Setting is the configuration key that is missing or invalid.
	Setting string

	// Err is the underlying construction failure, if any.
	Err error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Setting, e.Err)
	}
	return fmt.Sprintf("configuration error: %s is not set", e.Setting)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// NotFoundError indicates a named collection is absent in strict mode.
// It carries the full list of available collections for operator diagnosis.
type NotFoundError struct {
	// Collection is the collection that was requested.
	Collection string

	// Path is the configured store location.
	Path string

	// Available lists the collections that do exist.
	Available []string
}

func (e *NotFoundError) Error() string {
	avail := "none"
	if len(e.Available) > 0 {
		avail = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("collection %q not found at %s (available: %s)",
		e.Collection, e.Path, avail)
}

// UpstreamError indicates a remote call failed after exhausting the local
// retry budget. Op names the failing operation; the remaining fields carry
// whatever diagnostics were available at the call site.
type UpstreamError struct {
	// Op is the operation that failed (e.g. "embed", "rerank", "generate").
	Op string

	// Detail is optional context such as collection name or configured path.
	Detail string

	// Err is the underlying failure.
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// ValidationError indicates a malformed request at the transport boundary.
type ValidationError struct {
	// Field is the offending request field.
	Field string

	// Reason says what is wrong with it.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
