/*
 * Copyright © 2025 ABC Retailors, All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a record, file or directory does not exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when inserting a record whose key is already taken
	ErrAlreadyExists = errors.New("already exists")

	// ErrConcurrencyConflict is returned when an update carries a stale concurrency token
	ErrConcurrencyConflict = errors.New("concurrency conflict")

	// ErrBackendUnavailable is returned for transport and service failures of a storage backend
	ErrBackendUnavailable = errors.New("storage backend unavailable")

	// ErrBootstrapFailed is returned when provisioning of a container fails
	ErrBootstrapFailed = errors.New("bootstrap failed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotReady is returned when the facade is used before bootstrap completed
	ErrNotReady = errors.New("storage facade not ready")
)

// NotFoundError represents an error when a record or object is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// AlreadyExistsError represents an error when a record already exists
type AlreadyExistsError struct {
	Type string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key %q already exists", e.Type, e.Key)
}

func (e *AlreadyExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}

// ConcurrencyConflictError is returned by updates whose token no longer matches
// the stored one. The caller has to reload the record and apply its change again.
type ConcurrencyConflictError struct {
	Type string
	Key  string
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s with key %q was modified by another process, reload and retry", e.Type, e.Key)
}

func (e *ConcurrencyConflictError) Is(target error) bool {
	return target == ErrConcurrencyConflict
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// BackendError wraps a failure reported by the underlying storage service.
type BackendError struct {
	Op       string
	Resource string
	Err      error
}

func (e *BackendError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BootstrapError records the provisioning step that aborted bootstrap.
type BootstrapError struct {
	Step     string
	Resource string
	Err      error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("bootstrap step %s (%s) failed: %v", e.Step, e.Resource, e.Err)
}

func (e *BootstrapError) Is(target error) bool {
	return target == ErrBootstrapFailed
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewAlreadyExistsError creates a new AlreadyExistsError
func NewAlreadyExistsError(entityType, key string) error {
	return &AlreadyExistsError{Type: entityType, Key: key}
}

// NewConcurrencyConflictError creates a new ConcurrencyConflictError
func NewConcurrencyConflictError(entityType, key string) error {
	return &ConcurrencyConflictError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewBackendError wraps err as a BackendError. A nil err yields nil.
func NewBackendError(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Resource: resource, Err: err}
}

// NewBootstrapError creates a new BootstrapError
func NewBootstrapError(step, resource string, err error) error {
	return &BootstrapError{Step: step, Resource: resource, Err: err}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsConcurrencyConflict checks if an error is a concurrency conflict
func IsConcurrencyConflict(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsBackendUnavailable checks if an error came from the storage backend
func IsBackendUnavailable(err error) bool {
	return errors.Is(err, ErrBackendUnavailable)
}

// IsBootstrapFailed checks if an error is a bootstrap failure
func IsBootstrapFailed(err error) bool {
	return errors.Is(err, ErrBootstrapFailed)
}

// Kind returns a short label for the error class, used by logging and metrics.
// A BootstrapError is labelled bootstrap_failed whatever its cause.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsNotFound(err):
		return "not_found"
	case IsAlreadyExists(err):
		return "conflict"
	case IsConcurrencyConflict(err):
		return "concurrency_conflict"
	case IsBootstrapFailed(err):
		return "bootstrap_failed"
	case IsValidationError(err):
		return "invalid_input"
	case errors.Is(err, ErrNotReady):
		return "not_ready"
	case IsBackendUnavailable(err):
		return "backend_unavailable"
	default:
		return "unknown"
	}
}
