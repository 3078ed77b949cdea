// Package apperrors defines the error kinds the persistence layer reports.
// Callers branch on kind with errors.Is / errors.As; the HTTP layer maps the
// kinds to status codes.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a required row does not exist. Repository Find*
// variants return (nil, nil) instead; only the strict Get* variants wrap this.
var ErrNotFound = errors.New("registro no encontrado")

// ValidationError reports malformed input (member number format, quarter range).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación de %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for one field.
func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IntegrityError reports a domain rule blocking a write, e.g. deleting a
// family that still has active members.
type IntegrityError struct {
	Reason string
}

func (e *IntegrityError) Error() string { return e.Reason }

// StorageError wraps a failure of the underlying database: connection, lock
// or query execution. Opaque to callers beyond its kind.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("error de base de datos en %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError unless it already carries a kind.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var ie *IntegrityError
	if errors.Is(err, ErrNotFound) || errors.As(err, &ve) || errors.As(err, &ie) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsIntegrity reports whether err is an IntegrityError.
func IsIntegrity(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}
