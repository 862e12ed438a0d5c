package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDuplicateReview is returned when the author already reviewed the title.
	ErrDuplicateReview = errors.New("you have already reviewed this title")
	// ErrPermissionDenied is returned when the actor's role does not allow the change.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	// ErrInvalidCode is the AuthError reason for a wrong or expired confirmation code.
	ErrInvalidCode = errors.New("invalid confirmation code")
	// ErrUnknownUser is the AuthError reason for a username with no account.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidToken is returned for malformed, expired or mistyped JWTs.
	ErrInvalidToken = errors.New("invalid token")
)

// ValidationError carries one message per offending field.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: fmt.Sprintf(format, args...)}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError names the missing resource and the key it was looked up by.
type NotFoundError struct {
	Resource string
	Key      string
	Err      error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// AuthError is returned by the token exchange. Reason is ErrInvalidCode or
// ErrUnknownUser.
type AuthError struct {
	Username string
	Reason   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed for %s: %v", e.Username, e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Reason
}
