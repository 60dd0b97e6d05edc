package usecase

import (
	"errors"
	"fmt"
)

// IdentityResolutionError is fatal for a submission: without the store's
// auto number no legacy code can ever be derived, so nothing downstream is
// attempted.
type IdentityResolutionError struct {
	Email string
	Err   error
}

func (e *IdentityResolutionError) Error() string {
	return fmt.Sprintf("identity resolution failed for %s: %v", e.Email, e.Err)
}

func (e *IdentityResolutionError) Unwrap() error { return e.Err }

func IsIdentityResolutionError(err error) bool {
	var ie *IdentityResolutionError
	return errors.As(err, &ie)
}

// ValidationError rejects a request before any external call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
