package recordstore

import (
	"errors"
	"fmt"
)

// UnavailableError covers transport failures and 5xx responses from the
// store. This is the only error class a caller may retry.
type UnavailableError struct {
	Op         string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record store unavailable during %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("record store unavailable during %s (status %d)", e.Op, e.StatusCode)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// RejectedError covers 4xx responses: a bad field name, a bad type, a bad
// filter. Permanent until someone fixes the field mappings, so the store's
// own detail string is kept verbatim.
type RejectedError struct {
	Op         string
	StatusCode int
	Detail     string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("record store rejected %s (status %d): %s", e.Op, e.StatusCode, e.Detail)
}

func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}
