package reservation

import (
	"errors"
	"strings"
)

var (
	ErrValidation          = errors.New("validation error")
	ErrResourceUnavailable = errors.New("resource not available for reservations")
	ErrNotFound            = errors.New("reservation not found")
	ErrForbidden           = errors.New("not allowed to act on this reservation")
	ErrForbiddenFields     = errors.New("request contains fields outside the allowed set")
	ErrInvalidState        = errors.New("operation not allowed in current reservation state")
)

// ForbiddenFieldsError carries the request body keys that fell outside
// the caller's allow-list. It unwraps to ErrForbiddenFields.
type ForbiddenFieldsError struct {
	Fields []string
}

func (e *ForbiddenFieldsError) Error() string {
	return "forbidden fields: " + strings.Join(e.Fields, ", ")
}

func (e *ForbiddenFieldsError) Unwrap() error { return ErrForbiddenFields }
