package history

import "errors"

var (
	ErrNotFound  = errors.New("reservation not found")
	ErrForbidden = errors.New("not allowed to view this reservation history")
)
