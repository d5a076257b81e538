package catalog

import "errors"

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("catalog entry not found")
	ErrTypeInUse     = errors.New("resource type still has resources")
	ErrResourceInUse = errors.New("resource has active reservations")
)
