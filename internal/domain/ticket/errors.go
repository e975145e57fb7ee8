package ticket

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("ticket not found")
	ErrForbidden       = errors.New("forbidden")
	ErrDuplicateNumber = errors.New("ticket number already taken")
)
