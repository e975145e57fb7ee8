package evaluation

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("evaluation not found")
	ErrForbidden        = errors.New("forbidden")
	ErrAlreadyConcluded = errors.New("evaluation already concluded")
)
