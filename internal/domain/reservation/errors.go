package reservation

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("reservation not found")
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomInactive = errors.New("room is inactive")
	ErrConflict     = errors.New("a reservation already exists in this window")
	ErrForbidden    = errors.New("forbidden")
)
