package room

import "errors"

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNameTaken     = errors.New("room name already used")
	ErrInvalidRoomID = errors.New("invalid room id")
)
