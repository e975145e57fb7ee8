package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account inactive")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)
