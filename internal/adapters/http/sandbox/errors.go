package sandbox

import "errors"

// Sentinel kinds for sandbox request errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already in use")
)
