package edit

import "errors"

var (
	ErrNoUserID     = errors.New("user has no identifier")
	ErrInvalidDraft = errors.New("invalid draft")
)
