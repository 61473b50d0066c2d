package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound    = errors.New("document not found")
	ErrDuplicateID = errors.New("duplicate document id")
	ErrReadOnly    = errors.New("write in read-only transaction")
)
