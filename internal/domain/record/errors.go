package record

import "errors"

// Sentinel kinds for decode errors.
var (
	ErrMalformed = errors.New("malformed JSON")
	ErrNotObject = errors.New("record is not a JSON object")
)
