package app

import "errors"

var (
	// ErrScreenFailed reports a screen that settled in the errored state.
	ErrScreenFailed = errors.New("screen failed to load")
	// ErrUnknownTeam reports a team that matches no choice value or name.
	ErrUnknownTeam = errors.New("unknown team")
)
