package screen

import "errors"

// Sentinel kinds for screen operations.
var (
	ErrClosed         = errors.New("screen closed")
	ErrNotLoaded      = errors.New("screen data not loaded")
	ErrUserNotFound   = errors.New("user not found")
	ErrNoDraft        = errors.New("no edit in progress")
	ErrSaveInProgress = errors.New("save already in progress")
)

// Step names a stage of the edit transaction.
type Step string

const (
	StepValidate     Step = "validate"
	StepPatch        Step = "patch"
	StepRefreshUsers Step = "refresh_users"
	StepRefreshTeams Step = "refresh_teams"
)

// SaveError reports which stage of a save failed. Its message is the
// underlying failure's, as shown in the edit view.
type SaveError struct {
	Step Step
	Err  error
}

func (e *SaveError) Error() string { return e.Err.Error() }

func (e *SaveError) Unwrap() error { return e.Err }
