// Package viewstate holds the lifecycle of one screen's data: loading,
// loaded with a payload, or failed with a message. A screen owns exactly one
// Controller and every transition goes through it.
package viewstate

// Phase names a lifecycle phase.
type Phase int

const (
	Loading Phase = iota
	Loaded
	Errored
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// State is a snapshot of a controller. Data is meaningful only when Phase is
// Loaded and Message only when Phase is Errored.
type State[T any] struct {
	Phase   Phase
	Data    T
	Message string
}

// IsLoading reports whether the screen is waiting for its first result.
func (s State[T]) IsLoading() bool { return s.Phase == Loading }

// IsLoaded reports whether data is available.
func (s State[T]) IsLoaded() bool { return s.Phase == Loaded }

// IsErrored reports whether the screen shows a failure message.
func (s State[T]) IsErrored() bool { return s.Phase == Errored }
