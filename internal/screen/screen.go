// Package screen owns the per-screen state of the client. Each screen
// fetches its collections on mount, exposes exactly one view state and
// ignores results that arrive after it was closed.
package screen

import (
	"context"
	"time"

	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/pkg/logger"
)

const defaultCloseDelay = 900 * time.Millisecond

// Fetcher retrieves one collection.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (record.Collection, error)
}

// Client is what the users screen needs: fetches plus the user PATCH.
type Client interface {
	Fetcher
	Patch(ctx context.Context, endpoint string, body any) (record.Record, error)
}

// Option configures a screen.
type Option func(*options)

type options struct {
	log        logger.Logger
	closeDelay time.Duration
}

func newOptions(opts []Option) options {
	o := options{log: logger.Nop(), closeDelay: defaultCloseDelay}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the screen logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithCloseDelay sets how long a successful edit stays open before the
// draft closes itself.
func WithCloseDelay(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.closeDelay = d
		}
	}
}

// message turns a failure into the single line shown on screen.
func message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
