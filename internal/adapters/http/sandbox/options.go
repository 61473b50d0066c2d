package sandbox

import (
	"time"

	"github.com/okian/octofit/pkg/logger"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithEnvelope wraps list responses in a paginated envelope
// {"count", "next", "previous", "results"}.
func WithEnvelope(on bool) Option {
	return func(s *Server) { s.envelope = on }
}

// WithEmbeddedMembers serves team members and activity users as embedded
// user objects instead of bare ids.
func WithEmbeddedMembers(on bool) Option {
	return func(s *Server) { s.embedMembers = on }
}

// WithLatency delays every response by d.
func WithLatency(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.latency = d
		}
	}
}
