package repository

import "time"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithMetricsUpdateInterval sets the interval for background metrics
// updates. Zero disables the updater.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(s *Store) {
		if interval >= 0 {
			s.metricsUpdateInterval = interval
		}
	}
}

// WithIDGenerator replaces the generator used for documents inserted
// without an "_id".
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}
