package viewstate

import (
	"context"
	"sync"

	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

// Ticket identifies one fetch generation. Results delivered with an older
// ticket than the controller's current one are ignored.
type Ticket uint64

// Observer receives every transition in order. Observers may read State but
// must not drive transitions on the same controller.
type Observer[T any] func(State[T])

// Controller serializes transitions for one screen.
type Controller[T any] struct {
	name string
	log  logger.Logger

	mu        sync.Mutex
	notify    sync.Mutex
	state     State[T]
	gen       Ticket
	closed    bool
	observers []Observer[T]
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger sets the logger used for transition records.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// NewController creates a controller in the Loading phase. name labels logs
// and metrics.
func NewController[T any](name string, opts ...Option) *Controller[T] {
	o := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller[T]{
		name:  name,
		log:   o.log.Named("viewstate").With(logger.String("screen", name)),
		state: State[T]{Phase: Loading},
	}
}

// Name returns the screen name the controller was created with.
func (c *Controller[T]) Name() string { return c.name }

// State returns the current snapshot.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Observe registers fn for all subsequent transitions.
func (c *Controller[T]) Observe(fn Observer[T]) {
	if fn == nil {
		return
	}
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Begin enters Loading and invalidates every outstanding ticket.
func (c *Controller[T]) Begin() Ticket {
	c.mu.Lock()
	if c.closed {
		t := c.gen
		c.mu.Unlock()
		return t
	}
	c.gen++
	t := c.gen
	c.mu.Unlock()

	c.transition(func() bool { return c.gen == t }, State[T]{Phase: Loading})
	return t
}

// Resolve moves to Loaded with data. It reports false when the ticket is
// stale or the controller is closed.
func (c *Controller[T]) Resolve(t Ticket, data T) bool {
	return c.transition(func() bool { return c.gen == t }, State[T]{Phase: Loaded, Data: data})
}

// Fail moves to Errored with message. It reports false when the ticket is
// stale or the controller is closed.
func (c *Controller[T]) Fail(t Ticket, message string) bool {
	return c.transition(func() bool { return c.gen == t }, State[T]{Phase: Errored, Message: message})
}

// Update replaces the loaded payload with fn's result without passing
// through Loading. It is a no-op unless the controller is Loaded.
func (c *Controller[T]) Update(fn func(T) T) bool {
	c.notify.Lock()
	defer c.notify.Unlock()

	c.mu.Lock()
	if c.closed || c.state.Phase != Loaded {
		c.mu.Unlock()
		return false
	}
	next := State[T]{Phase: Loaded, Data: fn(c.state.Data)}
	c.state = next
	observers := append([]Observer[T](nil), c.observers...)
	c.mu.Unlock()

	c.emit(next, observers)
	return true
}

// Close abandons the screen. Later deliveries are no-ops.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.gen++
	c.mu.Unlock()
}

// Closed reports whether Close was called.
func (c *Controller[T]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// transition applies next if current still holds. notify serializes the
// apply-then-emit pair so observers see transitions in apply order.
func (c *Controller[T]) transition(current func() bool, next State[T]) bool {
	c.notify.Lock()
	defer c.notify.Unlock()

	c.mu.Lock()
	if c.closed || !current() {
		c.mu.Unlock()
		return false
	}
	c.state = next
	observers := append([]Observer[T](nil), c.observers...)
	c.mu.Unlock()

	c.emit(next, observers)
	return true
}

func (c *Controller[T]) emit(s State[T], observers []Observer[T]) {
	metrics.RecordViewTransition(c.name, s.Phase.String())
	if s.Phase == Errored {
		c.log.Warn(context.Background(), "screen failed", logger.String("message", s.Message))
	} else {
		c.log.Debug(context.Background(), "screen transition", logger.String("state", s.Phase.String()))
	}
	for _, fn := range observers {
		fn(s)
	}
}
