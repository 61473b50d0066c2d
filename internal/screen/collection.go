package screen

import (
	"context"
	"sync"

	"github.com/okian/octofit/internal/adapters/http/client"
	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/internal/domain/viewstate"
	"github.com/okian/octofit/pkg/logger"
)

// Collection is a read-only screen over one resource: teams, activities,
// workouts or the leaderboard.
type Collection struct {
	resource client.Resource
	endpoint string
	fetcher  Fetcher
	log      logger.Logger
	state    *viewstate.Controller[record.Collection]

	lifetime context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
}

// NewCollection creates the screen for resource. Nothing is fetched until
// Mount.
func NewCollection(resource client.Resource, endpoints client.Endpoints, f Fetcher, opts ...Option) *Collection {
	o := newOptions(opts)
	lifetime, stop := context.WithCancel(context.Background())
	return &Collection{
		resource: resource,
		endpoint: endpoints.Collection(resource),
		fetcher:  f,
		log:      o.log.Named("screen").With(logger.String("screen", string(resource))),
		state:    viewstate.NewController[record.Collection](string(resource), viewstate.WithLogger(o.log)),
		lifetime: lifetime,
		stop:     stop,
	}
}

// Resource returns the resource the screen shows.
func (c *Collection) Resource() client.Resource { return c.resource }

// Mount enters Loading and starts the fetch. It returns immediately.
func (c *Collection) Mount(ctx context.Context) {
	if c.lifetime.Err() != nil {
		return
	}
	ticket := c.state.Begin()
	ctx, cancel := joinContext(ctx, c.lifetime)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer cancel()
		items, err := c.fetcher.Fetch(ctx, c.endpoint)
		if err != nil {
			c.state.Fail(ticket, message(err))
			return
		}
		c.state.Resolve(ticket, items)
	}()
}

// Wait blocks until every started fetch has delivered or been dropped.
func (c *Collection) Wait() { c.wg.Wait() }

// State returns the current view state.
func (c *Collection) State() viewstate.State[record.Collection] { return c.state.State() }

// Observe registers fn for every later transition.
func (c *Collection) Observe(fn viewstate.Observer[record.Collection]) { c.state.Observe(fn) }

// Close unmounts the screen. In-flight fetches are cancelled and their
// results dropped.
func (c *Collection) Close() {
	c.stop()
	c.state.Close()
	c.log.Debug(context.Background(), "screen closed")
}

// joinContext returns a context cancelled when either parent is.
func joinContext(ctx, lifetime context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(lifetime, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
