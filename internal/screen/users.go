package screen

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/octofit/internal/adapters/http/client"
	"github.com/okian/octofit/internal/domain/edit"
	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/internal/domain/relation"
	"github.com/okian/octofit/internal/domain/viewstate"
	"github.com/okian/octofit/pkg/logger"
)

// UsersView is the loaded payload of the users screen. Teams are kept for
// the team column and the team choices of the edit view.
type UsersView struct {
	Users record.Collection
	Teams []record.Team
}

// NewUsersView builds the team views for users and teams.
func NewUsersView(users, teams record.Collection) UsersView {
	return UsersView{Users: users, Teams: record.Teams(teams)}
}

// TeamOf returns the first team that lists user as a member.
func (v UsersView) TeamOf(user record.Record) (record.Team, bool) {
	return relation.FindTeam(user, v.Teams)
}

// EditStatus is the observable state of the edit view.
type EditStatus struct {
	Open    bool
	Draft   edit.Draft
	Saving  bool
	Success bool
	Err     string
}

type draftSlot struct {
	gen        uint64
	draft      edit.Draft
	original   record.Record
	openedTeam string
}

// Users is the users screen. Users and teams load in parallel and the
// screen hosts the single-user edit transaction.
type Users struct {
	client     Client
	endpoints  client.Endpoints
	log        logger.Logger
	closeDelay time.Duration
	state      *viewstate.Controller[UsersView]

	mu         sync.Mutex
	slot       *draftSlot
	gen        uint64
	saving     bool
	status     EditStatus
	closeTimer *time.Timer
	observers  []func(EditStatus)

	lifetime context.Context
	stop     context.CancelFunc
	wg       sync.WaitGroup
}

// NewUsers creates the users screen.
func NewUsers(c Client, endpoints client.Endpoints, opts ...Option) *Users {
	o := newOptions(opts)
	lifetime, stop := context.WithCancel(context.Background())
	return &Users{
		client:     c,
		endpoints:  endpoints,
		log:        o.log.Named("screen").With(logger.String("screen", string(client.Users))),
		closeDelay: o.closeDelay,
		state:      viewstate.NewController[UsersView](string(client.Users), viewstate.WithLogger(o.log)),
		lifetime:   lifetime,
		stop:       stop,
	}
}

// Mount enters Loading and fetches users and teams concurrently. The
// screen leaves Loading once both arrived or as soon as one failed.
func (u *Users) Mount(ctx context.Context) {
	if u.lifetime.Err() != nil {
		return
	}
	ticket := u.state.Begin()
	ctx, cancel := joinContext(ctx, u.lifetime)

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		defer cancel()
		view, err := u.fetchAll(ctx)
		if err != nil {
			u.state.Fail(ticket, message(err))
			return
		}
		u.state.Resolve(ticket, view)
	}()
}

func (u *Users) fetchAll(ctx context.Context) (UsersView, error) {
	var users, teams record.Collection
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = u.client.Fetch(gctx, u.endpoints.Collection(client.Users))
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = u.client.Fetch(gctx, u.endpoints.Collection(client.Teams))
		return err
	})
	if err := g.Wait(); err != nil {
		return UsersView{}, err
	}
	return NewUsersView(users, teams), nil
}

// Wait blocks until every started fetch and save has finished.
func (u *Users) Wait() { u.wg.Wait() }

// State returns the current view state.
func (u *Users) State() viewstate.State[UsersView] { return u.state.State() }

// Observe registers fn for every later view transition.
func (u *Users) Observe(fn viewstate.Observer[UsersView]) { u.state.Observe(fn) }

// ObserveEdit registers fn for every later change of the edit view.
func (u *Users) ObserveEdit(fn func(EditStatus)) {
	if fn == nil {
		return
	}
	u.mu.Lock()
	u.observers = append(u.observers, fn)
	u.mu.Unlock()
}

// Edit returns the current edit view.
func (u *Users) Edit() EditStatus {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// Close unmounts the screen: fetches and saves in flight are cancelled,
// their results dropped, and a pending draft close never fires.
func (u *Users) Close() {
	u.mu.Lock()
	u.stop()
	u.state.Close()
	if u.closeTimer != nil {
		u.closeTimer.Stop()
		u.closeTimer = nil
	}
	u.mu.Unlock()
	u.log.Debug(context.Background(), "screen closed")
}

// notify must be called without u.mu held. Closed screens stay silent.
func (u *Users) notify() {
	u.mu.Lock()
	if u.lifetime.Err() != nil {
		u.mu.Unlock()
		return
	}
	status := u.status
	observers := append([]func(EditStatus){}, u.observers...)
	u.mu.Unlock()
	for _, fn := range observers {
		fn(status)
	}
}
