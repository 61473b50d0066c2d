// Package app wires configuration, logging, the upstream client and the
// screens into the operations the CLI exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/octofit/internal/adapters/http/client"
	"github.com/okian/octofit/internal/config"
	"github.com/okian/octofit/internal/domain/edit"
	"github.com/okian/octofit/internal/domain/record"
	"github.com/okian/octofit/internal/domain/viewstate"
	"github.com/okian/octofit/internal/render"
	"github.com/okian/octofit/internal/screen"
	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// App runs screens against one upstream.
type App struct {
	cfg       *config.Config
	log       logger.Logger
	out       io.Writer
	client    screen.Client
	endpoints client.Endpoints

	mu sync.Mutex // serializes writes to out
}

// Option applies a configuration option to the App.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l logger.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithOutput sets where screens are rendered. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		if w != nil {
			a.out = w
		}
	}
}

// WithClient replaces the upstream client built from the configuration.
func WithClient(c screen.Client) Option {
	return func(a *App) {
		if c != nil {
			a.client = c
		}
	}
}

// New validates cfg and builds an App.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	const op = "app.New"
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	a := &App{
		cfg:       cfg,
		log:       logger.Nop(),
		out:       os.Stdout,
		endpoints: client.NewEndpoints(cfg.APIBaseURL()),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.client == nil {
		a.client = client.New(
			client.WithTimeout(cfg.RequestTimeout()),
			client.WithLogger(a.log),
		)
	}
	return a, nil
}

// Endpoints returns the upstream endpoints in use.
func (a *App) Endpoints() client.Endpoints { return a.endpoints }

func (a *App) screenOptions() []screen.Option {
	return []screen.Option{
		screen.WithLogger(a.log),
		screen.WithCloseDelay(a.cfg.SaveCloseDelay()),
	}
}

// Show mounts the screen for resource once, renders its final state and
// unmounts it. An errored screen is rendered and reported as ErrScreenFailed.
func (a *App) Show(ctx context.Context, resource client.Resource, filter string) error {
	const op = "app.Show"
	if resource == client.Users {
		u := screen.NewUsers(a.client, a.endpoints, a.screenOptions()...)
		defer u.Close()
		u.Mount(ctx)
		u.Wait()
		s := u.State()
		if err := a.write(func(w io.Writer) error { return render.WriteUsers(w, s, filter) }); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return stateErr(op, resource, s.Phase, s.Message)
	}

	c := screen.NewCollection(resource, a.endpoints, a.client, a.screenOptions()...)
	defer c.Close()
	c.Mount(ctx)
	c.Wait()
	s := c.State()
	if err := a.write(func(w io.Writer) error { return render.WriteCollection(w, resource, s, filter) }); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return stateErr(op, resource, s.Phase, s.Message)
}

func stateErr(op string, resource client.Resource, phase viewstate.Phase, msg string) error {
	if phase == viewstate.Errored {
		return fmt.Errorf("%s: %s: %w: %s", op, resource, ErrScreenFailed, msg)
	}
	return nil
}

// EditRequest lists the draft fields to change. Nil fields keep the value
// copied from the loaded user. Team accepts a team's choice value or its
// name; an empty Team clears the membership.
type EditRequest struct {
	Name     *string
	Username *string
	Email    *string
	Age      *string
	Team     *string
}

func (r EditRequest) apply(d *edit.Draft, teams []record.Team) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&d.Name, r.Name)
	set(&d.Username, r.Username)
	set(&d.Email, r.Email)
	set(&d.Age, r.Age)
	if r.Team == nil {
		return nil
	}
	choice, err := ResolveTeam(teams, *r.Team)
	if err != nil {
		return err
	}
	d.TeamID = choice
	return nil
}

// ResolveTeam maps a team choice value or team name to the value submitted
// as team_id. Blank input selects no team.
func ResolveTeam(teams []record.Team, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, ok := record.TeamByChoice(teams, value); ok {
		return t.Choice, nil
	}
	for _, t := range teams {
		if strings.EqualFold(t.Name, value) {
			return t.Choice, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTeam, value)
}

// EditUser opens the edit view for userID, applies req to the draft and
// saves it. The edit status and the refreshed users screen are rendered.
func (a *App) EditUser(ctx context.Context, userID string, req EditRequest) error {
	const op = "app.EditUser"
	u := screen.NewUsers(a.client, a.endpoints, a.screenOptions()...)
	defer u.Close()

	u.Mount(ctx)
	u.Wait()
	loaded := u.State()
	if !loaded.IsLoaded() {
		if err := a.write(func(w io.Writer) error { return render.WriteUsers(w, loaded, "") }); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return stateErr(op, client.Users, loaded.Phase, loaded.Message)
	}

	if _, err := u.OpenEdit(userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	var applyErr error
	if _, err := u.UpdateDraft(func(d *edit.Draft) { applyErr = req.apply(d, loaded.Data.Teams) }); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if applyErr != nil {
		return fmt.Errorf("%s: %w", op, applyErr)
	}

	saveErr := u.Save(ctx)
	status := u.Edit()
	teams := loaded.Data.Teams
	if s := u.State(); s.IsLoaded() {
		teams = s.Data.Teams
	}
	if err := a.write(func(w io.Writer) error { return render.WriteEdit(w, status, teams) }); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if saveErr != nil {
		return fmt.Errorf("%s: %w", op, saveErr)
	}
	a.log.Info(ctx, "user updated", logger.String("user_id", userID))
	s := u.State()
	return a.write(func(w io.Writer) error { return render.WriteUsers(w, s, "") })
}

// Watch re-mounts the screen for resource every interval and renders each
// settled state until ctx is done.
func (a *App) Watch(ctx context.Context, resource client.Resource, interval time.Duration, filter string) error {
	if interval <= 0 {
		interval = a.cfg.RefreshInterval()
	}
	if a.cfg.MetricsAddr != "" {
		stop := a.ServeMetrics(ctx, a.cfg.MetricsAddr)
		defer stop()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := a.Show(ctx, resource, filter)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil && !errors.Is(err, ErrScreenFailed):
			return err
		case err != nil:
			a.log.Warn(ctx, "refresh failed", logger.String("screen", string(resource)), logger.Error(err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ServeMetrics exposes the metrics registry on addr until the returned stop
// function is called or ctx is done.
func (a *App) ServeMetrics(ctx context.Context, addr string) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	go func() {
		a.log.Info(ctx, "serving metrics", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error(ctx, "metrics server failed", logger.Error(err))
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.log.Warn(ctx, "metrics server shutdown failed", logger.Error(err))
			}
		})
	}
}

func (a *App) write(fn func(io.Writer) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.out)
}
