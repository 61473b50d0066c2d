// Package sandbox serves a local stand-in for the upstream REST API over the
// in-memory store. It reproduces the upstream's wire shapes, including the
// loose ones: optional pagination envelopes, embedded or bare member
// references and extended JSON dates.
package sandbox

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/okian/octofit/internal/adapters/http/swagger"
	"github.com/okian/octofit/internal/adapters/repository"
	"github.com/okian/octofit/pkg/logger"
	"github.com/okian/octofit/pkg/metrics"
)

// Server wires the sandbox routes.
type Server struct {
	store        *repository.Store
	log          logger.Logger
	envelope     bool
	embedMembers bool
	latency      time.Duration
}

// New creates a sandbox server over store.
func New(store *repository.Store, opts ...Option) *Server {
	s := &Server{
		store:        store,
		log:          logger.Nop(),
		embedMembers: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("sandbox")
	return s
}

// Handler returns the router with every route attached.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}).Handler)
	r.Use(s.logRequests)
	r.Use(MetricsMiddleware)
	if s.latency > 0 {
		r.Use(delay(s.latency))
	}

	r.Get("/", s.handleRoot)
	r.Route("/api", func(r chi.Router) {
		r.Get("/", s.handleRoot)
		r.Get("/users/", s.handleListUsers)
		r.Get("/users/{id}/", s.handleGetUser)
		r.Patch("/users/{id}/", s.handlePatchUser)
		r.Get("/teams/", s.handleListTeams)
		r.Get("/activities/", s.handleListActivities)
		r.Get("/leaderboard/", s.handleListLeaderboard)
		r.Get("/workouts/", s.handleListWorkouts)
	})
	r.Handle("/healthz", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	swagger.Register(r)

	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug(r.Context(), "request served",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("request_id", r.Header.Get("X-Request-ID")),
			logger.Int("status", ww.Status()),
			logger.Duration("elapsed", time.Since(start)),
		)
	})
}

func delay(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(d):
			case <-r.Context().Done():
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
