// Package server exposes the registry search and account upsert workflow
// over HTTP for the CRM-side UI.
package server

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sells-group/pappers-sync/internal/crm"
	"github.com/sells-group/pappers-sync/internal/debounce"
	"github.com/sells-group/pappers-sync/internal/resolve"
	"github.com/sells-group/pappers-sync/internal/store"
	"github.com/sells-group/pappers-sync/internal/workflow"
	"github.com/sells-group/pappers-sync/pkg/pappers"
)

// DefaultDebounceDelay is the trailing-edge delay applied to suggestion
// queries per client session.
const DefaultDebounceDelay = 300 * time.Millisecond

// Config wires a Server.
type Config struct {
	Registry       pappers.Client
	Accounts       crm.AccountDataStore
	Resolver       *resolve.Resolver
	Runs           store.RunStore
	RetentionYears int
	DebounceDelay  time.Duration
	AllowedOrigins []string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Server handles the HTTP API.
type Server struct {
	cfg       Config
	debouncer *debounce.Debouncer
}

// New creates a Server from the given wiring.
func New(cfg Config) *Server {
	delay := cfg.DebounceDelay
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Server{
		cfg:       cfg,
		debouncer: debounce.New(delay),
	}
}

// orchestrator builds a per-request orchestrator whose notifications are
// collected into the response body.
func (s *Server) orchestrator(rec *notifyRecorder) *workflow.Orchestrator {
	return workflow.New(workflow.Config{
		Registry:       s.cfg.Registry,
		Accounts:       s.cfg.Accounts,
		Resolver:       s.cfg.Resolver,
		Runs:           s.cfg.Runs,
		Notifier:       rec,
		Navigator:      rec,
		RetentionYears: s.cfg.RetentionYears,
		Now:            s.cfg.Now,
	})
}

// Routes mounts the API on a chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Session-ID"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/suggest", s.handleSuggest)
		r.Get("/company/{siret}", s.handleCompany)
		r.Get("/company/{siret}/establishments", s.handleEstablishments)
		r.Post("/accounts", s.handleCreateAccount)
		r.Post("/accounts/{id}/financials", s.handleUpdateFinancials)
		r.Get("/runs", s.handleListRuns)
	})

	return r
}
