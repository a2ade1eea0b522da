package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/restfake/restfake/pkg/logging"
	"github.com/restfake/restfake/pkg/resource"
	"github.com/restfake/restfake/pkg/store"
)

// SeedFunc declares the dataset: a mapping from model name to an
// array-shaped value (collection) or object-shaped value (singleton).
// It is invoked once at construction and again for every Reset, so it must
// return a fresh value each time.
type SeedFunc func() map[string]any

// RoutesFunc declares the endpoint table. It receives the server so route
// declarations can reach the binder and the stores, and is invoked once at
// construction.
type RoutesFunc func(*Server) resource.Routes

// Config assembles a server. Seed is required; Routes may be nil for a
// server that only exposes lifecycle operations; Logger defaults to a
// no-op logger so test output stays clean.
type Config struct {
	Seed   SeedFunc
	Routes RoutesFunc
	Logger *slog.Logger
}

// Server owns the stores and the endpoint table for one fake backend.
// Construct one per test suite and Reset between tests.
type Server struct {
	db    *store.DB
	api   resource.Routes
	seed  SeedFunc
	log   *slog.Logger
	calls *callLog

	// baseMu guards the base-URL override installed by instance-scoped
	// client calls.
	baseMu  sync.Mutex
	baseURL string
}

// New builds a server: seeds the stores, then assembles the endpoint table.
// Invalid seed shapes are configuration errors reported here, never as
// response envelopes.
func New(cfg Config) (*Server, error) {
	if cfg.Seed == nil {
		return nil, errors.New("engine: Config.Seed is required")
	}

	db, err := store.NewDB(cfg.Seed())
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	log := cfg.Logger
	if log == nil {
		log = logging.Nop()
	}

	s := &Server{
		db:    db,
		api:   resource.Routes{},
		seed:  cfg.Seed,
		log:   log,
		calls: newCallLog(),
	}
	if cfg.Routes != nil {
		s.api = cfg.Routes(s)
	}

	s.log.Debug("server constructed", "models", db.Names(), "endpoints", len(s.api))
	return s, nil
}

// DB exposes the server's stores, mainly for custom handlers declared in a
// RoutesFunc.
func (s *Server) DB() *store.DB {
	return s.db
}

// Bind returns a binder over the server's stores for use in a RoutesFunc.
// The binder stays valid across Reset.
func (s *Server) Bind() *resource.Binder {
	return resource.NewBinder(s.db)
}

// Reset restores seeded state by building a throwaway fresh instance from
// the same seed. An empty model name replaces every store; a valid name
// replaces only that store; an unknown name is a configuration error,
// distinct from the request-time 404 family.
func (s *Server) Reset(model string) error {
	fresh, err := store.NewDB(s.seed())
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	if model == "" {
		s.db.ReplaceAll(fresh)
		s.log.Debug("reset all models")
		return nil
	}
	if err := s.db.Replace(model, fresh); err != nil {
		return fmt.Errorf("engine: reset: %w", err)
	}
	s.log.Debug("reset model", "model", model)
	return nil
}

// Dump returns a plain snapshot of every store's current formatted data,
// keyed by model name. Intended for test assertions and debugging, not
// persistence.
func (s *Server) Dump() map[string]any {
	return s.db.Dump()
}
