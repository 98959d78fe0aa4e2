// Package server exposes the pipeline and graph store over HTTP.
//
// The API is JSON-first: graphs are stored and retrieved as documents,
// pipeline runs return sampled grids, and render endpoints stream DOT, SVG,
// or PNG bytes. Errors carry the machine-readable codes from pkg/errors so
// clients can branch on them.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/noisegraph/noisegraph/pkg/pipeline"
	"github.com/noisegraph/noisegraph/pkg/store"
)

// Config carries the server's collaborators and listen address.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Store persists named graphs. Required.
	Store store.Store

	// Runner executes pipeline requests. Required.
	Runner *pipeline.Runner

	// Logger receives request and lifecycle logs. Defaults to log.Default().
	Logger *log.Logger

	// MaxBodyBytes caps request body size. Defaults to 4 MiB.
	MaxBodyBytes int64
}

// Server is the HTTP front end.
type Server struct {
	cfg  Config
	http *http.Server
}

// New creates a server from the config.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("server: store is required")
	}
	if cfg.Runner == nil {
		return nil, fmt.Errorf("server: runner is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 4 << 20
	}

	s := &Server{cfg: cfg}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Router builds the route table. Exposed for tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1/graphs", func(r chi.Router) {
		r.Get("/", s.handleListGraphs)
		r.Post("/", s.handleSaveGraph)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Put("/", s.handleUpdateGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Post("/build", s.handleBuild)
			r.Post("/sample", s.handleSample)
			r.Get("/render", s.handleRender)
			r.Get("/eval", s.handleEval)
			r.Get("/preview.png", s.handlePreview)
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}
