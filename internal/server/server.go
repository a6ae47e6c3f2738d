// Package server exposes plan rendering, generation and history over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/josephgoksu/PlanWise/internal/history"
	"github.com/josephgoksu/PlanWise/internal/planner"
	"github.com/josephgoksu/PlanWise/internal/plantext"
)

// Planner is the planning service the API drives.
type Planner interface {
	Vocabulary() *plantext.Vocabulary
	Generate(ctx context.Context, req planner.Request) (*planner.Plan, error)
	OptimizeStored(ctx context.Context, ref, instructions string) (*planner.Plan, error)
	SummarizeStored(ctx context.Context, ref string) (string, error)
}

// History is the read side of plan history.
type History interface {
	Get(ref string) (*history.Record, error)
	List(limit int) ([]*history.Record, error)
	Delete(id string) error
}

// Config configures a Server.
type Config struct {
	Port    int
	Planner Planner
	History History
	// Origins allowed for cross-origin browser requests.
	Origins []string
}

// Server is the PlanWise HTTP API.
type Server struct {
	planner Planner
	history History
	origins map[string]struct{}
	log     *slog.Logger
	server  *http.Server
}

// New creates a server. Planner and History are required.
func New(cfg Config) (*Server, error) {
	if cfg.Planner == nil || cfg.History == nil {
		return nil, errors.New("server needs a planner and plan history")
	}
	s := &Server{
		planner: cfg.Planner,
		history: cfg.History,
		origins: make(map[string]struct{}, len(cfg.Origins)),
		log:     slog.Default().With("component", "server"),
	}
	for _, o := range cfg.Origins {
		s.origins[o] = struct{}{}
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.registerRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.server.Handler }

// Addr returns the listen address.
func (s *Server) Addr() string { return s.server.Addr }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("API server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
