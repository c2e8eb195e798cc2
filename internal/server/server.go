package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ytget/codesage/internal/inference"
	"github.com/ytget/codesage/internal/logger"
	"github.com/ytget/codesage/internal/model"
)

const (
	// DefaultListenAddr matches the address the desktop client polls
	DefaultListenAddr = "127.0.0.1:5000"

	// MaxRequestBodySize caps the generate request body (1MB)
	MaxRequestBodySize = 1 * 1024 * 1024

	// ShutdownTimeout bounds graceful shutdown
	ShutdownTimeout = 5 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Model is a generator that must be loaded before it can serve
type Model interface {
	inference.Generator
	Load(ctx context.Context) error
}

type loadedModel struct {
	gen inference.Generator
}

// Server serves the status and generate endpoints
type Server struct {
	model  atomic.Pointer[loadedModel]
	router chi.Router
}

// New creates a server in the loading state
func New() *Server {
	s := &Server{}
	s.router = s.routes()
	return s
}

// LoadModel loads m and, on success, makes it available to handlers. On
// failure the server stays in the loading state and keeps answering 503.
func (s *Server) LoadModel(ctx context.Context, m Model) error {
	logger.Info("Loading model...")
	if err := m.Load(ctx); err != nil {
		logger.Error("Error loading model: %v", err)
		return fmt.Errorf("failed to load model: %w", err)
	}
	s.model.Store(&loadedModel{gen: m})
	logger.Info("Model loaded successfully")
	return nil
}

// State reports whether a model is attached
func (s *Server) State() model.ServerState {
	if s.generator() != nil {
		return model.ServerStateReady
	}
	return model.ServerStateLoading
}

func (s *Server) generator() inference.Generator {
	if m := s.model.Load(); m != nil {
		return m.gen
	}
	return nil
}

// Handler returns the HTTP handler for the server
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/status", s.handleStatus)
	r.Post("/generate-comment", s.handleGenerateComment)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		logger.Warn("Unhandled route: %s %s", r.Method, r.URL.Path)
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          log.New(logger.Writer(logger.LevelError), "", 0),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening on http://%s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		logger.Info("Server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
