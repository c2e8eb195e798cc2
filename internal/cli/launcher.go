package cli

import (
	"context"
	"net"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ytget/codesage/internal/commenter"
	"github.com/ytget/codesage/internal/config"
	"github.com/ytget/codesage/internal/inference"
	"github.com/ytget/codesage/internal/logger"
	"github.com/ytget/codesage/internal/server"
)

// Launcher runs the model loader and the HTTP server side by side
type Launcher struct {
	srv   *server.Server
	model server.Model
}

// NewLauncher creates a launcher whose model is the configured backend
func NewLauncher(cfg *config.Config) *Launcher {
	client := inference.NewClient(&inference.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Model:   cfg.Backend.Model,
		Timeout: cfg.Backend.Timeout,
	})
	logger.Info("Backend %s, model %s", cfg.Backend.URL, client.Model())
	return NewLauncherWithModel(client)
}

// NewLauncherWithModel creates a launcher for an arbitrary model
func NewLauncherWithModel(m server.Model) *Launcher {
	return &Launcher{srv: server.New(), model: m}
}

// Server returns the launched server
func (l *Launcher) Server() *server.Server {
	return l.srv
}

// Run listens on addr until ctx is cancelled
func (l *Launcher) Run(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return l.RunListener(ctx, ln)
}

// RunListener loads the model while serving on ln. A failed load is logged
// and leaves the server answering 503; only a server failure ends the run
// early.
func (l *Launcher) RunListener(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := l.srv.LoadModel(gctx, l.model); err != nil {
			logger.Warn("Server will keep reporting loading: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		return l.srv.ServeListener(gctx, ln)
	})

	return g.Wait()
}

// WaitHealthy polls serverURL until it reports ready or timeout elapses
func WaitHealthy(ctx context.Context, serverURL string, timeout, interval time.Duration) error {
	client := commenter.NewClient(serverURL)
	logger.Info("Waiting up to %s for %s to become ready", timeout, client.BaseURL())
	if err := client.WaitReady(ctx, timeout, interval); err != nil {
		return err
	}
	logger.Info("Server is ready")
	return nil
}
