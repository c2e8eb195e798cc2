package cli

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/ytget/codesage/internal/commenter"
	"github.com/ytget/codesage/internal/config"
	"github.com/ytget/codesage/internal/logger"
	"github.com/ytget/codesage/internal/ui"
)

const (
	AppID   = "com.ytget.codesage"
	AppName = "CodeSage"
)

// runDesktop starts the embedded server, waits for it to become ready, and
// then runs the window until it is closed
func runDesktop(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("%s v%s starting...", AppName, version)

	serverDone := make(chan error, 1)
	if v.GetBool("desktop.no_server") {
		close(serverDone)
	} else {
		launcher := NewLauncher(cfg)
		// an early server exit (e.g. address in use) ends the wait
		waitCtx, stopWaiting := context.WithCancel(ctx)
		defer stopWaiting()
		go func() {
			serverDone <- launcher.Run(ctx, cfg.Server.Listen)
			stopWaiting()
		}()

		if err := WaitHealthy(waitCtx, cfg.Client.ServerURL, cfg.Client.ReadyTimeout, cfg.Client.PollInterval); err != nil {
			cancel()
			if serveErr := <-serverDone; serveErr != nil {
				err = errors.Join(err, serveErr)
			}
			logger.Error("Server failed to start: %v", err)
			return fmt.Errorf("server failed to start: %w", err)
		}
	}

	a := app.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewCompactTheme())

	settings := config.NewSettings(a)
	settings.SeedServerURL(cfg.Client.ServerURL)

	w := a.NewWindow(fmt.Sprintf("%s v%s", AppName, version))
	w.Resize(fyne.NewSize(ui.WindowWidth, ui.WindowHeight))

	svc := commenter.NewService(cfg.Client.ServerURL, cfg.Client.ReadyTimeout)
	svc.SetPollInterval(cfg.Client.PollInterval)
	ui.NewRootUI(w, a, svc)

	w.ShowAndRun()

	svc.CancelActive()
	cancel()
	if err := <-serverDone; err != nil {
		return err
	}
	logger.Info("%s stopped", AppName)
	return nil
}
