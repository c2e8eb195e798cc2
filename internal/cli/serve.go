package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local comment server without the desktop window",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return NewLauncher(cfg).Run(ctx, cfg.Server.Listen)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "address to listen on (overrides server.listen)")
	serveCmd.Flags().String("backend-url", "", "Ollama-compatible backend URL (overrides backend.url)")
	serveCmd.Flags().String("model", "", "model name on the backend (overrides backend.model)")
	_ = v.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
	_ = v.BindPFlag("backend.url", serveCmd.Flags().Lookup("backend-url"))
	_ = v.BindPFlag("backend.model", serveCmd.Flags().Lookup("model"))
}
