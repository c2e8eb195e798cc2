package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ytget/codesage/internal/config"
	"github.com/ytget/codesage/internal/logger"
)

var (
	cfgFile      string
	logLevelFlag string
	logFileFlag  string

	// v collects config file, env and bound flags for every command
	v = viper.New()

	// cfg is loaded in PersistentPreRunE before any command runs
	cfg *config.Config

	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "codesage",
	Short: "Generate comments for functions and classes with a local model",
	Long: `CodeSage splits Python or Go source into top-level functions and classes
and asks a local inference server to write a comment for each one.

Run without a subcommand to start the embedded server and open the desktop
window. Use "serve" to run only the server and "comment" to comment a file
from the terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadWith(v, cfgFile)
		if err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		cfg = loaded

		if err := logger.Init(cfg.Logging.File, cfg.Logging.Level); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if cfg.File != "" {
			logger.Debug("Using config file: %s", cfg.File)
		} else {
			logger.Debug("No config file found. Using defaults/environment variables.")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDesktop(cmd.Context(), cfg)
	},
}

// Execute runs the root command and exits with status 1 on failure
func Execute(buildVersion string) {
	if buildVersion != "" {
		version = buildVersion
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/codesage/codesage.yaml or ./codesage.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR (overrides config/default)")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "also write logs to this file (overrides config/default)")
	_ = v.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("logging.file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.Flags().Bool("no-server", false, "do not start the embedded server; connect to client.server_url instead")
	_ = v.BindPFlag("desktop.no_server", rootCmd.Flags().Lookup("no-server"))

	rootCmd.AddCommand(serveCmd, commentCmd, versionCmd)
}
