package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. CODESAGE_SERVER_LISTEN
const EnvPrefix = "CODESAGE"

// ConfigName is the base name searched for when no file is given
const ConfigName = "codesage"

// Config is the process configuration shared by the server, the CLI and
// the desktop launcher
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Client  ClientConfig  `mapstructure:"client"`
	Logging LoggingConfig `mapstructure:"logging"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

// BackendConfig points at the Ollama-compatible model backend
type BackendConfig struct {
	URL     string        `mapstructure:"url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ClientConfig struct {
	ServerURL    string        `mapstructure:"server_url"`
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SetDefaults registers every key with its default value. Keys must be
// known to viper for env overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.listen", "127.0.0.1:5000")
	v.SetDefault("backend.url", "http://127.0.0.1:11434")
	v.SetDefault("backend.model", "codet5-commenter")
	v.SetDefault("backend.timeout", "60s")
	v.SetDefault("client.server_url", "http://127.0.0.1:5000")
	v.SetDefault("client.ready_timeout", "30s")
	v.SetDefault("client.poll_interval", "1s")
	v.SetDefault("logging.level", "INFO")
	v.SetDefault("logging.file", "")
}

// DefaultConfigDir returns the per-user config directory
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "codesage")
}

// Load reads configuration from cfgFile, or from codesage.yaml in the user
// config dir or the working directory when cfgFile is empty. A missing
// default file is not an error; a missing explicit file is.
func Load(cfgFile string) (*Config, error) {
	return LoadWith(viper.New(), cfgFile)
}

// LoadWith is Load on a caller-provided viper instance, so flags bound by
// the CLI take part in resolution.
func LoadWith(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(expandTilde(cfgFile))
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
		v.SetConfigName(ConfigName)
	}
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	cfg.Logging.File = expandTilde(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make the process misbehave
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return errors.New("server.listen must not be empty")
	}
	if c.Backend.URL == "" {
		return errors.New("backend.url must not be empty")
	}
	if c.Backend.Model == "" {
		return errors.New("backend.model must not be empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %s", c.Backend.Timeout)
	}
	if c.Client.ReadyTimeout <= 0 {
		return fmt.Errorf("client.ready_timeout must be positive, got %s", c.Client.ReadyTimeout)
	}
	if c.Client.PollInterval <= 0 {
		return fmt.Errorf("client.poll_interval must be positive, got %s", c.Client.PollInterval)
	}
	return nil
}

func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
