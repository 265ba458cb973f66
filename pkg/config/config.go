package config

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration. Precedence is flags > env >
// file > defaults; the env and file merge happens in Load, flags are
// applied by main.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
	Security  SecurityConfig  `yaml:"security"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Export    ExportConfig    `yaml:"export"`
}

// ServerConfig holds the listen address.
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// StorageConfig holds the journal location. An empty path runs the
// server memory-only.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// SecurityConfig holds API keys and rate limiting for the HTTP surface.
// Empty api_keys disables authentication.
type SecurityConfig struct {
	APIKeys   []string `yaml:"api_keys"`
	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// AnalyticsConfig tunes the sentiment lexicon and topic windows. The
// word lists extend the built-in lexicon; they never replace it.
type AnalyticsConfig struct {
	WindowSize  int      `yaml:"window_size"`
	TopKeywords int      `yaml:"top_keywords"`
	MinTokenLen int      `yaml:"min_token_len"`
	Positive    []string `yaml:"positive"`
	Negative    []string `yaml:"negative"`
	StopWords   []string `yaml:"stop_words"`
}

// ExportConfig drives the scheduled snapshot export runner.
type ExportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Cron    string `yaml:"cron"`
	Dir     string `yaml:"dir"`
}

// Default returns the baseline configuration.
func Default() Config {
	var c Config
	c.Server.Address = "127.0.0.1"
	c.Server.Port = 8080
	c.Logging.Level = "info"
	c.Analytics.WindowSize = 10
	c.Analytics.TopKeywords = 5
	c.Analytics.MinTokenLen = 3
	c.Export.Cron = "0 * * * *"
	c.Export.Dir = "exports"
	return c
}

// Load reads the yaml file at path (skipped when path is empty or the
// file does not exist), applies env overrides, and validates the
// result. Configuration errors are reported here, once, not per call.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return c, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CONVOLOG_SERVER_ADDRESS"); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv("CONVOLOG_SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("CONVOLOG_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("CONVOLOG_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("CONVOLOG_EXPORT_DIR"); v != "" {
		c.Export.Dir = v
	}
	if v := os.Getenv("CONVOLOG_ANALYTICS_WINDOW_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analytics.WindowSize = n
		}
	}
}

// Validate checks the analytics and export settings. Malformed window
// configuration is a startup failure, never a per-request one.
func (c Config) Validate() error {
	if c.Analytics.WindowSize <= 0 {
		return fmt.Errorf("analytics.window_size must be positive, got %d", c.Analytics.WindowSize)
	}
	if c.Analytics.TopKeywords <= 0 {
		return fmt.Errorf("analytics.top_keywords must be positive, got %d", c.Analytics.TopKeywords)
	}
	if c.Analytics.MinTokenLen <= 0 {
		return fmt.Errorf("analytics.min_token_len must be positive, got %d", c.Analytics.MinTokenLen)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Export.Enabled && c.Export.Dir == "" {
		return fmt.Errorf("export.dir required when export is enabled")
	}
	return nil
}

// Addr returns the host:port the server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}
