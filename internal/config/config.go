// Package config loads sitewise settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alexanderramin/sitewise/internal/analytics"
	"github.com/alexanderramin/sitewise/internal/llm"
)

const (
	DefaultConfigFile = "sitewise.yaml"
	DefaultEnvFile    = ".env"
	DefaultServerAddr = ":8000"
	DefaultMediaBase  = "/uploads"
	EnvPrefix         = "SITEWISE_"
)

type Config struct {
	DBPath    string           `koanf:"db_path"`
	Analytics analytics.Config `koanf:"analytics"`
	LLM       llm.LLMConfig    `koanf:"llm"`
	Server    ServerConfig     `koanf:"server"`
	Log       LogConfig        `koanf:"log"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
	// MediaBase prefixes the URL of every registered media file.
	MediaBase string `koanf:"media_base"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// DefaultDBPath is ~/.sitewise/sitewise.db, or sitewise.db in the working
// directory when the home directory is unknown.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "sitewise.db"
	}
	return filepath.Join(home, ".sitewise", "sitewise.db")
}

func defaults() map[string]any {
	a := analytics.DefaultConfig()
	l := llm.DefaultConfig()
	return map[string]any{
		"db_path":                    DefaultDBPath(),
		"analytics.annual_inflation": a.AnnualInflation,
		"analytics.hourly_rate":      a.HourlyRate,
		"analytics.window_days":      a.WindowDays,
		"llm.enabled":                l.Enabled,
		"llm.log_calls":              l.LogCalls,
		"llm.provider":               string(l.Provider),
		"llm.endpoint":               "",
		"llm.model":                  "",
		"llm.api_key":                "",
		"llm.timeout_ms":             l.TimeoutMs,
		"llm.max_retries":            l.MaxRetries,
		"server.addr":                DefaultServerAddr,
		"server.media_base":          DefaultMediaBase,
		"log.level":                  "info",
		"log.format":                 "text",
	}
}

// Validate rejects settings no component can run with.
func (c *Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path must not be empty")
	}
	if err := c.Analytics.Validate(); err != nil {
		return fmt.Errorf("analytics: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must not be empty")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
