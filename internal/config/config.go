// Package config loads fitrooms configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	_ "time/tzdata" // zone database for minimal images

	"go.uber.org/zap/zapcore"
)

// Config holds the complete fitrooms configuration.
type Config struct {
	App      AppConfig      `koanf:"app"`
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Auth     AuthConfig     `koanf:"auth"`
	OIDC     OIDCConfig     `koanf:"oidc"`
}

// AppConfig holds domain level settings.
type AppConfig struct {
	// Timezone decides which calendar day "today" is.
	Timezone string `koanf:"timezone"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Addr            string        `koanf:"addr"`
	WebDir          string        `koanf:"web_dir"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	AllowedOrigins  []string      `koanf:"allowed_origins"`
	// JoinRate is the sustained invite joins per second allowed per client.
	JoinRate  float64 `koanf:"join_rate"`
	JoinBurst int     `koanf:"join_burst"`
}

// DatabaseConfig selects and configures the store.
type DatabaseConfig struct {
	// Driver is "postgres" or "memory".
	Driver string `koanf:"driver"`
	URL    string `koanf:"url"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// AuthConfig configures sessions and trusted callers.
type AuthConfig struct {
	SessionTTL time.Duration `koanf:"session_ttl"`
	// SessionKey signs session cookies. Empty generates a key per process.
	SessionKey    string `koanf:"session_key"`
	SecureCookies bool   `koanf:"secure_cookies"`
	// ForwardAuth trusts Remote-User headers from a reverse proxy.
	ForwardAuth bool   `koanf:"forward_auth"`
	CronSecret  string `koanf:"cron_secret"`
}

// OIDCConfig configures single sign-on.
type OIDCConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Issuer       string `koanf:"issuer"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	RedirectURL  string `koanf:"redirect_url"`
}

func applyDefaults(cfg *Config) {
	if cfg.App.Timezone == "" {
		cfg.App.Timezone = "Asia/Kolkata"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if cfg.HTTP.JoinRate == 0 {
		cfg.HTTP.JoinRate = 0.5
	}
	if cfg.HTTP.JoinBurst == 0 {
		cfg.HTTP.JoinBurst = 5
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Auth.SessionTTL == 0 {
		cfg.Auth.SessionTTL = 24 * time.Hour
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid app timezone %q: %w", c.App.Timezone, err)
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.URL == "" {
			return errors.New("database url is required for the postgres driver")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown database driver %q (must be postgres or memory)", c.Database.Driver)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format %q (must be json or console)", c.Log.Format)
	}

	if c.HTTP.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.HTTP.JoinRate < 0 || c.HTTP.JoinBurst < 1 {
		return errors.New("join rate must be non-negative and join burst at least 1")
	}

	if c.Auth.SessionTTL <= 0 {
		return errors.New("session ttl must be positive")
	}
	if c.Auth.SessionKey != "" && len(c.Auth.SessionKey) < 32 {
		return errors.New("session key must be at least 32 bytes")
	}

	if c.OIDC.Enabled {
		var missing []string
		if c.OIDC.Issuer == "" {
			missing = append(missing, "issuer")
		}
		if c.OIDC.ClientID == "" {
			missing = append(missing, "client_id")
		}
		if c.OIDC.RedirectURL == "" {
			missing = append(missing, "redirect_url")
		}
		if len(missing) > 0 {
			return fmt.Errorf("oidc enabled but missing %s", strings.Join(missing, ", "))
		}
	}
	return nil
}

// Location returns the application time zone. Call it on a validated Config.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
