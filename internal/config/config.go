// Package config loads lessonroom settings from a YAML file overlaid by
// LESSONROOM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/lessonroom/internal/llm"
	"github.com/abhisek/lessonroom/internal/resume"
)

// Store drivers.
const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Resume backends.
const (
	ResumeStore  = "store"
	ResumeRedis  = "redis"
	ResumeMemory = "memory"
)

// Config is the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Store  StoreConfig  `yaml:"store"`
	Resume ResumeConfig `yaml:"resume"`
	Auth   AuthConfig   `yaml:"auth"`
	Log    LogConfig    `yaml:"log"`
	LLM    llm.Config   `yaml:"llm"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// StoreConfig selects where plans are persisted.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

// ResumeConfig selects where per-client resume keys live.
type ResumeConfig struct {
	Backend string             `yaml:"backend"`
	Redis   resume.RedisConfig `yaml:"redis"`
}

// AuthConfig configures bearer-token verification.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	DevUser   string `yaml:"dev_user"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Mode string `yaml:"mode"`
	File string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:5173"},
			RequestTimeout: 60 * time.Second,
		},
		Store:  StoreConfig{Driver: StoreSQLite},
		Resume: ResumeConfig{Backend: ResumeStore},
		Log:    LogConfig{Mode: "dev"},
		LLM:    llm.DefaultConfig(),
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/lessonroom/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lessonroom", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "lessonroom", "config.yaml"), nil
}

// Load reads path (or the default path when empty) over the defaults and
// applies environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		if discovered, ok := llm.DiscoverConfig(); ok {
			cfg.LLM = discovered
		}
	default:
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides c with any LESSONROOM_* variables that are set.
func (c *Config) ApplyEnv() {
	set := func(dst *string, name string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	set(&c.Server.Addr, "LESSONROOM_ADDR")
	if v := os.Getenv("LESSONROOM_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	set(&c.Store.Driver, "LESSONROOM_STORE_DRIVER")
	set(&c.Store.Path, "LESSONROOM_DB")
	set(&c.Store.DSN, "LESSONROOM_POSTGRES_DSN")

	set(&c.Resume.Backend, "LESSONROOM_RESUME_BACKEND")
	set(&c.Resume.Redis.Addr, "LESSONROOM_REDIS_ADDR")

	set(&c.Auth.JWTSecret, "LESSONROOM_JWT_SECRET")
	set(&c.Auth.DevUser, "LESSONROOM_DEV_USER")

	set(&c.Log.Mode, "LESSONROOM_LOG_MODE")
	set(&c.Log.File, "LESSONROOM_LOG_FILE")

	c.LLM.ApplyEnv()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks settings shared by every command.
func (c Config) Validate() error {
	if err := c.ValidateStorage(); err != nil {
		return err
	}
	return c.LLM.Validate()
}

// ValidateStorage checks the store and resume settings only. The wizard
// uses it so that it can start without an LLM provider.
func (c Config) ValidateStorage() error {
	switch c.Store.Driver {
	case StoreSQLite, StoreMemory:
	case StorePostgres:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store driver: %q", c.Store.Driver)
	}

	switch c.Resume.Backend {
	case ResumeMemory:
	case ResumeStore:
		if c.Store.Driver != StoreSQLite {
			return fmt.Errorf("resume backend %q needs the sqlite store driver", ResumeStore)
		}
	case ResumeRedis:
		if c.Resume.Redis.Addr == "" {
			return fmt.Errorf("resume.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown resume backend: %q", c.Resume.Backend)
	}
	return nil
}

// ValidateServer additionally checks what `serve` needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Auth.JWTSecret == "" && c.Auth.DevUser == "" {
		return fmt.Errorf("auth.jwt_secret (LESSONROOM_JWT_SECRET) or auth.dev_user is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
