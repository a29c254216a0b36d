package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "config/config.toml"

type ServerConfig struct {
	Addr            string `toml:"addr" validate:"required"`
	Env             string `toml:"env" validate:"required"`
	Version         string `toml:"version"`
	ShutdownTimeout string `toml:"shutdown_timeout" validate:"required"`
}

// AuthAPIConfig addresses the remote authentication service. BaseURL
// includes any version prefix, e.g. "http://localhost:8081/v1".
type AuthAPIConfig struct {
	BaseURL string `toml:"base_url" validate:"required,url"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

type Config struct {
	Server  ServerConfig  `toml:"server"`
	AuthAPI AuthAPIConfig `toml:"auth_api"`
	Log     LogConfig     `toml:"log"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			Env:             "dev",
			Version:         "0.0.1",
			ShutdownTimeout: "10s",
		},
		AuthAPI: AuthAPIConfig{
			BaseURL: "http://localhost:8081/v1",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is
// only an error when required is true.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: failed to parse TOML '%s': %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("config: failed to read config file '%s': %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := getenv("ENV"); v != "" {
		c.Server.Env = v
	}
	if v := getenv("VERSION"); v != "" {
		c.Server.Version = v
	}
	if v := getenv("AUTH_API_URL"); v != "" {
		c.AuthAPI.BaseURL = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("config: invalid server.shutdown_timeout: %w", err)
	}
	return nil
}

// ShutdownTimeout bounds the graceful drain. Validate has already
// checked the value parses.
func (c *Config) ShutdownTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ShutdownTimeout)
	return d
}

// IsDev reports whether the service runs in the development environment.
func (c *Config) IsDev() bool {
	return c.Server.Env == "dev"
}

// FromEnv resolves the config path from CONFIG_PATH, loads it, applies
// environment overrides and validates the result.
func FromEnv() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	required := path != ""
	if path == "" {
		path = DefaultPath
	}

	cfg, err := Load(path, required)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
