// Package config provides configuration loading for mealbook.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Storage StorageConfig `koanf:"storage"`
	AI      AIConfig      `koanf:"ai"`
	Access  AccessConfig  `koanf:"access"`
	Log     LogConfig     `koanf:"log"`
	App     AppConfig     `koanf:"app"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port       int    `koanf:"port"`
	StaticPath string `koanf:"static_path"`
}

// StorageConfig configures the SQLite document store.
type StorageConfig struct {
	DBPath string `koanf:"db_path"`
}

// AIConfig configures the OpenAI-compatible completion endpoint.
// An empty APIKey disables image analysis and the recipe assistant.
type AIConfig struct {
	BaseURL       string        `koanf:"base_url"`
	APIKey        string        `koanf:"api_key"`
	Model         string        `koanf:"model"`
	Timeout       time.Duration `koanf:"timeout"`
	MaxImageBytes int64         `koanf:"max_image_bytes"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
}

// Enabled reports whether an API key is configured.
func (c AIConfig) Enabled() bool {
	return c.APIKey != ""
}

// AccessConfig configures the shared-password gate.
// Passwords may be plaintext or bcrypt hashes.
type AccessConfig struct {
	UserPassword  string        `koanf:"user_password"`
	AdminPassword string        `koanf:"admin_password"`
	TokenSecret   string        `koanf:"token_secret"`
	TokenTTL      time.Duration `koanf:"token_ttl"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// AppConfig holds application behaviour settings.
type AppConfig struct {
	// TimeZone is used for day boundaries and generated meal names.
	TimeZone string `koanf:"time_zone"`
}

// Location resolves TimeZone. Validate has already checked it.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

const (
	DefaultPort          = 8080
	DefaultDBPath        = "./data/mealbook.db"
	DefaultStaticPath    = "../frontend/static"
	DefaultAIBaseURL     = "https://api.openai.com/v1"
	DefaultAIModel       = "gpt-4o-mini-2024-07-18"
	DefaultAITimeout     = 60 * time.Second
	DefaultMaxImageBytes = 20 << 20
	DefaultTokenTTL      = 30 * 24 * time.Hour
	minTokenSecretLength = 16
)

// applyDefaults fills zero values.
func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.StaticPath == "" {
		cfg.Server.StaticPath = DefaultStaticPath
	}
	if cfg.Storage.DBPath == "" {
		cfg.Storage.DBPath = DefaultDBPath
	}
	if cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = DefaultAIBaseURL
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = DefaultAIModel
	}
	if cfg.AI.Timeout == 0 {
		cfg.AI.Timeout = DefaultAITimeout
	}
	if cfg.AI.MaxImageBytes == 0 {
		cfg.AI.MaxImageBytes = DefaultMaxImageBytes
	}
	if cfg.AI.RatePerSecond == 0 {
		cfg.AI.RatePerSecond = 1
	}
	if cfg.AI.Burst == 0 {
		cfg.AI.Burst = 3
	}
	if cfg.Access.TokenTTL == 0 {
		cfg.Access.TokenTTL = DefaultTokenTTL
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.App.TimeZone == "" {
		cfg.App.TimeZone = "Local"
	}
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Access.UserPassword == "" {
		errs = append(errs, errors.New("access.user_password is required"))
	}
	if c.Access.AdminPassword == "" {
		errs = append(errs, errors.New("access.admin_password is required"))
	}
	if c.Access.UserPassword != "" && c.Access.UserPassword == c.Access.AdminPassword {
		errs = append(errs, errors.New("access.user_password and access.admin_password must differ"))
	}
	if len(c.Access.TokenSecret) < minTokenSecretLength {
		errs = append(errs, fmt.Errorf("access.token_secret must be at least %d characters", minTokenSecretLength))
	}
	if c.Access.TokenTTL < 0 {
		errs = append(errs, errors.New("access.token_ttl must be positive"))
	}
	if c.AI.MaxImageBytes < 0 {
		errs = append(errs, errors.New("ai.max_image_bytes must be positive"))
	}
	if c.AI.RatePerSecond < 0 || c.AI.Burst < 0 {
		errs = append(errs, errors.New("ai.rate_per_second and ai.burst must be positive"))
	}
	if _, err := time.LoadLocation(c.App.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("app.time_zone: %w", err))
	}

	return errors.Join(errs...)
}
