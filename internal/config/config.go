// Package config provides configuration loading and validation for the service and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName is used for the default config file name and env prefix-free lookups.
const AppName = "career_coach"

// Config is the full service configuration.
// Values come from defaults, an optional YAML file, then environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Quota     QuotaConfig     `mapstructure:"quota"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// DatabaseConfig holds the PostgreSQL connection string.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LLMConfig controls the optional language-model collaborator.
// An empty APIKey disables model calls and every assessment uses the heuristic.
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// QuotaConfig holds the monthly free-tier limits.
type QuotaConfig struct {
	ResumeAnalyses int `mapstructure:"resume_analyses"`
	Interviews     int `mapstructure:"interviews"`
}

// AuthConfig holds token validation settings for the identity collaborator.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
}

// RateLimitConfig controls per-client request limiting.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       string        `mapstructure:"whitelist"`
	Blacklist       string        `mapstructure:"blacklist"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

var envBindings = map[string]string{
	"server.port":                "PORT",
	"database.url":               "DATABASE_URL",
	"llm.api_key":                "GEMINI_API_KEY",
	"llm.model":                  "GEMINI_MODEL",
	"llm.timeout":                "LLM_TIMEOUT",
	"quota.resume_analyses":      "FREE_RESUME_ANALYSES",
	"quota.interviews":           "FREE_INTERVIEWS",
	"auth.jwt_secret":            "JWT_SECRET",
	"auth.jwt_expiration_hours":  "JWT_EXPIRATION_HOURS",
	"ratelimit.enabled":          "RATE_LIMIT_ENABLED",
	"ratelimit.default_limit":    "RATE_LIMIT_DEFAULT_LIMIT",
	"ratelimit.default_window":   "RATE_LIMIT_DEFAULT_WINDOW",
	"ratelimit.cleanup_interval": "RATE_LIMIT_CLEANUP_INTERVAL",
	"ratelimit.whitelist":        "RATE_LIMIT_WHITELIST",
	"ratelimit.blacklist":        "RATE_LIMIT_BLACKLIST",
	"log.json":                   "LOG_JSON",
	"log.debug":                  "LOG_DEBUG",
}

// SetDefaults registers every default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_upload_bytes", 8<<20)

	v.SetDefault("llm.model", "gemini-2.5-flash")
	v.SetDefault("llm.timeout", 20*time.Second)

	v.SetDefault("quota.resume_analyses", 3)
	v.SetDefault("quota.interviews", 5)

	v.SetDefault("auth.jwt_expiration_hours", 24)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.default_limit", 1000)
	v.SetDefault("ratelimit.default_window", time.Minute)
	v.SetDefault("ratelimit.cleanup_interval", 5*time.Minute)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)
}

// BindEnv binds the documented environment variables to their config keys.
func BindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s environment variable: %w", env, err)
		}
	}
	return nil
}

// Load reads configuration into a Config. When path is empty, a career_coach.yaml
// in the working directory is used if present.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	if err := BindEnv(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(AppName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LLM.APIKey = strings.TrimSpace(cfg.LLM.APIKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// It does not require a database URL; commands that need one call RequireDatabase.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Quota.ResumeAnalyses < 0 {
		return fmt.Errorf("config error: 'quota.resume_analyses' must be non-negative")
	}
	if c.Quota.Interviews < 0 {
		return fmt.Errorf("config error: 'quota.interviews' must be non-negative")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be positive")
	}
	if c.RateLimit.Enabled && c.RateLimit.DefaultLimit < 0 {
		return fmt.Errorf("config error: 'ratelimit.default_limit' must be non-negative")
	}
	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}

// ModelEnabled reports whether model calls are configured.
func (c *Config) ModelEnabled() bool {
	return c.LLM.APIKey != ""
}
