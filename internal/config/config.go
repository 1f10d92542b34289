// Package config loads service configuration from the environment, with an
// optional YAML file overriding individual values.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/kahit-saan/menu-service/internal/logging"
)

// Config is the root configuration for the menu service.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Uploads   UploadsConfig   `yaml:"uploads"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Logging   logging.Config  `yaml:"logging"`
}

type ServerConfig struct {
	Host            string        `env:"SERVER_HOST,default=0.0.0.0" yaml:"host"`
	Port            int           `env:"SERVER_PORT,default=8080" yaml:"port"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT,default=15s" yaml:"read_timeout"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT,default=30s" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s" yaml:"shutdown_timeout"`
}

// DatabaseConfig describes the Postgres connection. When Host is empty the
// service falls back to the in-memory store, which is intended for local
// development only.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST,default=" yaml:"host"`
	Port     int    `env:"DB_PORT,default=5432" yaml:"port"`
	User     string `env:"DB_USER,default=postgres" yaml:"user"`
	Password string `env:"DB_PASSWORD,default=" yaml:"password"`
	Name     string `env:"DB_NAME,default=kahit_saan" yaml:"name"`
	SSLMode  string `env:"DB_SSL_MODE,default=disable" yaml:"ssl_mode"`
}

// DSN renders the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Enabled reports whether a Postgres connection is configured.
func (c DatabaseConfig) Enabled() bool { return c.Host != "" }

type AuthConfig struct {
	// JWTSecret is the shared HMAC secret the external auth collaborator
	// signs admin tokens with.
	JWTSecret string `env:"JWT_SECRET,default=" yaml:"jwt_secret"`
}

type UploadsConfig struct {
	Dir     string `env:"UPLOADS_DIR,default=uploads" yaml:"dir"`
	BaseURL string `env:"UPLOADS_BASE_URL,default=/uploads" yaml:"base_url"`
}

type CORSConfig struct {
	// AllowedOrigins is a comma-separated origin allowlist; "*" allows all.
	AllowedOrigins string `env:"CORS_ALLOWED_ORIGINS,default=*" yaml:"allowed_origins"`
}

// Origins returns the parsed allowlist.
func (c CORSConfig) Origins() []string {
	parts := strings.Split(c.AllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

type RateLimitConfig struct {
	RequestsPerSecond int `env:"RATE_LIMIT_RPS,default=20" yaml:"requests_per_second"`
	Burst             int `env:"RATE_LIMIT_BURST,default=40" yaml:"burst"`
}

// Load reads configuration from the environment. When CONFIG_FILE points at a
// YAML file its values override the environment-derived ones.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
