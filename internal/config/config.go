// Package config assembles server settings from defaults, an optional YAML file,
// the environment and command-line flags, in that order of precedence (last wins).
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const EnvProduction = "production"

// Config holds runtime settings for the submissions server.
type Config struct {
	Port        int    `yaml:"port" env:"PORT"`
	Environment string `yaml:"environment" env:"APP_ENV"`
	Version     string `yaml:"version" env:"APP_VERSION"`
	FrontendURL string `yaml:"frontend_url" env:"FRONTEND_URL"`
	ServeStatic bool   `yaml:"serve_static" env:"SERVE_STATIC"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`

	Database  Database  `yaml:"database"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

// Database describes how to reach PostgreSQL and how large the pool may grow.
// URL takes precedence over the individual connection fields.
type Database struct {
	URL            string        `yaml:"url" env:"DATABASE_URL"`
	Host           string        `yaml:"host" env:"DB_HOST"`
	Port           int           `yaml:"port" env:"DB_PORT"`
	User           string        `yaml:"user" env:"DB_USER"`
	Password       string        `yaml:"password" env:"DB_PASSWORD"`
	Name           string        `yaml:"name" env:"DB_NAME"`
	MaxConns       int           `yaml:"max_conns" env:"DB_MAX_CONNS"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env:"DB_IDLE_TIMEOUT"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
}

// RateLimit configures the general and the submit-specific limiter. Both share Window.
// TrustedProxies is the number of reverse proxies in front of the server; with
// 0 the client is keyed by its socket address and X-Forwarded-For is ignored.
type RateLimit struct {
	Window         time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	Max            int           `yaml:"max" env:"RATE_LIMIT_MAX"`
	SubmitMax      int           `yaml:"submit_max" env:"SUBMIT_RATE_LIMIT_MAX"`
	TrustedProxies int           `yaml:"trusted_proxy_count" env:"TRUSTED_PROXIES"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Port = 3000
	c.Environment = "development"
	c.Version = "1.0.0"
	c.FrontendURL = ""
	c.ServeStatic = false
	c.LogLevel = "INFO"

	c.Database = Database{
		Host:           "localhost",
		Port:           5432,
		User:           "healthsync_user",
		Password:       "healthsync_password",
		Name:           "healthsync_db",
		MaxConns:       20,
		IdleTimeout:    30 * time.Second,
		ConnectTimeout: 2 * time.Second,
	}

	c.RateLimit = RateLimit{
		Window:         15 * time.Minute,
		Max:            100,
		SubmitMax:      10,
		TrustedProxies: 0,
	}
}

// LoadConfig builds a Config from defaults, then the YAML file named by -c or
// CONFIG_FILE, then the environment (after loading .env), then flags.
func LoadConfig(args []string) (*Config, error) {
	_ = godotenv.Load()

	fl, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	cfg.LoadDefaults()

	path := fl.configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	fl.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	err := envdecode.Decode(c)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("decode environment: %w", err)
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Database.MaxConns <= 0 {
		return fmt.Errorf("database max_conns must be positive, got %d", c.Database.MaxConns)
	}
	if c.RateLimit.Window <= 0 || c.RateLimit.Max <= 0 || c.RateLimit.SubmitMax <= 0 {
		return errors.New("rate limit window and maxima must be positive")
	}
	if c.RateLimit.TrustedProxies < 0 {
		return fmt.Errorf("trusted proxy count must not be negative, got %d", c.RateLimit.TrustedProxies)
	}
	return nil
}

// Addr is the listen address derived from Port.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// AllowedOrigins lists the origins CORS accepts: FRONTEND_URL in production,
// the local development hosts otherwise.
func (c *Config) AllowedOrigins() []string {
	if c.IsProduction() {
		if c.FrontendURL == "" {
			return nil
		}
		return []string{c.FrontendURL}
	}
	return []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:8080"}
}

// DSN returns Database.URL when set, otherwise a postgres URL built from the parts.
func (d Database) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
