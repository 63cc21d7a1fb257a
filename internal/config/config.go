// Package config handles loading and parsing application configuration.
// Sources, lowest priority first:
//  1. A .env file in the working directory (optional)
//  2. A YAML file named by CONFIG_PATH or --config (optional)
//  3. Process environment variables
//
// The store endpoint and API key are the only values without defaults.
// Starting without them is a hard failure.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Storage drivers understood by Store.Driver.
const (
	DriverPostgREST = "postgrest"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

// Config is the root configuration structure.
// Every field maps to a key in the YAML file AND can be overridden
// by the corresponding environment variable (env:"...").
type Config struct {
	// Env controls log format and verbosity.
	// Valid values: "dev", "staging", "prod"
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	Store      Store      `yaml:"store"`
	HTTPServer HTTPServer `yaml:"http_server"`
}

// Store selects and configures the record store.
type Store struct {
	Driver string `yaml:"driver" env:"STORE_DRIVER" env-default:"postgrest"`

	// URL and APIKey address the hosted REST endpoint (postgrest driver).
	// The NEXT_PUBLIC_ names are accepted so an existing frontend .env works.
	URL    string `yaml:"url"     env:"SUPABASE_URL,NEXT_PUBLIC_SUPABASE_URL"`
	APIKey string `yaml:"api_key" env:"SUPABASE_ANON_KEY,NEXT_PUBLIC_SUPABASE_ANON_KEY"`

	// Timeout bounds a single request to the store.
	Timeout time.Duration `yaml:"timeout" env:"STORE_TIMEOUT" env-default:"10s"`

	// DSN is the connection string for the postgres driver.
	DSN string `yaml:"dsn" env:"DATABASE_URL"`

	// Path is the database file for the sqlite driver.
	Path string `yaml:"path" env:"STORAGE_PATH" env-default:"storage/students.db"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:8082"`

	// AllowedOrigins is the CORS allow-list for /api.
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
}

var (
	ErrMissingURL    = errors.New("store url is not set (SUPABASE_URL)")
	ErrMissingAPIKey = errors.New("store api key is not set (SUPABASE_ANON_KEY)")
	ErrMissingDSN    = errors.New("store dsn is not set (DATABASE_URL)")
	ErrMissingPath   = errors.New("store path is not set (STORAGE_PATH)")
)

// Validate checks the values each driver needs.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgREST:
		var errs []error
		if c.Store.URL == "" {
			errs = append(errs, ErrMissingURL)
		}
		if c.Store.APIKey == "" {
			errs = append(errs, ErrMissingAPIKey)
		}
		return errors.Join(errs...)
	case DriverPostgres:
		if c.Store.DSN == "" {
			return ErrMissingDSN
		}
	case DriverSQLite:
		if c.Store.Path == "" {
			return ErrMissingPath
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// Load reads the configuration. An empty path means environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to exit on failure: if this
// returns, the config is valid.
func MustLoad() *Config {
	// .env is a development convenience; production sets real variables.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("cannot read .env: %s", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("CRITICAL: %s", err)
	}
	return cfg
}

// MaskedKey returns the first 20 characters of the API key followed by an
// ellipsis, or "MISSING".
func (s Store) MaskedKey() string {
	if s.APIKey == "" {
		return "MISSING"
	}
	if len(s.APIKey) <= 20 {
		return s.APIKey[:len(s.APIKey)/2] + "..."
	}
	return s.APIKey[:20] + "..."
}
