package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level finview.yaml configuration.
type Config struct {
	Plaid      PlaidConfig      `yaml:"plaid"`
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Statements StatementsConfig `yaml:"statements"`
}

// PlaidConfig holds the transaction-fetch API credentials. Environment
// selects the API host: sandbox, development or production.
type PlaidConfig struct {
	ClientID    string `yaml:"client_id"`
	Secret      string `yaml:"secret"`
	Environment string `yaml:"environment"`
}

// ServerConfig controls the HTTP UI.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// StatementsConfig controls the batch pipeline.
type StatementsConfig struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	Workers   int    `yaml:"workers"`
}

// Load reads a finview.yaml file from disk and applies environment
// overrides for the Plaid credentials.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.ApplyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default() *Config {
	return &Config{
		Plaid: PlaidConfig{
			Environment: "sandbox",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Statements: StatementsConfig{
			InputDir:  "statements",
			OutputDir: "output",
			Workers:   8,
		},
	}
}

// ApplyEnv overrides Plaid credentials from the process environment,
// same variable names the hosted deployments use.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("PLAID_CLIENT_ID"); v != "" {
		c.Plaid.ClientID = v
	}
	if v := os.Getenv("PLAID_SECRET"); v != "" {
		c.Plaid.Secret = v
	}
	if v := os.Getenv("PLAID_ENV"); v != "" {
		c.Plaid.Environment = v
	}
}

func (c *Config) validate() error {
	switch c.Plaid.Environment {
	case "", "sandbox", "development", "production":
	default:
		return fmt.Errorf("invalid plaid environment %q (want sandbox, development or production)", c.Plaid.Environment)
	}
	if c.Statements.Workers < 0 {
		return fmt.Errorf("statements.workers must not be negative")
	}
	return nil
}
