// Package config holds the process-wide configuration value object.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DurableStorePath holds records across restarts in a normal deployment.
	DurableStorePath = "data/enriched_feedback.json"
	// SandboxStorePath is scratch storage for sandboxed deployments where
	// only /tmp is writable.
	SandboxStorePath = "/tmp/enriched_feedback.json"
)

type Config struct {
	Listen   string `yaml:"listen"`
	LogLevel string `yaml:"log_level"`

	Source SourceConfig `yaml:"source"`
	Gemini GeminiConfig `yaml:"gemini"`
	Store  StoreConfig  `yaml:"store"`

	DefaultEmail  string `yaml:"default_email"`
	DefaultSource string `yaml:"default_source"`
}

type SourceConfig struct {
	URL      string        `yaml:"url"`
	Timeout  time.Duration `yaml:"timeout"`
	MaxItems int           `yaml:"max_items"`
}

type GeminiConfig struct {
	APIKey       string  `yaml:"api_key"`
	Model        string  `yaml:"model"`
	BaseURL      string  `yaml:"base_url"`
	RateLimitRPS float64 `yaml:"rate_limit_rps"`
}

type StoreConfig struct {
	// Sandbox selects the scratch store path. Path, when set, wins over both.
	Sandbox bool   `yaml:"sandbox"`
	Path    string `yaml:"path"`
}

// Load builds the configuration from an optional YAML file plus the
// environment. A .env file is honored if present; ${VAR} references in the
// YAML are expanded; environment variables override file values for the
// provider credential, model and deployment mode.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		c.Gemini.Model = v
	}
	if v := os.Getenv("GEMINI_BASE_URL"); v != "" {
		c.Gemini.BaseURL = v
	}
	sandbox, err := envBool("SANDBOX_DEPLOY")
	if err != nil {
		return err
	}
	if sandbox {
		c.Store.Sandbox = true
	}
	if v := os.Getenv("STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Source.URL == "" {
		c.Source.URL = "https://jsonplaceholder.typicode.com/comments"
	}
	if c.Source.Timeout == 0 {
		c.Source.Timeout = 8 * time.Second
	}
	if c.Source.MaxItems == 0 {
		c.Source.MaxItems = 3
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Store.Path == "" {
		if c.Store.Sandbox {
			c.Store.Path = SandboxStorePath
		} else {
			c.Store.Path = DurableStorePath
		}
	}
	if c.DefaultEmail == "" {
		c.DefaultEmail = "anonymous@example.com"
	}
	if c.DefaultSource == "" {
		c.DefaultSource = "web"
	}
}

func envBool(varName string) (bool, error) {
	v := os.Getenv(varName)
	if v == "" {
		return false, nil
	}
	out, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s=%q: %w", varName, v, err)
	}
	return out, nil
}
