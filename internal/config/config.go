// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultTimeoutSeconds is the per-request HTTP timeout when none is configured.
const DefaultTimeoutSeconds = 30

// Config represents the CLI configuration that can be loaded from a JSON
// file. All fields are optional; missing values use defaults or must be
// provided via CLI flags or environment variables.
type Config struct {
	// BaseURL is the backend API root, e.g. https://jobs.example.com.
	BaseURL string `json:"base_url,omitempty" validate:"omitempty,url"`
	// CredentialsFile overrides the default session file location.
	CredentialsFile string `json:"credentials_file,omitempty"`
	// TimeoutSeconds is the per-request HTTP timeout.
	TimeoutSeconds int `json:"timeout_seconds,omitempty" validate:"omitempty,min=1,max=600"`
	// Verbose prints detailed output for every command.
	Verbose bool `json:"verbose,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv fills unset fields from environment variables. godotenv has
// already merged the .env file into the environment by the time this runs.
func (c *Config) FromEnv() {
	if c.BaseURL == "" {
		c.BaseURL = os.Getenv("CVB_API_URL")
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = os.Getenv("CVB_CREDENTIALS_FILE")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config error: base URL is required (set --api-url or CVB_API_URL)")
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	seconds := c.TimeoutSeconds
	if seconds <= 0 {
		seconds = DefaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}
