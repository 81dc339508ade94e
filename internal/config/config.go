// Package config loads runtime settings from an optional YAML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied for anything the file and environment leave unset.
const (
	DefaultQuoteEndpoint = "https://dummyjson.com/quotes/random"
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = time.Second
	DefaultFetchTimeout  = 35 * time.Second
)

// QuoteSettings configures the quote fetch flow.
type QuoteSettings struct {
	Endpoint       string `yaml:"endpoint"`
	RetryAttempts  int    `yaml:"retry_attempts"`
	RetryDelayMS   int    `yaml:"retry_delay_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// GeminiSettings configures the elaboration flow. The API key normally comes
// from GEMINI_API_KEY; a file value is supported for local development only.
type GeminiSettings struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

// Settings is the full YAML configuration structure.
type Settings struct {
	Quote  QuoteSettings  `yaml:"quote"`
	Gemini GeminiSettings `yaml:"gemini"`
}

// Load reads the file at path, applies environment overrides, then defaults.
// A missing file is not an error; an unreadable or unparseable one is.
func Load(path string) (*Settings, error) {
	settings := &Settings{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// fall through to env + defaults
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, settings); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	settings.applyEnv()
	settings.applyDefaults()
	return settings, nil
}

func (s *Settings) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("QUOTE_API_URL")); v != "" {
		s.Quote.Endpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		s.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_MODEL")); v != "" {
		s.Gemini.Model = v
	}
}

func (s *Settings) applyDefaults() {
	if strings.TrimSpace(s.Quote.Endpoint) == "" {
		s.Quote.Endpoint = DefaultQuoteEndpoint
	}
	if s.Quote.RetryAttempts <= 0 {
		s.Quote.RetryAttempts = DefaultRetryAttempts
	}
	if s.Quote.RetryDelayMS <= 0 {
		s.Quote.RetryDelayMS = int(DefaultRetryDelay / time.Millisecond)
	}
	if s.Quote.TimeoutSeconds <= 0 {
		s.Quote.TimeoutSeconds = int(DefaultFetchTimeout / time.Second)
	}
}

// RetryDelay returns the between-attempt delay as a duration.
func (q QuoteSettings) RetryDelay() time.Duration {
	return time.Duration(q.RetryDelayMS) * time.Millisecond
}

// FetchTimeout returns the overall per-fetch deadline as a duration.
func (q QuoteSettings) FetchTimeout() time.Duration {
	return time.Duration(q.TimeoutSeconds) * time.Second
}
