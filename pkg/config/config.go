// Package config loads the optional promptly YAML configuration file.
// Everything has a built-in default so the tool runs with no file at all.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mdiez/promptly/pkg/catalog"
	"github.com/mdiez/promptly/pkg/completion"
)

// EnvAPIKey is the environment variable consulted when the config file does
// not set an API key.
const EnvAPIKey = "OPENROUTER_API_KEY" //nolint:gosec // variable name, not a credential

// Config is the top-level promptly configuration.
type Config struct {
	APIKey         string             `yaml:"api_key"` //nolint:gosec // configuration field, not a hardcoded secret
	BaseURL        string             `yaml:"base_url"`
	RequestTimeout string             `yaml:"request_timeout"` // Duration string (e.g. "30s"). Empty = client default.
	SiteURL        string             `yaml:"site_url"`        // Attribution referer sent to the provider.
	AppName        string             `yaml:"app_name"`        // Attribution title sent to the provider.
	DefaultModel   string             `yaml:"default_model"`   // Model ID preselected at startup.
	Defaults       GenerationConfig   `yaml:"defaults"`
	Models         []ModelConfig      `yaml:"models"`          // Replaces the built-in catalog when non-empty.
	ExamplePrompts []string           `yaml:"example_prompts"` // Replaces the built-in examples when non-empty.
	Experiments    []ExperimentConfig `yaml:"experiments"`     // Replaces the built-in experiment cases when non-empty.
}

// GenerationConfig overrides the starting generation settings. Nil fields
// keep the built-in defaults; pointers let an explicit zero temperature
// survive parsing.
type GenerationConfig struct {
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens"`
}

// ModelConfig describes one catalog entry.
type ModelConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Free bool   `yaml:"free"`
}

// ExperimentConfig describes one batch experiment case. Nil settings fall
// back to the session defaults.
type ExperimentConfig struct {
	Name        string   `yaml:"name"`
	Prompt      string   `yaml:"prompt"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   *int     `yaml:"max_tokens"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{}
}

// Load reads a YAML config file. A missing file is not an error: the
// built-in defaults are returned so the tool runs with no setup.
// Environment variables referenced as ${VAR} or $VAR in the YAML are
// expanded before parsing, so API keys can live in the environment rather
// than in the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-provided configuration, not user input
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	if err != nil {
		return Config{}, fmt.Errorf("config: load: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return fmt.Errorf("config: request_timeout: %w", err)
		}

		if d <= 0 {
			return fmt.Errorf("config: request_timeout must be positive, got %q", c.RequestTimeout)
		}
	}

	if err := validateGeneration(c.Defaults.Temperature, c.Defaults.MaxTokens, "defaults"); err != nil {
		return err
	}

	cat, err := c.Catalog()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	if c.DefaultModel != "" {
		if _, ok := cat.ByID(c.DefaultModel); !ok {
			return fmt.Errorf("config: default_model %q not found in models", c.DefaultModel)
		}
	}

	expNames := make(map[string]struct{}, len(c.Experiments))
	for _, e := range c.Experiments {
		if e.Name == "" {
			return fmt.Errorf("config: experiment name is required")
		}

		if _, dup := expNames[e.Name]; dup {
			return fmt.Errorf("config: duplicate experiment name %q", e.Name)
		}

		expNames[e.Name] = struct{}{}

		if err := completion.ValidatePrompt(e.Prompt); err != nil {
			return fmt.Errorf("config: experiment %q: %w", e.Name, err)
		}

		if err := validateGeneration(e.Temperature, e.MaxTokens, fmt.Sprintf("experiment %q", e.Name)); err != nil {
			return err
		}
	}

	return nil
}

func validateGeneration(temp *float64, maxTokens *int, where string) error {
	s := completion.DefaultSettings()

	if temp != nil {
		s.Temperature = *temp
	}

	if maxTokens != nil {
		s.MaxTokens = *maxTokens
	}

	if err := s.Validate(); err != nil {
		return fmt.Errorf("config: %s: %w", where, err)
	}

	return nil
}

// ResolveAPIKey returns the configured API key, falling back to the
// OPENROUTER_API_KEY environment variable. Empty means no credential is
// available.
func (c Config) ResolveAPIKey() string {
	if c.APIKey != "" {
		return c.APIKey
	}

	return os.Getenv(EnvAPIKey)
}

// Settings returns the starting generation settings with any configured
// overrides applied.
func (c Config) Settings() completion.Settings {
	s := completion.DefaultSettings()

	if c.Defaults.Temperature != nil {
		s.Temperature = *c.Defaults.Temperature
	}

	if c.Defaults.MaxTokens != nil {
		s.MaxTokens = *c.Defaults.MaxTokens
	}

	return s
}

// Timeout returns the parsed request timeout, or 0 when unset. Call
// Validate first; an unparseable value reports 0 here.
func (c Config) Timeout() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}

	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0
	}

	return d
}

// Catalog builds the model catalog from the config, or the built-in one
// when no models are listed.
func (c Config) Catalog() (catalog.Catalog, error) {
	if len(c.Models) == 0 {
		return catalog.Default(), nil
	}

	models := make([]catalog.Model, len(c.Models))
	for i, m := range c.Models {
		models[i] = catalog.Model{ID: m.ID, Name: m.Name, Free: m.Free}
	}

	return catalog.New(models...)
}

// Examples returns the example prompts shown in the chat menu.
func (c Config) Examples() []string {
	if len(c.ExamplePrompts) > 0 {
		cp := make([]string, len(c.ExamplePrompts))
		copy(cp, c.ExamplePrompts)

		return cp
	}

	return DefaultExamples()
}

// DefaultExamples returns the built-in example prompts.
func DefaultExamples() []string {
	return []string{
		"Once upon a time, there was a robot who...",
		"Explain photosynthesis to a 10-year-old.",
		"Write a haiku about the ocean.",
		"What are the benefits of renewable energy?",
		"Explain recursion like I'm five.",
	}
}
