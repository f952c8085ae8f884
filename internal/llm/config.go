// Package llm provides the language-model collaborator and helpers for reading its replies.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 20 * time.Second

// Config holds the model configuration for the application
type Config struct {
	Provider Provider
	Model    string
	Timeout  time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Model:    DefaultModel,
		Timeout:  DefaultTimeout,
	}
}

// WithModel returns a copy of the config using model, keeping the default when model is empty.
func (c *Config) WithModel(model string) *Config {
	out := *c
	if model != "" {
		out.Model = model
	}
	return &out
}

// WithTimeout returns a copy of the config using d, keeping the default when d is not positive.
func (c *Config) WithTimeout(d time.Duration) *Config {
	out := *c
	if d > 0 {
		out.Timeout = d
	}
	return &out
}
