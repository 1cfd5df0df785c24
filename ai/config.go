// Copyright 2026 Newsweave Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ai

import (
	"errors"
	"strings"
)

// Config holds configuration for AI service providers.
type Config struct {
	// EmbeddingHost is the base URL for the embedding service API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	EmbeddingHost string

	// OracleHost is the base URL for the summarization oracle API.
	// Example: "http://localhost:11434/v1" for local OpenAI-compatible server
	OracleHost string

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Example: "all-minilm", "text-embedding-3-small"
	EmbeddingModel string

	// OracleModel is the model identifier to use for event summarization.
	// Example: "gemini-2.0-flash", "gpt-4o-mini"
	OracleModel string

	// OracleAPIKey authenticates against the summarization oracle.
	// Local OpenAI-compatible services accept any non-empty token.
	OracleAPIKey string

	// EmbeddingAPIKey authenticates against the embedding service.
	// Local OpenAI-compatible services accept any non-empty token.
	EmbeddingAPIKey string
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithEmbeddingHost sets the embedding service host URL.
func WithEmbeddingHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
	}
}

// WithOracleHost sets the summarization oracle host URL.
func WithOracleHost(host string) ConfigOption {
	return func(c *Config) {
		c.OracleHost = host
	}
}

// WithHost sets both embedding and oracle hosts to the same URL.
func WithHost(host string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingHost = host
		c.OracleHost = host
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithOracleModel sets the oracle model identifier.
func WithOracleModel(model string) ConfigOption {
	return func(c *Config) {
		c.OracleModel = model
	}
}

// WithOracleAPIKey sets the oracle API key.
func WithOracleAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.OracleAPIKey = key
	}
}

// WithEmbeddingAPIKey sets the embedding service API key.
func WithEmbeddingAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingAPIKey = key
	}
}

// DefaultConfig returns a Config with sensible defaults for local OpenAI-compatible services.
// By default, both embedding and oracle use the same host.
func DefaultConfig() *Config {
	defaultHost := "http://localhost:11434/v1"
	return &Config{
		EmbeddingHost:   defaultHost,
		OracleHost:      defaultHost,
		EmbeddingModel:  "all-minilm",
		OracleModel:     "qwen2.5:3b",
		OracleAPIKey:    "none",
		EmbeddingAPIKey: "none",
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
// This is the recommended way to create a Config with custom settings.
//
// Example:
//
//	cfg := NewConfig(
//	    WithHost("http://localhost:11434/v1"),
//	    WithEmbeddingModel("text-embedding-3-small"),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It automatically adds the /v1 suffix to hosts if missing, which is required
// by most OpenAI-compatible APIs (Ollama, LocalAI, vLLM, etc).
func (c *Config) Normalize() {
	if c.EmbeddingHost != "" && !strings.HasSuffix(c.EmbeddingHost, "/v1") {
		c.EmbeddingHost = strings.TrimSuffix(c.EmbeddingHost, "/")
		c.EmbeddingHost = c.EmbeddingHost + "/v1"
	}
	if c.OracleHost != "" && !strings.HasSuffix(c.OracleHost, "/v1") {
		c.OracleHost = strings.TrimSuffix(c.OracleHost, "/")
		c.OracleHost = c.OracleHost + "/v1"
	}
	if c.OracleAPIKey == "" {
		c.OracleAPIKey = "none"
	}
	if c.EmbeddingAPIKey == "" {
		c.EmbeddingAPIKey = "none"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.EmbeddingHost == "" {
		return errors.New("ai config: EmbeddingHost is required")
	}
	if c.OracleHost == "" {
		return errors.New("ai config: OracleHost is required")
	}
	if c.EmbeddingModel == "" {
		return errors.New("ai config: EmbeddingModel is required")
	}
	if c.OracleModel == "" {
		return errors.New("ai config: OracleModel is required")
	}
	return nil
}
