package ai

import (
	"context"
	"errors"
	"time"
)

// Generator produces schema-constrained JSON text from a hosted model.
type Generator interface {
	Provider() string
	Model() string
	Generate(ctx context.Context, req StructuredRequest) (string, error)
	Close() error
}

// StructuredRequest is a system + user conversation constrained to a JSON schema.
type StructuredRequest struct {
	SchemaName string
	System     string
	User       string
	Schema     map[string]any
}

// Config selects and configures the model provider.
type Config struct {
	Provider    string         `yaml:"provider"`
	OpenAI      ProviderConfig `yaml:"openai"`
	Gemini      ProviderConfig `yaml:"gemini"`
	Temperature float64        `yaml:"temperature"`
	MaxTokens   int            `yaml:"max_tokens"`
	Timeout     time.Duration  `yaml:"timeout"`
}

// ProviderConfig holds credentials and model selection for one provider.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

var ErrDisabled = errors.New("ai generator disabled")
