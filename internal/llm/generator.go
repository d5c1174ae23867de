// Package llm provides the text-generation collaborator used by AI output fields
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Generator produces text from a field value and a prompt template
type Generator interface {
	Generate(ctx context.Context, input, prompt string) (string, error)
}

// InputPlaceholder is replaced by the field value inside a prompt template
const InputPlaceholder = "{{input}}"

const systemPrompt = "You help learners refine their course answers. Reply with plain text only, without markdown."

// Config selects and configures a provider
type Config struct {
	// Provider is one of "openai", "anthropic" or "mock".
	Provider  string
	Model     string
	APIKey    string
	BaseURL   string
	MaxTokens int
	Retry     RetryConfig
	CacheTTL  time.Duration
}

// RetryConfig controls retries of transient provider failures
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry policy used when none is configured
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     5 * time.Second,
		Multiplier:  2,
	}
}

// NewGenerator builds the configured provider wrapped as caller -> cache -> retry -> provider.
// A nil cache disables caching.
func NewGenerator(cfg Config, cache CacheStore, logger *zap.Logger) (Generator, error) {
	var base Generator
	var err error

	switch cfg.Provider {
	case "openai":
		base, err = NewOpenAIGenerator(cfg)
	case "anthropic":
		base, err = NewAnthropicGenerator(cfg)
	case "mock", "":
		base = NewMockGenerator()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s provider: %w", cfg.Provider, err)
	}

	retry := cfg.Retry
	if retry.MaxAttempts < 1 {
		retry = DefaultRetryConfig()
	}
	g := WithRetry(base, retry)
	if cache != nil {
		g = WithCache(g, cache, cfg.Provider+"/"+cfg.Model, cfg.CacheTTL, logger)
	}
	return g, nil
}

// BuildPrompt substitutes input into prompt. A prompt without the placeholder is
// followed by the input; an empty prompt yields the input alone.
func BuildPrompt(input, prompt string) string {
	if strings.TrimSpace(prompt) == "" {
		return input
	}
	if strings.Contains(prompt, InputPlaceholder) {
		return strings.ReplaceAll(prompt, InputPlaceholder, input)
	}
	return prompt + "\n\n" + input
}

// resolveModel returns name, or fallback when name is empty
func resolveModel(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
