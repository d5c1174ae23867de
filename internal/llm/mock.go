package llm

import (
	"context"
	"strings"
)

// MockGenerator is a deterministic offline generator used in development
type MockGenerator struct{}

// NewMockGenerator creates a new mock generator
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate echoes the composed prompt
func (g *MockGenerator) Generate(ctx context.Context, input, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.TrimSpace(BuildPrompt(input, prompt)), nil
}
