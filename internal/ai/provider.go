package ai

import (
	"context"
	"encoding/json"
	"errors"
)

// Provider sends a prompt to a text-generation service and returns the raw
// response document.
type Provider interface {
	Generate(ctx context.Context, prompt string) (json.RawMessage, error)
}

// ErrNoCredentials means neither an API key nor a cloud project was configured.
var ErrNoCredentials = errors.New("no Gemini credentials configured")

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, prompt string) (json.RawMessage, error)

func (f ProviderFunc) Generate(ctx context.Context, prompt string) (json.RawMessage, error) {
	return f(ctx, prompt)
}
