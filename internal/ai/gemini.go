package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.0-flash"

type GeminiConfig struct {
	APIKey string
	Model  string

	// Used with application default credentials when APIKey is empty.
	Project  string
	Location string

	// Overrides the API endpoint; tests only.
	BaseURL string
}

// GeminiProvider calls generateContent through the genai SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider builds the SDK client once at startup. An API key selects
// the Gemini API backend; otherwise a project selects Vertex AI with
// application default credentials.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	clientConfig := &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	}

	switch {
	case cfg.APIKey != "":
		clientConfig.Backend = genai.BackendGeminiAPI
		clientConfig.APIKey = cfg.APIKey
	case cfg.Project != "":
		clientConfig.Backend = genai.BackendVertexAI
		clientConfig.Project = cfg.Project
		clientConfig.Location = cfg.Location
		if clientConfig.Location == "" {
			clientConfig.Location = "us-central1"
		}
	default:
		return nil, ErrNoCredentials
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &GeminiProvider{client: client, model: model}, nil
}

func (p *GeminiProvider) Model() string { return p.model }

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (json.RawMessage, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode gemini response: %w", err)
	}
	return raw, nil
}
