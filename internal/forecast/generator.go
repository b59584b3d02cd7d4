package forecast

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrUnavailable is returned by generators that cannot reach a model.
var ErrUnavailable = errors.New("forecast model unavailable")

// Request is a single text completion call.
type Request struct {
	Model             string
	Prompt            string
	SystemInstruction string
	// Schema, when set, asks for a JSON response shaped like it.
	Schema *genai.Schema
}

// Generator produces model text for a prompt.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeminiGenerator calls the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
}

func NewGeminiGenerator(ctx context.Context, apiKey string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client}, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini %s: %w", req.Model, err)
	}
	return resp.Text(), nil
}

// unavailableGenerator stands in when no API key is configured.
type unavailableGenerator struct{}

func (unavailableGenerator) Generate(ctx context.Context, req Request) (string, error) {
	return "", ErrUnavailable
}

// NewGenerator returns a Gemini generator, or one that always fails when apiKey is empty.
func NewGenerator(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return unavailableGenerator{}, nil
	}
	return NewGeminiGenerator(ctx, apiKey)
}
