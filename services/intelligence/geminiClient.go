package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ErrUnavailable is returned when no model is configured.
var ErrUnavailable = errors.New("text generation is not configured")

// TextGenerator produces model output for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	// Stream calls onChunk for every piece of text in arrival order and
	// returns the concatenated output.
	Stream(ctx context.Context, prompt string, onChunk func(string) error) (string, error)
}

type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiClient{client: client, model: client.GenerativeModel(modelName)}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}

func (g *GeminiClient) Stream(ctx context.Context, prompt string, onChunk func(string) error) (string, error) {
	iter := g.model.GenerateContentStream(ctx, genai.Text(prompt))

	var sb strings.Builder
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return sb.String(), fmt.Errorf("gemini stream error: %w", err)
		}
		chunk := responseText(resp)
		if chunk == "" {
			continue
		}
		sb.WriteString(chunk)
		if err := onChunk(chunk); err != nil {
			return sb.String(), err
		}
	}
	return sb.String(), nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String()
}

// unavailable stands in for the model when no API key is configured.
type unavailable struct{}

func (unavailable) Generate(context.Context, string) (string, error) { return "", ErrUnavailable }

func (unavailable) Stream(context.Context, string, func(string) error) (string, error) {
	return "", ErrUnavailable
}

// Unavailable returns a generator that always fails with ErrUnavailable.
func Unavailable() TextGenerator { return unavailable{} }
