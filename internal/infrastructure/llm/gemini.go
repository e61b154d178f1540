package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"TechBriefing/internal/config"
	"TechBriefing/internal/ports"
)

// GeminiCompleter implements ports.Completer with Google's Gemini models.
type GeminiCompleter struct {
	client *genai.Client
	model  string
	cfg    config.GeneratorConfig
}

var _ ports.Completer = (*GeminiCompleter)(nil)

// NewGeminiCompleter opens a Gemini client. Close must be called when done.
func NewGeminiCompleter(ctx context.Context, cfg config.GeneratorConfig) (*GeminiCompleter, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key missing")
	}
	if cfg.Model == "" {
		return nil, errors.New("gemini model is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: cfg.Model, cfg: cfg}, nil
}

// Complete runs one GenerateContent call and joins the text parts of the
// first candidate.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout(g.cfg.TimeoutSeconds))
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	if system := strings.TrimSpace(prompt.System); system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := candidateText(resp)
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}

// Close releases the underlying gRPC connection.
func (g *GeminiCompleter) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var sb strings.Builder
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		if sb.Len() > 0 {
			return sb.String()
		}
	}
	return ""
}
