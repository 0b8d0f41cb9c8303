package ai

import (
	"context"
	"fmt"
	"strings"

	"studyforge_go_backend/internal/config"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiProvider calls Google AI Studio through the genai SDK.
type GeminiProvider struct {
	apiKey string
	model  string
}

func NewGeminiProvider(cfg *config.ProviderConfig) *GeminiProvider {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiProvider{apiKey: cfg.APIKey, model: model}
}

func (p *GeminiProvider) Kind() ProviderKind { return ProviderGemini }

func (p *GeminiProvider) IsConfigured() bool { return p.apiKey != "" }

func (p *GeminiProvider) Send(ctx context.Context, req Request) (*Response, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("Gemini client error: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.UserPrompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response from Gemini")
	}

	candidate := resp.Candidates[0]
	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	out := &Response{
		Text:       text.String(),
		StopReason: candidate.FinishReason.String(),
		Provider:   ProviderGemini,
	}
	if resp.UsageMetadata != nil {
		out.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}
