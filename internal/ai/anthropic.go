package ai

import (
	"context"
	"fmt"
	"strings"

	"studyforge_go_backend/internal/config"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider handles the Anthropic Claude API using the native SDK.
type AnthropicProvider struct {
	apiKey string
	model  string
}

func NewAnthropicProvider(cfg *config.ProviderConfig) *AnthropicProvider {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &AnthropicProvider{apiKey: cfg.APIKey, model: model}
}

func (p *AnthropicProvider) Kind() ProviderKind { return ProviderAnthropic }

func (p *AnthropicProvider) IsConfigured() bool { return p.apiKey != "" }

func (p *AnthropicProvider) Send(ctx context.Context, req Request) (*Response, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(p.apiKey),
	)

	maxTokens := int64(req.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 4096
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   maxTokens,
		Temperature: anthropic.Float(float64(req.Temperature)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserPrompt)),
		},
	}
	if req.SystemPrompt != "" {
		block := anthropic.TextBlockParam{Text: req.SystemPrompt}
		if req.CacheHint {
			block.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		params.System = []anthropic.TextBlockParam{block}
	}

	resp, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return &Response{
		Text:         text.String(),
		InputTokens:  int(resp.Usage.InputTokens),
		OutputTokens: int(resp.Usage.OutputTokens),
		StopReason:   string(resp.StopReason),
		Provider:     ProviderAnthropic,
	}, nil
}
