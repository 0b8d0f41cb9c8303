package ai

import (
	"context"
	"fmt"

	"studyforge_go_backend/internal/config"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider handles OpenAI and OpenAI-compatible endpoints.
type OpenAIProvider struct {
	apiKey  string
	baseURL string
	model   string
}

func NewOpenAIProvider(cfg *config.ProviderConfig) *OpenAIProvider {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIProvider{apiKey: cfg.APIKey, baseURL: cfg.BaseURL, model: model}
}

func (p *OpenAIProvider) Kind() ProviderKind { return ProviderOpenAI }

func (p *OpenAIProvider) IsConfigured() bool { return p.apiKey != "" }

func (p *OpenAIProvider) Send(ctx context.Context, req Request) (*Response, error) {
	clientConfig := openai.DefaultConfig(p.apiKey)
	if p.baseURL != "" {
		clientConfig.BaseURL = p.baseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	messages := []openai.ChatCompletionMessage{}
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return &Response{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
		StopReason:   string(resp.Choices[0].FinishReason),
		Provider:     ProviderOpenAI,
	}, nil
}
