package ai

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"studyforge_go_backend/internal/config"

	"github.com/ollama/ollama/api"
)

// OllamaProvider talks to a locally hosted Ollama instance. It counts as
// configured whenever a base URL is set; there are no credentials.
type OllamaProvider struct {
	baseURL string
	model   string
}

func NewOllamaProvider(cfg *config.ProviderConfig) *OllamaProvider {
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	return &OllamaProvider{baseURL: cfg.BaseURL, model: model}
}

func (p *OllamaProvider) Kind() ProviderKind { return ProviderOllama }

func (p *OllamaProvider) IsConfigured() bool { return p.baseURL != "" }

func (p *OllamaProvider) Send(ctx context.Context, req Request) (*Response, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	messages := []api.Message{}
	if req.SystemPrompt != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, api.Message{Role: "user", Content: req.UserPrompt})

	stream := false
	var content strings.Builder
	var inputTokens, outputTokens int
	var stopReason string

	err = client.Chat(ctx, &api.ChatRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   &stream,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		if resp.Done {
			inputTokens = resp.Metrics.PromptEvalCount
			outputTokens = resp.Metrics.EvalCount
			stopReason = resp.DoneReason
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Ollama API error: %w", err)
	}

	return &Response{
		Text:         content.String(),
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		StopReason:   stopReason,
		Provider:     ProviderOllama,
	}, nil
}
