package ai

import "context"

// ProviderKind identifies one hosted generation backend.
type ProviderKind string

const (
	ProviderGemini    ProviderKind = "gemini"
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderOllama    ProviderKind = "ollama"
)

// DefaultProvider is used when the configured preferred provider is unknown.
const DefaultProvider = ProviderGemini

// Request is the uniform prompt envelope every provider accepts. Each
// provider owns the marshaling to its own wire format.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float32
	MaxTokens    int
	// CacheHint marks the system prompt as a candidate for provider-side
	// prompt caching where the backend supports it.
	CacheHint bool
}

// Response is the uniform result envelope. Token counts are folded into the
// usage ledger by the caller; the response itself is never persisted.
type Response struct {
	Text         string
	InputTokens  int
	OutputTokens int
	StopReason   string
	Provider     ProviderKind
}

// Provider is one hosted model endpoint.
type Provider interface {
	Kind() ProviderKind
	// IsConfigured reports whether the provider has usable credentials.
	IsConfigured() bool
	Send(ctx context.Context, req Request) (*Response, error)
}
