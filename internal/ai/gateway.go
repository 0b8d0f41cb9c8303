package ai

import (
	"context"
	"fmt"
	"time"

	"studyforge_go_backend/internal/config"
	apperrors "studyforge_go_backend/internal/errors"
	"studyforge_go_backend/pkg/logger"
)

// Gateway abstracts over the configured generation providers. The preferred
// provider is tried first; the remaining configured providers are tried in
// the priority order from configuration, so fallback behavior does not depend
// on wiring order.
type Gateway struct {
	providers map[ProviderKind]Provider
	priority  []ProviderKind
	preferred ProviderKind
	timeout   time.Duration
}

func NewGateway(cfg *config.AIConfig) *Gateway {
	providers := map[ProviderKind]Provider{
		ProviderGemini:    NewGeminiProvider(&cfg.Gemini),
		ProviderOpenAI:    NewOpenAIProvider(&cfg.OpenAI),
		ProviderAnthropic: NewAnthropicProvider(&cfg.Anthropic),
		ProviderOllama:    NewOllamaProvider(&cfg.Ollama),
	}

	var priority []ProviderKind
	for _, name := range cfg.ProviderPriority {
		kind := ProviderKind(name)
		if _, ok := providers[kind]; ok {
			priority = append(priority, kind)
		} else {
			logger.Warnf("[AI] Unknown provider %q in priority list, skipping", name)
		}
	}

	preferred := ProviderKind(cfg.PreferredProvider)
	if _, ok := providers[preferred]; !ok {
		logger.Warnf("[AI] Unknown preferred provider %q, defaulting to %s", cfg.PreferredProvider, DefaultProvider)
		preferred = DefaultProvider
	}

	return &Gateway{
		providers: providers,
		priority:  priority,
		preferred: preferred,
		timeout:   cfg.RequestTimeout,
	}
}

// SelectProvider returns the provider requests will be sent to first: the
// preferred one if configured, otherwise the first configured provider in
// priority order.
func (g *Gateway) SelectProvider() (Provider, error) {
	chain := g.chain()
	if len(chain) == 0 {
		return nil, apperrors.ErrProviderUnavailable
	}
	return chain[0], nil
}

// Send sends the request to the selected provider, falling back through the
// remaining configured providers when a call fails or times out. A provider
// failure only surfaces once no alternative is left.
func (g *Gateway) Send(ctx context.Context, req Request) (*Response, error) {
	chain := g.chain()
	if len(chain) == 0 {
		return nil, apperrors.ErrProviderUnavailable
	}

	var lastErr error
	for i, provider := range chain {
		logger.Infof("[AI] Attempting provider %d/%d: %s", i+1, len(chain), provider.Kind())

		resp, err := g.send(ctx, provider, req)
		if err == nil {
			logger.Infof("[AI] Success with provider %s: %d in / %d out tokens",
				provider.Kind(), resp.InputTokens, resp.OutputTokens)
			return resp, nil
		}

		lastErr = err
		logger.Warnf("[AI] Provider %s failed: %v, trying next", provider.Kind(), err)
	}

	return nil, fmt.Errorf("%w: all providers failed, last error: %v", apperrors.ErrProviderUnavailable, lastErr)
}

// SendTo sends the request to one specific provider, bypassing fallback. It
// fails immediately when that provider is not configured.
func (g *Gateway) SendTo(ctx context.Context, kind ProviderKind, req Request) (*Response, error) {
	provider, ok := g.providers[kind]
	if !ok || !provider.IsConfigured() {
		return nil, fmt.Errorf("%w: provider %s is not configured", apperrors.ErrProviderUnavailable, kind)
	}
	return g.send(ctx, provider, req)
}

func (g *Gateway) send(ctx context.Context, provider Provider, req Request) (*Response, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}
	return provider.Send(ctx, req)
}

// chain returns the configured providers in send order: preferred first,
// then the priority list.
func (g *Gateway) chain() []Provider {
	var chain []Provider
	seen := map[ProviderKind]bool{}

	if p, ok := g.providers[g.preferred]; ok && p.IsConfigured() {
		chain = append(chain, p)
		seen[g.preferred] = true
	}

	for _, kind := range g.priority {
		if seen[kind] {
			continue
		}
		if p := g.providers[kind]; p.IsConfigured() {
			chain = append(chain, p)
			seen[kind] = true
		}
	}

	return chain
}
