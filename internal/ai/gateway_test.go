package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "studyforge_go_backend/internal/errors"
)

type fakeProvider struct {
	kind       ProviderKind
	configured bool
	err        error
	calls      int
}

func (f *fakeProvider) Kind() ProviderKind { return f.kind }
func (f *fakeProvider) IsConfigured() bool { return f.configured }

func (f *fakeProvider) Send(ctx context.Context, req Request) (*Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &Response{Text: "ok", Provider: f.kind}, nil
}

func newTestGateway(preferred ProviderKind, priority []ProviderKind, providers ...*fakeProvider) *Gateway {
	m := map[ProviderKind]Provider{}
	for _, p := range providers {
		m[p.kind] = p
	}
	return &Gateway{providers: m, priority: priority, preferred: preferred}
}

func TestGateway_SelectPrefersPreferred(t *testing.T) {
	gemini := &fakeProvider{kind: ProviderGemini, configured: true}
	openai := &fakeProvider{kind: ProviderOpenAI, configured: true}
	g := newTestGateway(ProviderOpenAI, []ProviderKind{ProviderGemini, ProviderOpenAI}, gemini, openai)

	p, err := g.SelectProvider()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p.Kind())
}

func TestGateway_SelectSkipsUnconfiguredPreferred(t *testing.T) {
	gemini := &fakeProvider{kind: ProviderGemini, configured: false}
	ollama := &fakeProvider{kind: ProviderOllama, configured: true}
	g := newTestGateway(ProviderGemini, []ProviderKind{ProviderGemini, ProviderOllama}, gemini, ollama)

	p, err := g.SelectProvider()
	require.NoError(t, err)
	assert.Equal(t, ProviderOllama, p.Kind())
}

func TestGateway_SelectNoneConfigured(t *testing.T) {
	gemini := &fakeProvider{kind: ProviderGemini}
	g := newTestGateway(ProviderGemini, []ProviderKind{ProviderGemini}, gemini)

	_, err := g.SelectProvider()
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
}

func TestGateway_SendFallsBackInPriorityOrder(t *testing.T) {
	gemini := &fakeProvider{kind: ProviderGemini, configured: true, err: errors.New("quota exhausted")}
	anthropic := &fakeProvider{kind: ProviderAnthropic, configured: true, err: errors.New("overloaded")}
	openai := &fakeProvider{kind: ProviderOpenAI, configured: true}
	g := newTestGateway(
		ProviderGemini,
		[]ProviderKind{ProviderGemini, ProviderAnthropic, ProviderOpenAI},
		gemini, anthropic, openai,
	)

	resp, err := g.Send(context.Background(), Request{UserPrompt: "hej"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, resp.Provider)
	assert.Equal(t, 1, gemini.calls)
	assert.Equal(t, 1, anthropic.calls)
	assert.Equal(t, 1, openai.calls)
}

func TestGateway_SendPreferredNotCalledTwice(t *testing.T) {
	// Preferred also appears in the priority list; it must only be tried once.
	gemini := &fakeProvider{kind: ProviderGemini, configured: true, err: errors.New("down")}
	openai := &fakeProvider{kind: ProviderOpenAI, configured: true}
	g := newTestGateway(ProviderGemini, []ProviderKind{ProviderGemini, ProviderOpenAI}, gemini, openai)

	_, err := g.Send(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, 1, gemini.calls)
}

func TestGateway_SendAllFail(t *testing.T) {
	gemini := &fakeProvider{kind: ProviderGemini, configured: true, err: errors.New("down")}
	g := newTestGateway(ProviderGemini, []ProviderKind{ProviderGemini}, gemini)

	_, err := g.Send(context.Background(), Request{})
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
	assert.Contains(t, err.Error(), "down")
}

func TestGateway_SendToBypassesFallback(t *testing.T) {
	gemini := &fakeProvider{kind: ProviderGemini, configured: true}
	ollama := &fakeProvider{kind: ProviderOllama, configured: true, err: errors.New("model not pulled")}
	g := newTestGateway(ProviderGemini, []ProviderKind{ProviderGemini, ProviderOllama}, gemini, ollama)

	_, err := g.SendTo(context.Background(), ProviderOllama, Request{})
	assert.Error(t, err)
	assert.Zero(t, gemini.calls)
}

func TestGateway_SendToUnconfigured(t *testing.T) {
	gemini := &fakeProvider{kind: ProviderGemini, configured: true}
	g := newTestGateway(ProviderGemini, []ProviderKind{ProviderGemini}, gemini)

	_, err := g.SendTo(context.Background(), ProviderAnthropic, Request{})
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
}
