// Package openrouter builds streaming chat completion requests for OpenRouter.
package openrouter

import (
	"context"
	"net/http"

	"github.com/openai/openai-go"

	"github.com/jessearmand/chatproxy/pkg/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "openai/gpt-4.1-mini"
)

type refererKey struct{}

// WithReferer returns a context carrying the inbound page URL, sent upstream
// as HTTP-Referer for attribution.
func WithReferer(ctx context.Context, referer string) context.Context {
	return context.WithValue(ctx, refererKey{}, referer)
}

func refererFrom(ctx context.Context) string {
	r, _ := ctx.Value(refererKey{}).(string)
	return r
}

type chatRequest struct {
	Model    string                                   `json:"model"`
	Stream   bool                                     `json:"stream"`
	Messages []openai.ChatCompletionMessageParamUnion `json:"messages"`
}

// Provider implements provider.Provider for OpenRouter.
type Provider struct {
	baseURL   string
	model     string
	siteURL   string
	siteTitle string
}

// Option configures a Provider.
type Option func(*Provider)

func WithBaseURL(u string) Option {
	return func(p *Provider) {
		if u != "" {
			p.baseURL = u
		}
	}
}

func WithModel(m string) Option {
	return func(p *Provider) {
		if m != "" {
			p.model = m
		}
	}
}

// WithSite sets the attribution sent when the inbound request has no referer.
func WithSite(siteURL, title string) Option {
	return func(p *Provider) {
		p.siteURL = siteURL
		p.siteTitle = title
	}
}

func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "openrouter"
}

func (p *Provider) Label() string {
	return "OpenRouter"
}

func (p *Provider) NewRequest(ctx context.Context, apiKey string, prompt llm.Prompt) (*http.Request, error) {
	body := chatRequest{
		Model:  p.model,
		Stream: true,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt.Grounded()),
		},
	}

	req, err := llm.NewStreamRequest(ctx, llm.JoinURL(p.baseURL, "chat/completions"), apiKey, body)
	if err != nil {
		return nil, err
	}

	referer := refererFrom(ctx)
	if referer == "" {
		referer = p.siteURL
	}
	if referer != "" {
		req.Header.Set("HTTP-Referer", referer)
	}
	if p.siteTitle != "" {
		req.Header.Set("X-Title", p.siteTitle)
	}

	return req, nil
}

func (p *Provider) ParseStreamChunk(data []byte) (*llm.StreamChunk, error) {
	return llm.ParseChatCompletionChunk(data)
}
