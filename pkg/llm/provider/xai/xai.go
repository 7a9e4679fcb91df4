// Package xai builds streaming chat completion requests for xAI with live
// search enabled.
package xai

import (
	"context"
	"net/http"

	"github.com/openai/openai-go"

	"github.com/jessearmand/chatproxy/pkg/llm"
)

const (
	DefaultBaseURL = "https://api.x.ai/v1"
	DefaultModel   = "grok-3-latest"
)

// SearchParameters controls xAI live search.
type SearchParameters struct {
	Mode             string `json:"mode"`
	MaxSearchResults uint   `json:"max_search_results"`
	ReturnCitations  bool   `json:"return_citations"`
}

type chatRequest struct {
	Model            string                                   `json:"model"`
	Stream           bool                                     `json:"stream"`
	Messages         []openai.ChatCompletionMessageParamUnion `json:"messages"`
	SearchParameters SearchParameters                         `json:"search_parameters"`
}

// Provider implements provider.Provider for xAI.
type Provider struct {
	baseURL string
	model   string
	search  SearchParameters
	hint    string
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

func WithSearch(sp SearchParameters) Option {
	return func(p *Provider) {
		p.search = sp
	}
}

// WithHint sets the text appended to the question, typically the handles the
// search should focus on. It overrides any hint on the prompt.
func WithHint(hint string) Option {
	return func(p *Provider) {
		p.hint = hint
	}
}

func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL: DefaultBaseURL,
		model:   DefaultModel,
		search: SearchParameters{
			Mode:             "on",
			MaxSearchResults: 5,
			ReturnCitations:  true,
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "xai"
}

func (p *Provider) Label() string {
	return "xAI"
}

func (p *Provider) NewRequest(ctx context.Context, apiKey string, prompt llm.Prompt) (*http.Request, error) {
	if p.hint != "" {
		prompt.Hint = p.hint
	}

	body := chatRequest{
		Model:  p.model,
		Stream: true,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt.Search()),
		},
		SearchParameters: p.search,
	}

	return llm.NewStreamRequest(ctx, llm.JoinURL(p.baseURL, "chat/completions"), apiKey, body)
}

func (p *Provider) ParseStreamChunk(data []byte) (*llm.StreamChunk, error) {
	return llm.ParseChatCompletionChunk(data)
}
