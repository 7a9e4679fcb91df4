// Package openai builds streaming requests for the OpenAI Responses API with
// hosted web search, and optionally file search over a vector store.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jessearmand/chatproxy/pkg/llm"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4.1-mini"
)

// Provider implements provider.Provider for the Responses API.
type Provider struct {
	baseURL           string
	model             string
	searchContextSize string
	vectorStoreIDs    []string
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

// WithSearchContextSize sets how much web content the search tool pulls in
// ("low", "medium" or "high").
func WithSearchContextSize(size string) Option {
	return func(p *Provider) {
		p.searchContextSize = size
	}
}

// WithVectorStoreIDs attaches a file_search tool over the given stores.
func WithVectorStoreIDs(ids ...string) Option {
	return func(p *Provider) {
		p.vectorStoreIDs = append([]string(nil), ids...)
	}
}

func New(opts ...Option) *Provider {
	p := &Provider{
		baseURL:           DefaultBaseURL,
		model:             DefaultModel,
		searchContextSize: "medium",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "openai"
}

func (p *Provider) Label() string {
	return "OpenAI"
}

func (p *Provider) NewRequest(ctx context.Context, apiKey string, prompt llm.Prompt) (*http.Request, error) {
	body := responsesRequest{
		Model:  p.model,
		Stream: true,
		Input:  prompt.Grounded(),
		Tools: []tool{{
			Type:              toolWebSearch,
			SearchContextSize: p.searchContextSize,
		}},
	}

	if len(p.vectorStoreIDs) > 0 {
		body.Tools = append(body.Tools, tool{
			Type:           toolFileSearch,
			VectorStoreIDs: p.vectorStoreIDs,
		})
	}

	return llm.NewStreamRequest(ctx, llm.JoinURL(p.baseURL, "responses"), apiKey, body)
}

func (p *Provider) ParseStreamChunk(data []byte) (*llm.StreamChunk, error) {
	var ev streamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decoding responses event: %w", err)
	}

	switch ev.Type {
	case eventTextDelta:
		return &llm.StreamChunk{Text: ev.Delta}, nil
	case eventCompleted:
		return &llm.StreamChunk{Done: true}, nil
	default:
		return nil, nil
	}
}
