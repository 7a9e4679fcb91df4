// Package provider opens streaming completions against the upstream chat
// providers and reports the result as a Session.
package provider

import (
	"context"
	"net/http"

	"github.com/jessearmand/chatproxy/pkg/llm"
)

// Provider builds requests for one upstream chat completion API.
type Provider interface {
	// Name returns the canonical provider name, which is also the key its
	// credential is stored under (e.g. "openai", "openrouter", "xai").
	Name() string

	// Label is the human readable name used in error messages (e.g. "OpenAI").
	Label() string

	// NewRequest builds exactly one streaming POST for prompt.
	NewRequest(ctx context.Context, apiKey string, prompt llm.Prompt) (*http.Request, error)

	// ParseStreamChunk decodes the data of one stream event.
	// Returns (nil, nil) if the event carries nothing of interest.
	ParseStreamChunk(data []byte) (*llm.StreamChunk, error)
}
