package provider

import (
	"fmt"

	"github.com/jessearmand/chatproxy/pkg/config"
	"github.com/jessearmand/chatproxy/pkg/llm/provider/openai"
	"github.com/jessearmand/chatproxy/pkg/llm/provider/openrouter"
	"github.com/jessearmand/chatproxy/pkg/llm/provider/xai"
)

// Supported provider type constants
const (
	OpenAI     = "openai"
	OpenRouter = "openrouter"
	XAI        = "xai"
)

// SupportedProviders returns the list of all supported provider type names.
func SupportedProviders() []string {
	return []string{OpenAI, OpenRouter, XAI}
}

// New creates the Provider for providerType from cfg. vectorStoreIDs feed the
// OpenAI file search tool and are ignored by the other providers.
func New(providerType string, cfg *config.Config, vectorStoreIDs []string) (Provider, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	switch providerType {
	case OpenAI:
		return openai.New(
			openai.WithBaseURL(cfg.OpenAI.BaseURL),
			openai.WithModel(cfg.OpenAI.Model),
			openai.WithSearchContextSize(cfg.OpenAI.SearchContextSize),
			openai.WithVectorStoreIDs(vectorStoreIDs...),
		), nil
	case OpenRouter:
		return openrouter.New(
			openrouter.WithBaseURL(cfg.OpenRouter.BaseURL),
			openrouter.WithModel(cfg.OpenRouter.Model),
			openrouter.WithSite(cfg.OpenRouter.SiteURL, cfg.OpenRouter.SiteTitle),
		), nil
	case XAI:
		return xai.New(
			xai.WithBaseURL(cfg.XAI.BaseURL),
			xai.WithModel(cfg.XAI.Model),
			xai.WithSearch(xai.SearchParameters{
				Mode:             cfg.XAI.SearchMode,
				MaxSearchResults: cfg.XAI.MaxSearchResults,
				ReturnCitations:  cfg.XAI.Citations(),
			}),
			xai.WithHint(cfg.XAI.Handle),
		), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %q (supported: %v)", providerType, SupportedProviders())
	}
}
