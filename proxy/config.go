package proxy

import (
	"net/http"

	"github.com/jessearmand/chatproxy/pkg/config"
	"github.com/jessearmand/chatproxy/pkg/llm/provider"
)

// Config is the proxy server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8080")
	ListenAddr string

	// Path is the route the chat endpoint is mounted on (e.g., "/api/chat-proxy")
	Path string

	// Strategy names the provider strategy. Unknown values fall back to
	// DefaultStrategy.
	Strategy string

	// Separator is the marker written between chained answers.
	Separator string

	// Documents are the files concatenated into the grounding context.
	Documents []string

	// Providers holds the per provider settings (base URLs, models, search
	// options). Defaults apply when nil.
	Providers *config.Config

	// VectorStoreIDs enable OpenAI file search when non-empty.
	VectorStoreIDs []string

	// Keys resolves provider API keys at request time.
	Keys provider.KeyResolver

	// HTTPClient is used for upstream calls. Optional.
	HTTPClient *http.Client

	// ReadSize bounds a single read from a non event-stream upstream body.
	// Optional.
	ReadSize int
}

// ConfigFrom maps the persistent configuration onto a proxy Config.
func ConfigFrom(cfg *config.Config, keys provider.KeyResolver, vectorStoreIDs []string) Config {
	return Config{
		ListenAddr:     cfg.Server.Listen,
		Path:           cfg.Server.Path,
		Strategy:       cfg.Strategy.Name,
		Separator:      cfg.Strategy.Separator,
		Documents:      cfg.Context.Documents,
		Providers:      cfg,
		VectorStoreIDs: vectorStoreIDs,
		Keys:           keys,
	}
}
