package config

const (
	defaultListen = ":8080"

	// DefaultPath is the route the chat endpoint is mounted on.
	DefaultPath = "/api/chat-proxy"

	defaultStrategy = "single-search"

	// DefaultSeparator is written between the answers of a chained strategy.
	DefaultSeparator = "<br><hr><br>"

	defaultVectorStoreConfig = "vector_store/config.json"

	defaultOpenAIBaseURL      = "https://api.openai.com/v1"
	defaultOpenAIModel        = "gpt-4.1-mini"
	defaultSearchContextSize  = "medium"
	defaultOpenRouterBaseURL  = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel    = "openai/gpt-4.1-mini"
	defaultOpenRouterSiteURL  = "https://jessearmand.com"
	defaultOpenRouterTitle    = "Ruminations"
	defaultXAIBaseURL         = "https://api.x.ai/v1"
	defaultXAIModel           = "grok-3-latest"
	defaultXAISearchMode      = "on"
	defaultXAIMaxSearchResult = 5
	defaultXAIHandle          = "@jessearmand on X and github"
)

// defaultDocuments are the Zola pages that make up the résumé.
var defaultDocuments = []string{
	"content/pages/about.md",
	"content/pages/summary.md",
}

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	citations := true
	return &Config{
		Version: CurrentV,
		Server: ServerConfig{
			Listen: defaultListen,
			Path:   DefaultPath,
		},
		Strategy: StrategyConfig{
			Name:      defaultStrategy,
			Separator: DefaultSeparator,
		},
		Context: ContextConfig{
			Documents: append([]string(nil), defaultDocuments...),
		},
		VectorStore: VectorStoreConfig{
			ConfigPath: defaultVectorStoreConfig,
		},
		OpenAI: OpenAIConfig{
			BaseURL:           defaultOpenAIBaseURL,
			Model:             defaultOpenAIModel,
			SearchContextSize: defaultSearchContextSize,
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:   defaultOpenRouterBaseURL,
			Model:     defaultOpenRouterModel,
			SiteURL:   defaultOpenRouterSiteURL,
			SiteTitle: defaultOpenRouterTitle,
		},
		XAI: XAIConfig{
			BaseURL:          defaultXAIBaseURL,
			Model:            defaultXAIModel,
			SearchMode:       defaultXAISearchMode,
			MaxSearchResults: defaultXAIMaxSearchResult,
			ReturnCitations:  &citations,
			Handle:           defaultXAIHandle,
		},
	}
}
