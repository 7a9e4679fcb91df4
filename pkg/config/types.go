package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config is the persistent chatproxy configuration stored as config.toml in
// the .chatproxy/ directory.
type Config struct {
	Version     int               `toml:"version"`
	Server      ServerConfig      `toml:"server"`
	Strategy    StrategyConfig    `toml:"strategy"`
	Context     ContextConfig     `toml:"context"`
	VectorStore VectorStoreConfig `toml:"vector_store"`
	OpenAI      OpenAIConfig      `toml:"openai"`
	OpenRouter  OpenRouterConfig  `toml:"openrouter"`
	XAI         XAIConfig         `toml:"xai"`
}

// ServerConfig holds the inbound HTTP settings.
type ServerConfig struct {
	Listen string `toml:"listen,omitempty"`
	Path   string `toml:"path,omitempty"`
}

// StrategyConfig selects the provider strategy and the marker written
// between chained answers.
type StrategyConfig struct {
	Name      string `toml:"name,omitempty"`
	Separator string `toml:"separator,omitempty"`
}

// ContextConfig lists the documents concatenated into the grounding context.
type ContextConfig struct {
	Documents []string `toml:"documents,omitempty"`
}

// VectorStoreConfig points at the JSON file written by the file search setup.
type VectorStoreConfig struct {
	ConfigPath string `toml:"config_path,omitempty"`
}

// OpenAIConfig configures the Responses API provider with web search.
type OpenAIConfig struct {
	BaseURL           string `toml:"base_url,omitempty"`
	Model             string `toml:"model,omitempty"`
	SearchContextSize string `toml:"search_context_size,omitempty"`
}

// OpenRouterConfig configures the general purpose chat provider.
type OpenRouterConfig struct {
	BaseURL   string `toml:"base_url,omitempty"`
	Model     string `toml:"model,omitempty"`
	SiteURL   string `toml:"site_url,omitempty"`
	SiteTitle string `toml:"site_title,omitempty"`
}

// XAIConfig configures the live search provider.
type XAIConfig struct {
	BaseURL          string `toml:"base_url,omitempty"`
	Model            string `toml:"model,omitempty"`
	SearchMode       string `toml:"search_mode,omitempty"`
	MaxSearchResults uint   `toml:"max_search_results,omitempty"`
	ReturnCitations  *bool  `toml:"return_citations,omitempty"`
	Handle           string `toml:"handle,omitempty"`
}

// Citations reports whether citations are requested, defaulting to true.
func (x XAIConfig) Citations() bool {
	if x.ReturnCitations == nil {
		return true
	}
	return *x.ReturnCitations
}

// configKeyInfo maps a dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func stringKey(field func(c *Config) *string) configKeyInfo {
	return configKeyInfo{
		get: func(c *Config) string { return *field(c) },
		set: func(c *Config, v string) error { *field(c) = v; return nil },
	}
}

// configKeys is the authoritative map of all supported config keys.
var configKeys = map[string]configKeyInfo{
	"server.listen":              stringKey(func(c *Config) *string { return &c.Server.Listen }),
	"server.path":                stringKey(func(c *Config) *string { return &c.Server.Path }),
	"strategy.name":              stringKey(func(c *Config) *string { return &c.Strategy.Name }),
	"strategy.separator":         stringKey(func(c *Config) *string { return &c.Strategy.Separator }),
	"vector_store.config_path":   stringKey(func(c *Config) *string { return &c.VectorStore.ConfigPath }),
	"openai.base_url":            stringKey(func(c *Config) *string { return &c.OpenAI.BaseURL }),
	"openai.model":               stringKey(func(c *Config) *string { return &c.OpenAI.Model }),
	"openai.search_context_size": stringKey(func(c *Config) *string { return &c.OpenAI.SearchContextSize }),
	"openrouter.base_url":        stringKey(func(c *Config) *string { return &c.OpenRouter.BaseURL }),
	"openrouter.model":           stringKey(func(c *Config) *string { return &c.OpenRouter.Model }),
	"openrouter.site_url":        stringKey(func(c *Config) *string { return &c.OpenRouter.SiteURL }),
	"openrouter.site_title":      stringKey(func(c *Config) *string { return &c.OpenRouter.SiteTitle }),
	"xai.base_url":               stringKey(func(c *Config) *string { return &c.XAI.BaseURL }),
	"xai.model":                  stringKey(func(c *Config) *string { return &c.XAI.Model }),
	"xai.search_mode":            stringKey(func(c *Config) *string { return &c.XAI.SearchMode }),
	"xai.handle":                 stringKey(func(c *Config) *string { return &c.XAI.Handle }),
	"context.documents": {
		get: func(c *Config) string { return strings.Join(c.Context.Documents, ",") },
		set: func(c *Config, v string) error {
			var docs []string
			for _, d := range strings.Split(v, ",") {
				if d = strings.TrimSpace(d); d != "" {
					docs = append(docs, d)
				}
			}
			c.Context.Documents = docs
			return nil
		},
	},
	"xai.max_search_results": {
		get: func(c *Config) string {
			if c.XAI.MaxSearchResults == 0 {
				return ""
			}
			return strconv.FormatUint(uint64(c.XAI.MaxSearchResults), 10)
		},
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value for xai.max_search_results: %w", err)
			}
			c.XAI.MaxSearchResults = uint(n)
			return nil
		},
	},
	"xai.return_citations": {
		get: func(c *Config) string { return strconv.FormatBool(c.XAI.Citations()) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for xai.return_citations: %w", err)
			}
			c.XAI.ReturnCitations = &b
			return nil
		},
	},
}
