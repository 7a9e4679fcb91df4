package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/jessearmand/chatproxy/pkg/dotdir"
)

// legacyStrategyEnv is the variable the original deployment used to pick a
// provider strategy. It is honoured after CHATPROXY_STRATEGY_NAME.
const legacyStrategyEnv = "SEARCH_PROVIDER"

// InitViper creates and returns a configured *viper.Viper.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (CHATPROXY_SERVER_LISTEN, SEARCH_PROVIDER, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("CHATPROXY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("strategy.name", "CHATPROXY_STRATEGY_NAME", legacyStrategyEnv); err != nil {
		return nil, fmt.Errorf("binding strategy env: %w", err)
	}

	return v, nil
}

// FromViper materialises a Config from the layered viper values.
func FromViper(v *viper.Viper) *Config {
	citations := v.GetBool("xai.return_citations")
	cfg := &Config{
		Version: v.GetInt("version"),
		Server: ServerConfig{
			Listen: v.GetString("server.listen"),
			Path:   v.GetString("server.path"),
		},
		Strategy: StrategyConfig{
			Name:      v.GetString("strategy.name"),
			Separator: v.GetString("strategy.separator"),
		},
		Context: ContextConfig{
			Documents: v.GetStringSlice("context.documents"),
		},
		VectorStore: VectorStoreConfig{
			ConfigPath: v.GetString("vector_store.config_path"),
		},
		OpenAI: OpenAIConfig{
			BaseURL:           v.GetString("openai.base_url"),
			Model:             v.GetString("openai.model"),
			SearchContextSize: v.GetString("openai.search_context_size"),
		},
		OpenRouter: OpenRouterConfig{
			BaseURL:   v.GetString("openrouter.base_url"),
			Model:     v.GetString("openrouter.model"),
			SiteURL:   v.GetString("openrouter.site_url"),
			SiteTitle: v.GetString("openrouter.site_title"),
		},
		XAI: XAIConfig{
			BaseURL:          v.GetString("xai.base_url"),
			Model:            v.GetString("xai.model"),
			SearchMode:       v.GetString("xai.search_mode"),
			MaxSearchResults: v.GetUint("xai.max_search_results"),
			ReturnCitations:  &citations,
			Handle:           v.GetString("xai.handle"),
		},
	}

	applyDefaults(cfg)
	return cfg
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("server.listen", d.Server.Listen)
	v.SetDefault("server.path", d.Server.Path)

	v.SetDefault("strategy.name", d.Strategy.Name)
	v.SetDefault("strategy.separator", d.Strategy.Separator)

	v.SetDefault("context.documents", d.Context.Documents)

	v.SetDefault("vector_store.config_path", d.VectorStore.ConfigPath)

	v.SetDefault("openai.base_url", d.OpenAI.BaseURL)
	v.SetDefault("openai.model", d.OpenAI.Model)
	v.SetDefault("openai.search_context_size", d.OpenAI.SearchContextSize)

	v.SetDefault("openrouter.base_url", d.OpenRouter.BaseURL)
	v.SetDefault("openrouter.model", d.OpenRouter.Model)
	v.SetDefault("openrouter.site_url", d.OpenRouter.SiteURL)
	v.SetDefault("openrouter.site_title", d.OpenRouter.SiteTitle)

	v.SetDefault("xai.base_url", d.XAI.BaseURL)
	v.SetDefault("xai.model", d.XAI.Model)
	v.SetDefault("xai.search_mode", d.XAI.SearchMode)
	v.SetDefault("xai.max_search_results", d.XAI.MaxSearchResults)
	v.SetDefault("xai.return_citations", d.XAI.Citations())
	v.SetDefault("xai.handle", d.XAI.Handle)
}
