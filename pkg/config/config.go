// Package config loads, saves and layers the chatproxy configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jessearmand/chatproxy/pkg/dotdir"
)

const (
	configFile = "config.toml"

	// v0 is the first version of the config layout
	v0 = 0

	// CurrentV is the currently supported version, points to v0
	CurrentV = v0
)

type Configer struct {
	targetPath string
}

func NewConfiger(override string) (*Configer, error) {
	cfger := &Configer{}

	path, err := dotdir.NewManager().File(override, configFile)
	if err != nil {
		return nil, err
	}

	_, err = os.Stat(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfger.targetPath = path

	return cfger, nil
}

// ValidConfigKeys returns all supported configuration key names in the
// order they appear in config.toml.
func ValidConfigKeys() []string {
	ordered := []string{
		"server.listen",
		"server.path",
		"strategy.name",
		"strategy.separator",
		"context.documents",
		"vector_store.config_path",
		"openai.base_url",
		"openai.model",
		"openai.search_context_size",
		"openrouter.base_url",
		"openrouter.model",
		"openrouter.site_url",
		"openrouter.site_title",
		"xai.base_url",
		"xai.model",
		"xai.search_mode",
		"xai.max_search_results",
		"xai.return_citations",
		"xai.handle",
	}

	result := make([]string, 0, len(configKeys))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
		}
	}
	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}

func (c *Configer) GetTarget() string {
	return c.targetPath
}

// LoadConfig loads config.toml from the target directory. A missing file
// yields NewDefaultConfig(); fields set in the file override the defaults.
func (c *Configer) LoadConfig() (*Config, error) {
	if c.targetPath == "" {
		return NewDefaultConfig(), nil
	}

	data, err := os.ReadFile(c.targetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults fills zero-value fields in cfg with values from NewDefaultConfig().
func applyDefaults(cfg *Config) {
	d := NewDefaultConfig()

	fill := func(dst *string, def string) {
		if *dst == "" {
			*dst = def
		}
	}

	fill(&cfg.Server.Listen, d.Server.Listen)
	fill(&cfg.Server.Path, d.Server.Path)
	fill(&cfg.Strategy.Name, d.Strategy.Name)
	fill(&cfg.Strategy.Separator, d.Strategy.Separator)
	fill(&cfg.VectorStore.ConfigPath, d.VectorStore.ConfigPath)
	fill(&cfg.OpenAI.BaseURL, d.OpenAI.BaseURL)
	fill(&cfg.OpenAI.Model, d.OpenAI.Model)
	fill(&cfg.OpenAI.SearchContextSize, d.OpenAI.SearchContextSize)
	fill(&cfg.OpenRouter.BaseURL, d.OpenRouter.BaseURL)
	fill(&cfg.OpenRouter.Model, d.OpenRouter.Model)
	fill(&cfg.OpenRouter.SiteURL, d.OpenRouter.SiteURL)
	fill(&cfg.OpenRouter.SiteTitle, d.OpenRouter.SiteTitle)
	fill(&cfg.XAI.BaseURL, d.XAI.BaseURL)
	fill(&cfg.XAI.Model, d.XAI.Model)
	fill(&cfg.XAI.SearchMode, d.XAI.SearchMode)
	fill(&cfg.XAI.Handle, d.XAI.Handle)

	if len(cfg.Context.Documents) == 0 {
		cfg.Context.Documents = d.Context.Documents
	}
	if cfg.XAI.MaxSearchResults == 0 {
		cfg.XAI.MaxSearchResults = d.XAI.MaxSearchResults
	}
	if cfg.XAI.ReturnCitations == nil {
		cfg.XAI.ReturnCitations = d.XAI.ReturnCitations
	}
}

// SaveConfig persists the configuration to config.toml in the target directory.
func (c *Configer) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("cannot save nil config")
	}

	if c.targetPath == "" {
		return errors.New("cannot save empty target path")
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(c.targetPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// SetConfigValue loads the config, sets key to value and saves it.
func (c *Configer) SetConfigValue(key string, value string) error {
	info, ok := configKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return err
	}

	if err := info.set(cfg, value); err != nil {
		return err
	}

	return c.SaveConfig(cfg)
}

// GetConfigValue loads the config and returns the string form of key.
func (c *Configer) GetConfigValue(key string) (string, error) {
	info, ok := configKeys[key]
	if !ok {
		return "", fmt.Errorf("unknown config key: %q", key)
	}

	cfg, err := c.LoadConfig()
	if err != nil {
		return "", err
	}

	return info.get(cfg), nil
}

// ParseConfigTOML parses raw TOML bytes into a Config.
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}

	if cfg.Version != 0 && cfg.Version != CurrentV {
		return nil, fmt.Errorf("unsupported config version %d (expected %d)", cfg.Version, CurrentV)
	}

	return cfg, nil
}
