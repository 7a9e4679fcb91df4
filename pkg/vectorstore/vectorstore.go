// Package vectorstore reads the file search configuration produced when the
// site's posts are uploaded to an OpenAI vector store.
package vectorstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoStore is returned when the configuration file exists but names no store.
var ErrNoStore = errors.New("vector store config has no vector_store_id")

// Config mirrors the JSON written by the file search setup script.
type Config struct {
	ID   string `json:"vector_store_id"`
	Name string `json:"name"`
}

// Load reads and validates the configuration at path. A missing file is
// reported with an error wrapping os.ErrNotExist so callers can treat it as
// "file search disabled".
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vector store config: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing vector store config %s: %w", path, err)
	}

	cfg.ID = strings.TrimSpace(cfg.ID)
	if cfg.ID == "" {
		return nil, ErrNoStore
	}

	return cfg, nil
}

// IDs returns the store ids to attach to a file_search tool. A nil Config
// yields no ids.
func (c *Config) IDs() []string {
	if c == nil || c.ID == "" {
		return nil
	}
	return []string{c.ID}
}
