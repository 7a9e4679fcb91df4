// Package credentials stores provider API keys in credentials.toml and
// resolves them for outbound requests.
package credentials

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jessearmand/chatproxy/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

// Provider names understood by the proxy.
const (
	OpenAI     = "openai"
	OpenRouter = "openrouter"
	XAI        = "xai"
)

// ErrUnsupportedProvider is returned when a key is stored for a provider the
// proxy never calls.
var ErrUnsupportedProvider = errors.New("unsupported provider")

var providerEnvVars = map[string]string{
	OpenAI:     "OPENAI_API_KEY",
	OpenRouter: "OPENROUTER_API_KEY",
	XAI:        "XAI_API_KEY",
}

// Manager reads and writes credentials.toml inside the settings directory.
type Manager struct {
	path string
}

// NewManager resolves credentials.toml under override, or under the
// default settings directory when override is empty.
func NewManager(override string) (*Manager, error) {
	path, err := dotdir.NewManager().File(override, credentialsFile)
	if err != nil {
		return nil, err
	}
	return &Manager{path: path}, nil
}

// Path is the credentials file location.
func (m *Manager) Path() string {
	return m.path
}

// Load reads the credentials file. A missing file yields empty credentials.
func (m *Manager) Load() (*Credentials, error) {
	creds := empty()

	_, err := toml.DecodeFile(m.path, creds)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return empty(), nil
	case err != nil:
		return nil, fmt.Errorf("parsing %s: %w", m.path, err)
	}

	if creds.Version > currentVersion {
		return nil, fmt.Errorf("unsupported credentials version %d (expected %d)", creds.Version, currentVersion)
	}
	if creds.Providers == nil {
		creds.Providers = make(map[string]ProviderCredential)
	}

	return creds, nil
}

// Save replaces the credentials file. The content goes to a 0600 temp file
// in the same directory first so a failed write never truncates stored keys.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".credentials-*.toml")
	if err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(creds); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// SetKey stores key for provider, replacing any previous key.
func (m *Manager) SetKey(provider, key string) error {
	provider = NormalizeProvider(provider)
	if !IsSupportedProvider(provider) {
		return fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key cannot be empty")
	}

	return m.update(func(creds *Credentials) {
		creds.Providers[provider] = ProviderCredential{APIKey: key}
	})
}

// GetKey returns the stored key for provider, or "" when none is stored.
func (m *Manager) GetKey(provider string) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}
	return creds.Key(NormalizeProvider(provider)), nil
}

// RemoveKey forgets provider's key. Removing an absent key is not an error.
func (m *Manager) RemoveKey(provider string) error {
	provider = NormalizeProvider(provider)
	return m.update(func(creds *Credentials) {
		delete(creds.Providers, provider)
	})
}

// ListProviders returns the sorted names of providers with a stored key.
func (m *Manager) ListProviders() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}

	return slices.Sorted(maps.Keys(creds.Providers)), nil
}

func (m *Manager) update(fn func(*Credentials)) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}
	creds.Version = currentVersion
	fn(creds)
	return m.Save(creds)
}

// NormalizeProvider folds a user supplied provider name to its canonical form.
func NormalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// EnvVarForProvider returns the key variable for provider, or "" when unknown.
func EnvVarForProvider(provider string) string {
	return providerEnvVars[provider]
}

// SupportedProviders lists the providers that take an API key.
func SupportedProviders() []string {
	return []string{OpenAI, OpenRouter, XAI}
}

func IsSupportedProvider(provider string) bool {
	_, ok := providerEnvVars[provider]
	return ok
}
