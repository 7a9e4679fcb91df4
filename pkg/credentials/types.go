package credentials

import "strings"

// Credentials is the on-disk layout of credentials.toml.
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential is one stored upstream key.
type ProviderCredential struct {
	APIKey string `toml:"api_key"`
}

func empty() *Credentials {
	return &Credentials{
		Version:   currentVersion,
		Providers: make(map[string]ProviderCredential),
	}
}

// Key returns the trimmed stored key for provider, or "".
func (c *Credentials) Key(provider string) string {
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.Providers[provider].APIKey)
}

// Has reports whether a non-blank key is stored for provider.
func (c *Credentials) Has(provider string) bool {
	return c.Key(provider) != ""
}
