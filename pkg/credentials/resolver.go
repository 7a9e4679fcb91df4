package credentials

import (
	"os"
	"strings"
)

// Resolver looks up provider keys for outbound requests. The environment is
// consulted on every call so a key exported after startup is picked up; the
// stored credentials are a snapshot taken when the resolver was built.
type Resolver struct {
	stored map[string]string
	getenv func(string) string
}

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithGetenv replaces os.Getenv, mostly for tests.
func WithGetenv(fn func(string) string) ResolverOption {
	return func(r *Resolver) {
		r.getenv = fn
	}
}

// NewResolver builds a Resolver over a loaded credentials snapshot. creds may be nil.
func NewResolver(creds *Credentials, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		stored: make(map[string]string),
		getenv: os.Getenv,
	}

	if creds != nil {
		for name := range creds.Providers {
			if creds.Has(name) {
				r.stored[name] = creds.Key(name)
			}
		}
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Key returns the API key for provider and whether one was found. A
// non-empty environment variable wins over the stored key.
func (r *Resolver) Key(provider string) (string, bool) {
	if env := EnvVarForProvider(provider); env != "" {
		if v := strings.TrimSpace(r.getenv(env)); v != "" {
			return v, true
		}
	}

	key, ok := r.stored[provider]
	return key, ok
}
