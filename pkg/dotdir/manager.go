// Package dotdir resolves the .chatproxy/ directory that holds config.toml
// and credentials.toml.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// DirName is the name of the chatproxy settings directory.
const DirName = ".chatproxy"

// Manager locates the settings directory. The lookup functions are swappable
// so tests never touch the real home directory.
type Manager struct {
	workDir func() (string, error)
	homeDir func() (string, error)
}

// Option customises a Manager.
type Option func(*Manager)

// WithWorkDir replaces os.Getwd.
func WithWorkDir(fn func() (string, error)) Option {
	return func(m *Manager) { m.workDir = fn }
}

// WithHomeDir replaces os.UserHomeDir.
func WithHomeDir(fn func() (string, error)) Option {
	return func(m *Manager) { m.homeDir = fn }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		workDir: os.Getwd,
		homeDir: os.UserHomeDir,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Target returns the absolute path of the settings directory, creating it
// when missing. An explicit override wins, then ./.chatproxy/ when it
// already exists, then ~/.chatproxy/.
func (m *Manager) Target(override string) (string, error) {
	dir, err := m.locate(override)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating settings directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// File returns the path of name inside the resolved settings directory.
func (m *Manager) File(override, name string) (string, error) {
	dir, err := m.Target(override)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

func (m *Manager) locate(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if cwd, err := m.workDir(); err == nil {
		local := filepath.Join(cwd, DirName)
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			return local, nil
		}
	}

	home, err := m.homeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}
