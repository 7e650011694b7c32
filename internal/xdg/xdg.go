// Package xdg resolves the XDG base directories sessionctl writes to.
// Directories are created on first use with 0700 permissions because they
// hold the config file and, with file storage, the encrypted token.
package xdg

import (
	"os"
	"path/filepath"
)

const appDir = "sessionctl"

// ConfigDir returns $XDG_CONFIG_HOME/sessionctl, or ~/.config/sessionctl.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns $XDG_STATE_HOME/sessionctl, or ~/.local/state/sessionctl.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func ensure(env, homeRel string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeRel)
	}
	dir := filepath.Join(base, appDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}
