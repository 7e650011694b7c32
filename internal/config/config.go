// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the session token goes to the keychain.
//
// Values are layered: defaults, then config.json, then an optional .env file
// in the working directory, then SESSIONCTL_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sessionctl/cli/internal/xdg"

	"github.com/joho/godotenv"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	APIURL    string       `json:"api_url"`
	LogLevel  string       `json:"log_level"`
	LogFormat string       `json:"log_format"`
	Storage   string       `json:"storage"`
	Routes    RoutesConfig `json:"routes"`
}

// RoutesConfig names the navigation targets.
type RoutesConfig struct {
	Home  string `json:"home"`
	Login string `json:"login"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:    "http://localhost:8000",
		LogLevel:  "warn",
		LogFormat: "console",
		Storage:   "keyring",
		Routes:    RoutesConfig{Home: "/", Login: "/login"},
	}
}

// Keys lists the settable keys for `config set`.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var setters = map[string]func(*Config, string) error{
	"api_url": func(c *Config, v string) error {
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("api_url must start with http:// or https://")
		}
		c.APIURL = strings.TrimRight(v, "/")
		return nil
	},
	"log_level":  func(c *Config, v string) error { c.LogLevel = v; return nil },
	"log_format": func(c *Config, v string) error { c.LogFormat = v; return nil },
	"storage": func(c *Config, v string) error {
		switch v {
		case "keyring", "file", "memory":
			c.Storage = v
			return nil
		}
		return fmt.Errorf("storage must be keyring, file or memory")
	},
	"routes.home":  func(c *Config, v string) error { c.Routes.Home = v; return nil },
	"routes.login": func(c *Config, v string) error { c.Routes.Login = v; return nil },
}

// Set assigns a single key.
func (c *Config) Set(key, value string) error {
	fn, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	return fn(c, strings.TrimSpace(value))
}

// Get returns the value of a single key.
func (c Config) Get(key string) (string, bool) {
	switch key {
	case "api_url":
		return c.APIURL, true
	case "log_level":
		return c.LogLevel, true
	case "log_format":
		return c.LogFormat, true
	case "storage":
		return c.Storage, true
	case "routes.home":
		return c.Routes.Home, true
	case "routes.login":
		return c.Routes.Login, true
	}
	return "", false
}

// envKeys maps environment variables to config keys.
var envKeys = map[string]string{
	"SESSIONCTL_API_URL":    "api_url",
	"SESSIONCTL_LOG_LEVEL":  "log_level",
	"SESSIONCTL_LOG_FORMAT": "log_format",
	"SESSIONCTL_STORAGE":    "storage",
}

// ApplyEnv overrides fields from SESSIONCTL_* variables.
func (c *Config) ApplyEnv() error {
	for env, key := range envKeys {
		if v, ok := os.LookupEnv(env); ok && v != "" {
			if err := c.Set(key, v); err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
		}
	}
	return nil
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Path returns the config file location.
func Path() (string, error) { return path() }

// Load reads configuration; missing file returns defaults. Environment
// overrides are applied on top.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	// .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, fmt.Errorf("read .env: %w", err)
	}
	if err := c.ApplyEnv(); err != nil {
		return c, err
	}
	return c, nil
}

// LoadFile reads config.json without applying the environment.
func LoadFile() (Config, error) {
	c := Defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", p, err)
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
