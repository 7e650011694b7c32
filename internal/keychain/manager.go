// Copyright (c) 2025 Sessionctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe persistent storage for the session token.
// It wraps the OS keychain/credential store (macOS Keychain, Windows Credential
// Manager, Secret Service, KWallet, pass) behind a small Get/Set/Delete surface,
// with an encrypted-file fallback for headless machines and an in-memory ring
// for tests and throwaway sessions.
//
// A Manager satisfies session.Store; the session manager never talks to the
// keyring library directly.
package keychain

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/99designs/keyring"
	"github.com/rs/zerolog"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "sessionctl"

// Kind selects the storage backend.
type Kind string

const (
	// KindKeyring uses the native OS credential store.
	KindKeyring Kind = "keyring"
	// KindFile uses the keyring library's encrypted file backend.
	KindFile Kind = "file"
	// KindMemory keeps secrets in process memory only.
	KindMemory Kind = "memory"
)

// Options configures Open.
type Options struct {
	Kind Kind
	// FileDir is where the file backend writes. Required for KindFile.
	FileDir string
	// Passphrase unlocks the file backend. Falls back to
	// SESSIONCTL_FILE_PASSPHRASE when empty.
	Passphrase string
	Logger     zerolog.Logger
}

// keychainBackend defines the interface for keychain operations.
type keychainBackend interface {
	Set(key, value string) error
	// Get reports ok=false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Delete succeeds when the key is already absent.
	Delete(key string) error
}

// Manager provides centralized, thread-safe operations for the token store.
type Manager struct {
	mu      sync.RWMutex
	backend keychainBackend
	kind    Kind
	log     zerolog.Logger
}

// Open creates a Manager for the requested backend.
func Open(opts Options) (*Manager, error) {
	log := opts.Logger.With().Str("component", "keychain").Logger()
	kind := opts.Kind
	if kind == "" {
		kind = KindKeyring
	}

	switch kind {
	case KindMemory:
		return NewWithRing(keyring.NewArrayKeyring(nil), log), nil

	case KindFile:
		if opts.FileDir == "" {
			return nil, errors.New("file storage requires a directory")
		}
		pass := opts.Passphrase
		if pass == "" {
			pass = os.Getenv("SESSIONCTL_FILE_PASSPHRASE")
		}
		if pass == "" {
			return nil, errors.New("file storage requires SESSIONCTL_FILE_PASSPHRASE")
		}
		ring, err := keyring.Open(keyring.Config{
			ServiceName:      ServiceName,
			AllowedBackends:  []keyring.BackendType{keyring.FileBackend},
			FileDir:          opts.FileDir,
			FilePasswordFunc: keyring.FixedStringPrompt(pass),
		})
		if err != nil {
			return nil, fmt.Errorf("open file keyring: %w", err)
		}
		m := NewWithRing(ring, log)
		m.kind = KindFile
		return m, nil

	case KindKeyring:
		// Try native security backend first on macOS
		if runtime.GOOS == "darwin" {
			if be, err := newSecurityBackend(log); err == nil {
				return &Manager{backend: be, kind: KindKeyring, log: log}, nil
			}
		}
		ring, err := openRing()
		if err != nil {
			return nil, err
		}
		m := NewWithRing(ring, log)
		m.kind = KindKeyring
		return m, nil
	}

	return nil, fmt.Errorf("unknown storage kind %q", kind)
}

// NewWithRing wraps an already opened keyring.
func NewWithRing(ring keyring.Keyring, log zerolog.Logger) *Manager {
	return &Manager{
		backend: ringBackend{ring: ring},
		kind:    KindMemory,
		log:     log,
	}
}

// openRing opens the OS keyring using native platform backends only.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	}

	cfg := keyring.Config{
		ServiceName:              ServiceName,
		AllowedBackends:          allowedBackends,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		KeychainTrustApplication: true,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("OS keyring unavailable (set storage to \"file\" or \"memory\"): %w", err)
	}
	return ring, nil
}

// Kind reports which backend the manager was opened with.
func (m *Manager) Kind() Kind { return m.kind }

// Get returns the value stored under key. ok is false when nothing is stored.
// This method is thread-safe.
func (m *Manager) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok, err := m.backend.Get(key)
	if err != nil {
		m.log.Debug().Err(err).Str("key", key).Msg("get failed")
		return "", false, err
	}
	return v, ok, nil
}

// Set stores value under key, replacing any previous value.
// This method is thread-safe.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Set(key, value); err != nil {
		m.log.Debug().Err(err).Str("key", key).Msg("set failed")
		return err
	}
	m.log.Debug().Str("key", key).Int("len", len(value)).Msg("stored")
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
// This method is thread-safe.
func (m *Manager) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.backend.Delete(key); err != nil {
		m.log.Debug().Err(err).Str("key", key).Msg("delete failed")
		return err
	}
	m.log.Debug().Str("key", key).Msg("deleted")
	return nil
}

// ringBackend adapts keyring.Keyring to keychainBackend.
type ringBackend struct {
	ring keyring.Keyring
}

func (r ringBackend) Set(key, value string) error {
	return r.ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: ServiceName + " " + key})
}

func (r ringBackend) Get(key string) (string, bool, error) {
	it, err := r.ring.Get(key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	if len(it.Data) == 0 {
		return "", false, nil
	}
	return string(it.Data), true, nil
}

func (r ringBackend) Delete(key string) error {
	err := r.ring.Remove(key)
	if err == nil || errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
