// Package secret keeps credentials such as the gateway bearer token out
// of configuration files.
package secret

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNoToken is returned when no credential is stored under the key.
var ErrNoToken = errors.New("secret: no token stored")

// SecretStore provides a pluggable interface for storing credentials.
// The default implementation uses the macOS Keychain.
type SecretStore interface {
	// Set stores a secret value under the given key.
	Set(key string, value []byte) error

	// Get retrieves the secret value for the given key.
	// Returns empty slice and nil error if key does not exist.
	Get(key string) ([]byte, error)

	// Delete removes the secret for the given key.
	Delete(key string) error
}

// TokenSource reads the bearer credential from a SecretStore on every
// request, so a rotated token is picked up without a restart.
type TokenSource struct {
	Store SecretStore
	Key   string
}

func (t TokenSource) Token(context.Context) (string, error) {
	v, err := t.Store.Get(t.Key)
	if err != nil {
		return "", fmt.Errorf("secret: read %s: %w", t.Key, err)
	}
	if len(v) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNoToken, t.Key)
	}
	return string(v), nil
}

// MemoryStore is a process-local SecretStore.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

func (m *MemoryStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.values[key]...), nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
