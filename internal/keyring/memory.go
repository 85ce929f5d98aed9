// ABOUTME: In-memory credential Store for tests and ephemeral sessions
// ABOUTME: Supports fault injection to exercise the absent-on-error contract

package keyring

import (
	"context"
	"log/slog"
	"sync"
)

// Memory is an in-memory Store. The zero value is not usable; call NewMemory.
type Memory struct {
	mu    sync.Mutex
	pair  map[Kind]string
	fault error // when set, Get reports absent and SetPair fails

	logger *slog.Logger
}

// NewMemory returns an empty in-memory credential store.
func NewMemory() *Memory {
	return &Memory{
		pair:   make(map[Kind]string),
		logger: slog.Default().With("component", "keyring"),
	}
}

// Get returns the stored credential, or absent when missing or faulted.
func (m *Memory) Get(_ context.Context, kind Kind) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fault != nil {
		m.logger.Warn("keyring read failed", "kind", kind, "error", m.fault)
		return "", false
	}
	v, ok := m.pair[kind]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SetPair stores both credentials together.
func (m *Memory) SetPair(_ context.Context, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fault != nil {
		return m.fault
	}
	m.pair[KindAccess] = access
	m.pair[KindRefresh] = refresh
	return nil
}

// Clear removes both credentials.
func (m *Memory) Clear(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pair, KindAccess)
	delete(m.pair, KindRefresh)
}

// SetFault makes subsequent operations fail with err; pass nil to heal.
func (m *Memory) SetFault(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fault = err
}
