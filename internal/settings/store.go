// Package settings persists user-visible settings and keeps multiple bound
// controls consistent with the engine.
package settings

import (
	"strconv"
	"sync"
	"time"
)

// Store is the typed key/value persistence contract. Getters return the
// supplied default on any miss or failure; setters are best-effort. A
// failing backend must never block startup or shutdown.
type Store interface {
	GetString(key, def string) string
	GetBool(key string, def bool) bool
	GetInt(key string, def int) int
	GetFloat(key string, def float64) float64

	SetString(key, value string) error
	SetBool(key string, value bool) error
	SetInt(key string, value int) error
	SetFloat(key string, value float64) error

	RecordFault(component, message string)
	Flush() error
	Close() error
}

// MemoryStore is the in-memory fallback used when the database cannot be
// opened, and by tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
	faults []string
	writes int
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) GetString(key, def string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		return v
	}
	return def
}

func (m *MemoryStore) GetBool(key string, def bool) bool {
	raw := m.GetString(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func (m *MemoryStore) GetInt(key string, def int) int {
	raw := m.GetString(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func (m *MemoryStore) GetFloat(key string, def float64) float64 {
	raw := m.GetString(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func (m *MemoryStore) SetString(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

func (m *MemoryStore) SetBool(key string, value bool) error {
	return m.SetString(key, strconv.FormatBool(value))
}

func (m *MemoryStore) SetInt(key string, value int) error {
	return m.SetString(key, strconv.Itoa(value))
}

func (m *MemoryStore) SetFloat(key string, value float64) error {
	return m.SetString(key, strconv.FormatFloat(value, 'f', -1, 64))
}

func (m *MemoryStore) RecordFault(component, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults = append(m.faults, time.Now().Format(time.RFC3339)+" "+component+": "+message)
}

func (m *MemoryStore) Flush() error { return nil }
func (m *MemoryStore) Close() error { return nil }

// Writes reports how many set calls happened. Used by tests to assert the
// synchronizer's reentrancy guard prevents write storms.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
