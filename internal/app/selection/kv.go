// Package selection owns the durably persisted trip selection and view tag.
// It is the single writer of both keys; everything else reads through it.
package selection

import "sync"

// KV is the synchronous durable key-value store backing the selection state.
// Implementations must tolerate best-effort semantics: a failed write is
// logged by the implementation and the in-memory mirror stays authoritative
// for the rest of the process lifetime.
type KV interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryKV is a mutex-guarded map implementation, used in tests and as the
// degraded-mode fallback when no database is configured.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryKV) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

func (m *MemoryKV) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}
