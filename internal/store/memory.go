// internal/store/memory.go
//
// In-memory implementations of Storage and Backend.
// Used for tests and when durability is not required; state is lost when the
// process restarts.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/pairs/internal/game"
)

// Memory is a single-slot Storage.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory constructs an empty slot.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Get(ctx context.Context) (*game.State, error) {
	m.mu.Lock()
	data := m.data
	m.mu.Unlock()
	if data == nil {
		return nil, ErrNotFound
	}
	return decodeOrMiss(data, "memory")
}

func (m *Memory) Set(ctx context.Context, s *game.State) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// MemoryBackend is a map-based Backend.
// Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
type MemoryBackend struct {
	mu    sync.RWMutex
	slots map[string][]byte // keyed by session id
}

// NewMemoryBackend constructs an empty backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{slots: make(map[string][]byte)}
}

func (m *MemoryBackend) Load(ctx context.Context, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.slots[id]; ok {
		return b, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryBackend) Save(ctx context.Context, id string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[id] = cp
	return nil
}
