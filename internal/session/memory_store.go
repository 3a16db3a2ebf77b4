package session

import (
	"context"
	"sync"
)

type memoryStore struct {
	data []byte
	mu   sync.Mutex
}

// NewMemoryStore returns a Store that keeps the Session in memory. The Session
// is held in its serialized form so that it behaves exactly like durable
// storage.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (m *memoryStore) Read(context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.read()
}

func (m *memoryStore) Write(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.write(s)
}

func (m *memoryStore) Update(_ context.Context, patch Patch) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return update(m.read, m.write, patch)
}

func (m *memoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}

func (m *memoryStore) read() (*Session, error) {
	if m.data == nil {
		return nil, nil
	}
	return decode(m.data, "memory"), nil
}

func (m *memoryStore) write(s Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	m.data = data
	return nil
}
