package ownership

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotExist
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of entries.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// MemoryDevices hands out one MemoryStore per device id.  Entries live as
// long as the process.
type MemoryDevices struct {
	mu     sync.Mutex
	stores map[string]*MemoryStore
}

// NewMemoryDevices returns an empty device registry.
func NewMemoryDevices() *MemoryDevices {
	return &MemoryDevices{stores: make(map[string]*MemoryStore)}
}

// For returns the store of deviceID, creating it on first use.
func (d *MemoryDevices) For(deviceID string) Store {
	d.mu.Lock()
	defer d.mu.Unlock()
	s, ok := d.stores[deviceID]
	if !ok {
		s = NewMemoryStore()
		d.stores[deviceID] = s
	}
	return s
}
