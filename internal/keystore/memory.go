package keystore

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory key store backed by sync.RWMutex.
type MemoryStore struct {
	mu   sync.RWMutex
	keys map[string]*KeyEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys: make(map[string]*KeyEntry),
	}
}

func (m *MemoryStore) Put(entry *KeyEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.keys[entry.ID]; exists {
		return fmt.Errorf("%w: %s", ErrKeyExists, entry.ID)
	}
	m.keys[entry.ID] = entry
	return nil
}

func (m *MemoryStore) Get(id string) (*KeyEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.keys[id]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return entry, nil
}

// List returns entries ordered by ID. A zero filter matches every status.
func (m *MemoryStore) List(filter KeyStatus) ([]*KeyEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*KeyEntry
	for _, entry := range m.keys {
		if filter == 0 || entry.Status == filter {
			result = append(result, entry)
		}
	}
	slices.SortFunc(result, func(a, b *KeyEntry) int { return strings.Compare(a.ID, b.ID) })
	return result, nil
}

func (m *MemoryStore) UpdateStatus(id string, status KeyStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.keys[id]
	if !ok {
		return ErrKeyNotFound
	}
	entry.Status = status
	if status == StatusRotated {
		entry.RotatedAt = time.Now().UTC()
	}
	return nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.keys[id]
	if !ok {
		return ErrKeyNotFound
	}
	delete(m.keys, id)
	return entry.Chain.Release()
}

// Close releases every key. The store is empty afterwards.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for id, entry := range m.keys {
		if err := entry.Chain.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", id, err))
		}
		delete(m.keys, id)
	}
	return errors.Join(errs...)
}
