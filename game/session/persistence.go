package session

import (
	"errors"
	"sync"
)

var ErrNoIdentityCached = errors.New("no identity cached")

// IdentityPersistence caches the identity between runs.
type IdentityPersistence interface {
	// Load returns the cached identity or ErrNoIdentityCached.
	Load() (Identity, error)

	// Save replaces the cached identity.
	Save(id Identity) error

	// Clear forgets the cached identity.
	Clear() error
}

// MemoryPersistence keeps the identity for the life of the process.
type MemoryPersistence struct {
	mu sync.Mutex
	id Identity
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{}
}

func (m *MemoryPersistence) Load() (Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.id.Empty() {
		return Identity{}, ErrNoIdentityCached
	}
	return m.id, nil
}

func (m *MemoryPersistence) Save(id Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = id
	return nil
}

func (m *MemoryPersistence) Clear() error {
	return m.Save(Identity{})
}
