package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// persistedIdentity is the on-disk form of the identity cache.
type persistedIdentity struct {
	Identity
	SavedAt time.Time `json:"saved_at"`
}

// FilePersistence implements IdentityPersistence with a JSON file.
type FilePersistence struct {
	path string
	mu   sync.Mutex
}

// NewFilePersistence returns a cache at path. The file and its directory
// are created on the first Save.
func NewFilePersistence(path string) *FilePersistence {
	return &FilePersistence{path: path}
}

// Path returns the cache file location.
func (fp *FilePersistence) Path() string {
	return fp.path
}

// Load reads the cached identity.
func (fp *FilePersistence) Load() (Identity, error) {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	data, err := os.ReadFile(fp.path)
	if errors.Is(err, os.ErrNotExist) {
		return Identity{}, ErrNoIdentityCached
	}
	if err != nil {
		return Identity{}, fmt.Errorf("failed to read identity file: %w", err)
	}

	var p persistedIdentity
	if err := json.Unmarshal(data, &p); err != nil {
		return Identity{}, fmt.Errorf("failed to unmarshal identity: %w", err)
	}
	if p.Identity.Empty() {
		return Identity{}, ErrNoIdentityCached
	}
	return p.Identity, nil
}

// Save writes the identity, replacing any previous one.
func (fp *FilePersistence) Save(id Identity) error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if dir := filepath.Dir(fp.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create identity directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(persistedIdentity{Identity: id, SavedAt: time.Now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}

	// The secret is a bearer credential.
	tmp := fp.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write identity file: %w", err)
	}
	if err := os.Rename(tmp, fp.path); err != nil {
		return fmt.Errorf("failed to replace identity file: %w", err)
	}
	return nil
}

// Clear removes the cache file.
func (fp *FilePersistence) Clear() error {
	fp.mu.Lock()
	defer fp.mu.Unlock()

	if err := os.Remove(fp.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove identity file: %w", err)
	}
	return nil
}
