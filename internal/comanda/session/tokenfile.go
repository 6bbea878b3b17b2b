package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/comandaapp/comanda/internal/comanda/ports"
)

var _ ports.TokenStore = (*FileTokenStore)(nil)

// FileTokenStore keeps the bearer token in a single file, the process
// analog of the browser's localStorage key. A missing file means signed out.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore returns a store backed by the file at path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Load returns the persisted token, or "" when none is stored.
func (f *FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: read token file: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

// Save writes the token, creating parent directories as needed. The file is
// owner-readable only.
func (f *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session: create token dir: %w", err)
	}
	if err := os.WriteFile(f.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("session: write token file: %w", err)
	}
	return nil
}

// Clear removes the token file. Removing an absent file is not an error.
func (f *FileTokenStore) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: remove token file: %w", err)
	}
	return nil
}

// MemoryTokenStore is an in-process TokenStore for tests and for callers
// that must not touch the filesystem.
type MemoryTokenStore struct {
	token string
}

var _ ports.TokenStore = (*MemoryTokenStore)(nil)

func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Load() (string, error) { return m.token, nil }

func (m *MemoryTokenStore) Save(token string) error {
	m.token = token
	return nil
}

func (m *MemoryTokenStore) Clear() error {
	m.token = ""
	return nil
}
