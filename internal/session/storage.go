package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Persisted is the raw stored form. Values are kept as text so that
// corrupt or placeholder entries ("undefined", "null") can be recognized.
type Persisted struct {
	Token string
	User  string
}

type Storage interface {
	Load() (Persisted, error)
	Save(Persisted) error
	Clear() error
}

// FileStorage keeps the session in a JSON file readable only by its owner.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

type fileRecord struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Path() string {
	return f.path
}

// Load returns an empty Persisted when the file does not exist.
func (f *FileStorage) Load() (Persisted, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Persisted{}, nil
	}
	if err != nil {
		return Persisted{}, fmt.Errorf("read session file: %w", err)
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		// Treated like any other unusable entry by hydration.
		return Persisted{Token: "undefined"}, nil
	}
	return Persisted{Token: rec.Token, User: string(rec.User)}, nil
}

func (f *FileStorage) Save(p Persisted) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user := json.RawMessage(p.User)
	if !json.Valid(user) {
		user = json.RawMessage("null")
	}
	data, err := json.MarshalIndent(fileRecord{Token: p.Token, User: user}, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStorage) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// MemoryStorage is a Storage for tests and short-lived processes.
type MemoryStorage struct {
	mu sync.Mutex
	p  Persisted
}

func (m *MemoryStorage) Load() (Persisted, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.p, nil
}

func (m *MemoryStorage) Save(p Persisted) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p = p
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.p = Persisted{}
	return nil
}
