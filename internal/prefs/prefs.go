// Package prefs provides a small persisted key-value store for process-wide
// application state such as flags and counters.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store reads and writes scalar preferences.
type Store interface {
	// Bool returns the value for key, or false if unset.
	Bool(key string) (bool, error)
	SetBool(key string, v bool) error

	// Int returns the value for key, or def if unset.
	Int(key string, def int) (int, error)
	SetInt(key string, v int) error
}

// FileStore persists preferences as a YAML document. Every read goes to the
// file so that the file stays the single source of truth.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// Open returns a FileStore backed by path. The file is created on first write.
func Open(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("prefs: empty path")
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Bool(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return false, err
	}
	return boolValue(values, key)
}

func (s *FileStore) SetBool(key string, v bool) error {
	return s.set(key, v)
}

func (s *FileStore) Int(key string, def int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return 0, err
	}
	return intValue(values, key, def)
}

func (s *FileStore) SetInt(key string, v int) error {
	return s.set(key, v)
}

func (s *FileStore) set(key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = v
	return s.save(values)
}

func (s *FileStore) load() (map[string]any, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]any), nil
	}
	if err != nil {
		return nil, fmt.Errorf("prefs: read %s: %w", s.path, err)
	}

	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("prefs: parse %s: %w", s.path, err)
	}
	if values == nil {
		values = make(map[string]any)
	}
	return values, nil
}

// save writes to a temp file and renames it over the original.
func (s *FileStore) save(values map[string]any) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("prefs: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.yaml")
	if err != nil {
		return fmt.Errorf("prefs: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("prefs: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("prefs: write: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("prefs: replace %s: %w", s.path, err)
	}
	return nil
}

func boolValue(values map[string]any, key string) (bool, error) {
	raw, ok := values[key]
	if !ok {
		return false, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, fmt.Errorf("prefs: %s is %T, not bool", key, raw)
	}
	return b, nil
}

func intValue(values map[string]any, key string, def int) (int, error) {
	raw, ok := values[key]
	if !ok {
		return def, nil
	}
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("prefs: %s is %T, not int", key, raw)
	}
}
