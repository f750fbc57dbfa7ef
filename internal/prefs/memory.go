package prefs

import "sync"

// Memory is an in-memory Store with optional error injection.
type Memory struct {
	mu     sync.Mutex
	values map[string]any

	// Err, when set, is returned by every call.
	Err error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]any)}
}

func (m *Memory) Bool(key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return false, m.Err
	}
	return boolValue(m.values, key)
}

func (m *Memory) SetBool(key string, v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.values[key] = v
	return nil
}

func (m *Memory) Int(key string, def int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return intValue(m.values, key, def)
}

func (m *Memory) SetInt(key string, v int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.values[key] = v
	return nil
}
