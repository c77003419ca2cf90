package cache

import (
	"sync"
	"time"
)

type memoryRecord struct {
	modTime time.Time
	entry   Entry
}

// Memory is an in-process Store. It is the default backend when no cache
// database is configured and is also used by tests.
type Memory struct {
	mu      sync.RWMutex
	records map[string]memoryRecord
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{records: make(map[string]memoryRecord)}
}

// Get implements Store.
func (m *Memory) Get(path string, modTime time.Time) (Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[path]
	if !ok || !rec.modTime.Equal(modTime) {
		return Entry{}, false, nil
	}
	return rec.entry, true, nil
}

// Put implements Store.
func (m *Memory) Put(path string, modTime time.Time, entry Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[path] = memoryRecord{modTime: modTime, entry: entry}
	return nil
}

// Len returns the number of cached entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}
