package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/PatxiBS/ud2-storageFork/internal/models"
)

// MemoryProvider keeps files in a map. Used by tests and the memory driver.
type MemoryProvider struct {
	mu    sync.RWMutex
	files map[string]models.StoredFile
}

var _ StorageProvider = (*MemoryProvider)(nil)

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{files: make(map[string]models.StoredFile)}
}

func (m *MemoryProvider) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (m *MemoryProvider) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.files[name]
	return ok, nil
}

func (m *MemoryProvider) Get(ctx context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	file, ok := m.files[name]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(file.Content), nil
}

func (m *MemoryProvider) Put(ctx context.Context, name string, content []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = models.StoredFile{Filename: name, Content: string(content)}
	return nil
}

func (m *MemoryProvider) Delete(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[name]; !ok {
		return ErrNotFound
	}
	delete(m.files, name)
	return nil
}
