package storage

import (
	"context"
	"sync"
)

type memoryObject struct {
	data []byte
	opts WriteOptions
}

// MemoryProvider stores objects in process memory. It backs tests and
// local development where no bucket is available.
type MemoryProvider struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

// NewMemoryProvider creates an empty in-memory store.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{objects: make(map[string]memoryObject)}
}

// Save stores a copy of the data under the object name.
func (m *MemoryProvider) Save(_ context.Context, objectName string, data []byte, opts WriteOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = memoryObject{
		data: append([]byte(nil), data...),
		opts: opts,
	}
	return nil
}

// Delete removes the object, returning ErrObjectNotFound if absent.
func (m *MemoryProvider) Delete(_ context.Context, objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectName]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, objectName)
	return nil
}

// Object returns the stored bytes for the name, if present.
func (m *MemoryProvider) Object(objectName string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[objectName]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), obj.data...), true
}

// Options returns the write options recorded for the name, if present.
func (m *MemoryProvider) Options(objectName string) (WriteOptions, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[objectName]
	return obj.opts, ok
}

// Len reports the number of stored objects.
func (m *MemoryProvider) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
