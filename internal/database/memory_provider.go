package database

import (
	"context"
	"sync"
)

// MemoryProvider is an in-memory entity source for tests and local
// development.
type MemoryProvider struct {
	mu       sync.RWMutex
	listings []ListingDoc
	tenants  []TenantDoc
}

// NewMemoryProvider creates an empty in-memory source.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{}
}

// SetListings replaces the listing collection.
func (m *MemoryProvider) SetListings(docs []ListingDoc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings = append([]ListingDoc(nil), docs...)
}

// SetTenantProfiles replaces the tenant collection.
func (m *MemoryProvider) SetTenantProfiles(docs []TenantDoc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tenants = append([]TenantDoc(nil), docs...)
}

// Listings returns the stored listing documents.
func (m *MemoryProvider) Listings(_ context.Context) ([]ListingDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ListingDoc(nil), m.listings...), nil
}

// TenantProfiles returns the stored tenant documents.
func (m *MemoryProvider) TenantProfiles(_ context.Context) ([]TenantDoc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]TenantDoc(nil), m.tenants...), nil
}

// ListingIDs returns the ids of the stored listings in insertion order.
func (m *MemoryProvider) ListingIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.listings))
	for _, doc := range m.listings {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

// Close does nothing for the in-memory source.
func (m *MemoryProvider) Close() error { return nil }
