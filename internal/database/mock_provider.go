package database

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// Listings is the mock implementation of the Listings method.
func (m *MockProvider) Listings(ctx context.Context) ([]ListingDoc, error) {
	args := m.Called(ctx)
	docs, _ := args.Get(0).([]ListingDoc)
	return docs, args.Error(1) //nolint:wrapcheck
}

// TenantProfiles is the mock implementation of the TenantProfiles method.
func (m *MockProvider) TenantProfiles(ctx context.Context) ([]TenantDoc, error) {
	args := m.Called(ctx)
	docs, _ := args.Get(0).([]TenantDoc)
	return docs, args.Error(1) //nolint:wrapcheck
}

// ListingIDs is the mock implementation of the ListingIDs method.
func (m *MockProvider) ListingIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1) //nolint:wrapcheck
}

// Close is the mock implementation of the Close method.
func (m *MockProvider) Close() error {
	args := m.Called()
	return args.Error(0) //nolint:wrapcheck
}
