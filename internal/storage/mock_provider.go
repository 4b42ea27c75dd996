package storage

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of the Provider interface for testing.
type MockProvider struct {
	mock.Mock
}

// Save is the mock implementation of the Save method.
func (m *MockProvider) Save(ctx context.Context, objectName string, data []byte, opts WriteOptions) error {
	args := m.Called(ctx, objectName, data, opts)
	return args.Error(0) //nolint:wrapcheck
}

// Delete is the mock implementation of the Delete method.
func (m *MockProvider) Delete(ctx context.Context, objectName string) error {
	args := m.Called(ctx, objectName)
	return args.Error(0) //nolint:wrapcheck
}
