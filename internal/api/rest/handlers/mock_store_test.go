package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

// mockStore is a mock implementation of the docstore.Store interface.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) List(ctx context.Context, collection string) ([]*docstore.Document, error) {
	args := m.Called(ctx, collection)
	docs, _ := args.Get(0).([]*docstore.Document)
	return docs, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	args := m.Called(ctx, collection, id)
	doc, _ := args.Get(0).(*docstore.Document)
	return doc, args.Error(1)
}

func (m *mockStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	args := m.Called(ctx, collection, data)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}
