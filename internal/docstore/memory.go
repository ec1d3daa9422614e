package docstore

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a process-local Store. Documents are listed in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	ids  []string
	docs map[string]map[string]any
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*memoryCollection),
	}
}

// List returns copies of every document in the collection. A missing collection is empty.
func (s *MemoryStore) List(_ context.Context, collection string) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return []*Document{}, nil
	}

	docs := make([]*Document, 0, len(c.ids))
	for _, id := range c.ids {
		docs = append(docs, &Document{ID: id, Data: maps.Clone(c.docs[id])})
	}

	return docs, nil
}

// Get returns a copy of the stored document.
func (s *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.collections[collection]; ok {
		if data, ok := c.docs[id]; ok {
			return &Document{ID: id, Data: maps.Clone(data)}, nil
		}
	}

	return nil, &NotFoundError{Collection: collection, ID: id}
}

// Add stores data under a new random UUID.
func (s *MemoryStore) Add(_ context.Context, collection string, data map[string]any) (string, error) {
	id := uuid.NewString()
	s.Put(collection, id, data)
	return id, nil
}

// Put creates or replaces the document with the given id.
func (s *MemoryStore) Put(collection, id string, data map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{docs: make(map[string]map[string]any)}
		s.collections[collection] = c
	}

	if _, exists := c.docs[id]; !exists {
		c.ids = append(c.ids, id)
	}

	c.docs[id] = maps.Clone(data)
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
