package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Merged(t *testing.T) {
	cases := map[string]struct {
		doc      *Document
		expected map[string]any
	}{
		"AddsID": {
			doc:      &Document{ID: "p1", Data: map[string]any{"name": "Mate"}},
			expected: map[string]any{"id": "p1", "name": "Mate"},
		},
		"IDOverridesStoredAttribute": {
			doc:      &Document{ID: "p1", Data: map[string]any{"id": "stale", "price": 10}},
			expected: map[string]any{"id": "p1", "price": 10},
		},
		"NilData": {
			doc:      &Document{ID: "p1"},
			expected: map[string]any{"id": "p1"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			before := fmt.Sprint(tc.doc.Data)
			assert.Equal(t, tc.expected, tc.doc.Merged())
			assert.Equal(t, before, fmt.Sprint(tc.doc.Data))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	notFound := &NotFoundError{Collection: "products", ID: "x"}

	assert.True(t, IsNotFound(notFound))
	assert.True(t, IsNotFound(fmt.Errorf("get: %w", notFound)))
	assert.False(t, IsNotFound(fmt.Errorf("boom")))
	assert.False(t, IsNotFound(nil))
	assert.Equal(t, "document products/x not found", notFound.Error())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	docs, err := store.List(ctx, "products")
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)

	store.Put("products", "p1", map[string]any{"name": "Mate"})
	store.Put("products", "p2", map[string]any{"name": "Bombilla"})
	store.Put("products", "p1", map[string]any{"name": "Mate imperial"})

	docs, err = store.List(ctx, "products")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "p1", docs[0].ID)
	assert.Equal(t, "Mate imperial", docs[0].Data["name"])
	assert.Equal(t, "p2", docs[1].ID)

	doc, err := store.Get(ctx, "products", "p2")
	require.NoError(t, err)
	assert.Equal(t, "Bombilla", doc.Data["name"])

	doc.Data["name"] = "mutated"
	again, err := store.Get(ctx, "products", "p2")
	require.NoError(t, err)
	assert.Equal(t, "Bombilla", again.Data["name"])

	_, err = store.Get(ctx, "products", "missing")
	assert.True(t, IsNotFound(err))

	_, err = store.Get(ctx, "unknown", "p1")
	assert.True(t, IsNotFound(err))

	assert.NoError(t, store.Ping(ctx))
	assert.NoError(t, store.Close())
}

func TestMemoryStore_AddConcurrently(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	const n = 50
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := store.Add(ctx, "orders", map[string]any{"items": []any{i}})
			assert.NoError(t, err)
			ids <- id
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		assert.NotEmpty(t, id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)

	docs, err := store.List(ctx, "orders")
	require.NoError(t, err)
	assert.Len(t, docs, n)
}

func TestNormalizeNumbers(t *testing.T) {
	input := map[string]any{
		"qty":   json.Number("2"),
		"price": json.Number("19.90"),
		"big":   json.Number("1e400"),
		"items": []any{
			map[string]any{"sku": "A1", "qty": json.Number("-3")},
			json.Number("7"),
		},
		"note": "keep",
		"gift": true,
		"none": nil,
	}

	expected := map[string]any{
		"qty":   int64(2),
		"price": 19.9,
		"big":   "1e400",
		"items": []any{
			map[string]any{"sku": "A1", "qty": int64(-3)},
			int64(7),
		},
		"note": "keep",
		"gift": true,
		"none": nil,
	}

	assert.Equal(t, expected, NormalizeNumbers(input))
}
