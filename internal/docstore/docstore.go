package docstore

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// IDKey is the attribute under which a document's identifier is exposed to callers.
const IDKey = "id"

// ErrUnknownDriver is returned when the configured backend name is not supported.
var ErrUnknownDriver = errors.New("unknown docstore driver")

// Document is a single entry of a collection: its store-assigned identifier
// and its attribute mapping.
type Document struct {
	ID   string
	Data map[string]any
}

// Merged returns a copy of the document attributes with the identifier set under IDKey.
// The identifier wins over any stored "id" attribute.
func (d *Document) Merged() map[string]any {
	merged := make(map[string]any, len(d.Data)+1)
	maps.Copy(merged, d.Data)
	merged[IDKey] = d.ID
	return merged
}

// Store is the collection/document model the API delegates persistence to.
type Store interface {
	// List returns every document of the collection. Order is backend defined.
	List(ctx context.Context, collection string) ([]*Document, error)

	// Get returns the document with the given id or a *NotFoundError.
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Add inserts data as a new document and returns the identifier the store assigned.
	Add(ctx context.Context, collection string, data map[string]any) (string, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// NotFoundError represents a lookup of a document that does not exist.
type NotFoundError struct {
	Collection string
	ID         string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("document %s/%s not found", e.Collection, e.ID)
}

// IsNotFound reports whether err is, or wraps, a *NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
