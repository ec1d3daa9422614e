// Package sqldoc stores documents as JSON blobs in SQL tables, one table per collection.
package sqldoc

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/google/uuid"

	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

var collectionNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ErrInvalidCollection is returned for collection names that are not safe SQL identifiers.
var ErrInvalidCollection = errors.New("invalid collection name")

// Store is a docstore.Store on top of database/sql. Tables are created on first use.
type Store struct {
	db      *sql.DB
	dialect Dialect

	mu      sync.Mutex
	ensured map[string]bool
}

// Open opens dsn with the dialect's driver.
func Open(dialect Dialect, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%s dsn is required", dialect.Name)
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect.Name, err)
	}

	return New(db, dialect), nil
}

// New wraps an already opened database.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{
		db:      db,
		dialect: dialect,
		ensured: make(map[string]bool),
	}
}

// List returns every row of the collection table.
func (s *Store) List(ctx context.Context, collection string) ([]*docstore.Document, error) {
	if err := s.ensureTable(ctx, collection); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT id, data FROM %s", collection))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer rows.Close()

	docs := make([]*docstore.Document, 0)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}

		doc, err := decode(id, data)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}

	return docs, nil
}

// Get reads one row by primary key.
func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	if err := s.ensureTable(ctx, collection); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE id = %s", collection, s.dialect.Placeholder(1))

	var data string
	err := s.db.QueryRowContext(ctx, query, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &docstore.NotFoundError{Collection: collection, ID: id}
		}
		return nil, fmt.Errorf("query %s/%s: %w", collection, id, err)
	}

	doc, err := decode(id, data)
	if err != nil {
		return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}

	return doc, nil
}

// Add inserts data as JSON under a new UUID.
func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	if err := s.ensureTable(ctx, collection); err != nil {
		return "", err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", collection, err)
	}

	id := uuid.NewString()
	query := fmt.Sprintf(
		"INSERT INTO %s (id, data) VALUES (%s, %s)",
		collection, s.dialect.Placeholder(1), s.dialect.Placeholder(2),
	)
	if _, err := s.db.ExecContext(ctx, query, id, string(payload)); err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}

	return id, nil
}

// Put creates or replaces the document with the given id.
func (s *Store) Put(ctx context.Context, collection, id string, data map[string]any) error {
	if err := s.ensureTable(ctx, collection); err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.upsert(collection), id, string(payload)); err != nil {
		return fmt.Errorf("upsert %s/%s: %w", collection, id, err)
	}

	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureTable(ctx context.Context, collection string) error {
	if !collectionNamePattern.MatchString(collection) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, collection)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ensured[collection] {
		return nil
	}

	if _, err := s.db.ExecContext(ctx, s.dialect.createTable(collection)); err != nil {
		return fmt.Errorf("create table %s: %w", collection, err)
	}

	s.ensured[collection] = true
	return nil
}

// decode keeps integers as int64 and other numbers as float64.
func decode(id, data string) (*docstore.Document, error) {
	dec := json.NewDecoder(bytes.NewBufferString(data))
	dec.UseNumber()

	attrs := make(map[string]any)
	if err := dec.Decode(&attrs); err != nil {
		return nil, err
	}

	return &docstore.Document{ID: id, Data: docstore.NormalizeNumbers(attrs).(map[string]any)}, nil
}
