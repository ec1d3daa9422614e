// Package firestore implements docstore.Store on Cloud Firestore through the Firebase Admin SDK.
package firestore

import (
	"context"
	"errors"
	"fmt"

	gcfirestore "cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

// Config holds the service account settings used to initialise the Firebase app.
// Empty CredentialsJSON falls back to application default credentials.
type Config struct {
	CredentialsJSON []byte
	ProjectID       string
}

// Store is a docstore.Store backed by a Firestore client.
type Store struct {
	client *gcfirestore.Client
}

// New initialises a Firebase app with cfg and opens its Firestore client.
func New(ctx context.Context, cfg Config) (*Store, error) {
	var opts []option.ClientOption
	if len(cfg.CredentialsJSON) > 0 {
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase_new_app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("firestore_client: %w", err)
	}

	return NewWithClient(client), nil
}

// NewWithClient wraps an existing Firestore client.
func NewWithClient(client *gcfirestore.Client) *Store {
	return &Store{client: client}
}

// List streams every document of the collection.
func (s *Store) List(ctx context.Context, collection string) ([]*docstore.Document, error) {
	iter := s.client.Collection(collection).Documents(ctx)
	defer iter.Stop()

	docs := make([]*docstore.Document, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("stream %s: %w", collection, err)
		}

		docs = append(docs, &docstore.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}

	return docs, nil
}

// Get fetches a single document by id.
func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	ref := s.client.Collection(collection).Doc(id)
	if ref == nil {
		// Doc returns nil for ids that are not a single path segment.
		return nil, &docstore.NotFoundError{Collection: collection, ID: id}
	}

	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, &docstore.NotFoundError{Collection: collection, ID: id}
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	if !snap.Exists() {
		return nil, &docstore.NotFoundError{Collection: collection, ID: id}
	}

	return &docstore.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

// Add creates a document with an auto-generated id.
func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}

	return ref.ID, nil
}

// Ping lists the first root collection to verify credentials and connectivity.
func (s *Store) Ping(ctx context.Context) error {
	iter := s.client.Collections(ctx)
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("ping firestore: %w", err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
