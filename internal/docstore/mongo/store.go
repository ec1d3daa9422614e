// Package mongo implements docstore.Store on a MongoDB database.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/CameronXie/gts-marketplace-api/internal/docstore"
)

const idField = "_id"

// Store is a docstore.Store where each collection maps to a MongoDB collection.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to uri and uses the named database.
func New(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo_connect: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// List returns every document of the collection.
func (s *Store) List(ctx context.Context, collection string) ([]*docstore.Document, error) {
	cur, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	docs := make([]*docstore.Document, 0)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		docs = append(docs, toDocument(raw))
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}

	return docs, nil
}

// Get finds a document by _id, matching either its ObjectID hex form or a plain string id.
func (s *Store) Get(ctx context.Context, collection, id string) (*docstore.Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, idFilter(id)).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &docstore.NotFoundError{Collection: collection, ID: id}
		}
		return nil, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}

	return toDocument(raw), nil
}

// Add inserts data and returns the generated _id.
func (s *Store) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	res, err := s.db.Collection(collection).InsertOne(ctx, data)
	if err != nil {
		return "", fmt.Errorf("insert %s: %w", collection, err)
	}

	return idString(res.InsertedID), nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{idField: bson.M{"$in": bson.A{oid, id}}}
	}

	return bson.M{idField: id}
}

func toDocument(raw bson.M) *docstore.Document {
	id := idString(raw[idField])
	delete(raw, idField)
	return &docstore.Document{ID: id, Data: raw}
}

func idString(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}
