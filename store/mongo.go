package store

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore implements the whole-collection contract over a MongoDB
// database. Save deletes every document and reinserts the given records,
// preserving the overwrite semantics the seeding tools rely on.
type MongoStore struct {
	db     *mongo.Database
	strict bool
	log    zerolog.Logger
}

// NewMongoStore creates a Mongo-backed store.
func NewMongoStore(db *mongo.Database, strict bool, log zerolog.Logger) *MongoStore {
	return &MongoStore{db: db, strict: strict, log: log}
}

// Load reads every document of the named collection into out (a pointer to a slice).
func (s *MongoStore) Load(ctx context.Context, collection string, out interface{}) error {
	cursor, err := s.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		if s.strict {
			return fmt.Errorf("store: find %s: %w", collection, err)
		}
		s.log.Warn().Err(err).Str("collection", collection).Msg("find failed, treating collection as empty")
		return json.Unmarshal([]byte("[]"), out)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		if s.strict {
			return fmt.Errorf("store: decode %s: %w", collection, err)
		}
		s.log.Warn().Err(err).Str("collection", collection).Msg("decode failed, treating collection as empty")
		return json.Unmarshal([]byte("[]"), out)
	}
	return nil
}

// Save replaces the named collection with records (a slice).
func (s *MongoStore) Save(ctx context.Context, collection string, records interface{}) error {
	docs, err := toDocuments(records)
	if err != nil {
		return fmt.Errorf("store: save %s: %w", collection, err)
	}

	c := s.db.Collection(collection)
	if _, err := c.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("store: clear %s: %w", collection, err)
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := c.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("store: insert %s: %w", collection, err)
	}
	return nil
}

func toDocuments(records interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(records)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("records must be a slice, got %T", records)
	}
	docs := make([]interface{}, rv.Len())
	for i := range docs {
		docs[i] = rv.Index(i).Interface()
	}
	return docs, nil
}
