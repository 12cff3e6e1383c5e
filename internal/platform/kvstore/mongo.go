package kvstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultMongoCollection holds the storefront entries.
const DefaultMongoCollection = "kv"

var _ Store = (*MongoStore)(nil)

// MongoStore keeps one document per key in a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore wires a collection-backed store. Caller owns the client lifecycle.
func NewMongoStore(db *mongo.Database) *MongoStore {
	if db == nil {
		return &MongoStore{}
	}
	return &MongoStore{coll: db.Collection(DefaultMongoCollection)}
}

type entryDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func (s *MongoStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensureCollection(); err != nil {
		return nil, err
	}
	var doc entryDocument
	if err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc.Value, nil
}

func (s *MongoStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.ensureCollection(); err != nil {
		return err
	}
	doc := entryDocument{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Delete(ctx context.Context, key string) error {
	if err := s.ensureCollection(); err != nil {
		return err
	}
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": key})
	return err
}

func (s *MongoStore) ensureCollection() error {
	if s == nil || s.coll == nil {
		return errors.New("mongo kv store not configured")
	}
	return nil
}
