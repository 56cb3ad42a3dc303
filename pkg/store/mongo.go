package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for the Mongo backend.
const (
	DefaultMongoDatabase   = "rangedeck"
	DefaultMongoCollection = "layouts"
)

// MongoBackend stores one document per key, with the key as _id.
type MongoBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoDoc struct {
	Key       string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoBackend connects to uri and pings the primary. Empty database or
// collection names select the defaults.
func NewMongoBackend(ctx context.Context, uri, database, collection string) (*MongoBackend, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoBackend{client: client, coll: client.Database(database).Collection(collection)}, nil
}

// Name returns "mongo".
func (m *MongoBackend) Name() string { return "mongo" }

// Get finds the document with _id key.
func (m *MongoBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc mongoDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, mongoError(err)
	}
	return []byte(doc.Data), true, nil
}

// Set upserts the document for key.
func (m *MongoBackend) Set(ctx context.Context, key string, data []byte) error {
	doc := mongoDoc{Key: key, Data: string(data), UpdatedAt: time.Now().UTC()}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return mongoError(err)
}

// Delete removes the document for key.
func (m *MongoBackend) Delete(ctx context.Context, key string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"_id": key})
	return mongoError(err)
}

// List returns all _id values, sorted.
func (m *MongoBackend) List(ctx context.Context) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.M{"_id": 1})
	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mongoError(err)
	}
	defer cur.Close(ctx)

	var keys []string
	for cur.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode key: %w", err)
		}
		keys = append(keys, doc.Key)
	}
	return keys, mongoError(cur.Err())
}

// Close disconnects the client.
func (m *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func mongoError(err error) error {
	if err != nil && (mongo.IsNetworkError(err) || mongo.IsTimeout(err)) {
		return Retryable(err)
	}
	return err
}

var _ Backend = (*MongoBackend)(nil)
