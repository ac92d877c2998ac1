// Package database persists the application's collections as whole
// snapshots, one per fixed key. Every save overwrites the previous value.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	KeyCatalog  = "roxtor_catalog"
	KeyOrders   = "roxtor_orders"
	KeySettings = "roxtor_settings"
	KeyLeads    = "roxtor_leads"
)

// ErrCorrupt means a value exists under the key but cannot be decoded.
var ErrCorrupt = errors.New("stored value is malformed")

type Store interface {
	// Load decodes the value under key into dst. found is false when the
	// key has never been saved.
	Load(ctx context.Context, key string, dst any) (found bool, err error)
	Save(ctx context.Context, key string, value any) error
}

const snapshotsCollection = "snapshots"

type snapshot struct {
	Key       string    `bson:"_id"`
	Data      any       `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type MongoStore struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(snapshotsCollection), timeout: 10 * time.Second}
}

func (s *MongoStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var raw bson.Raw
	err := s.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}

	data, err := raw.LookupErr("data")
	if err != nil {
		return true, fmt.Errorf("%w: %s has no data", ErrCorrupt, key)
	}
	if err := data.Unmarshal(dst); err != nil {
		return true, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return true, nil
}

func (s *MongoStore) Save(ctx context.Context, key string, value any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	doc := snapshot{Key: key, Data: value, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
