package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	mongoTimeout    = 10 * time.Second
	mongoDatabase   = "limit_archive"
	mongoCollection = "limits"
)

type MongoClient struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoClient connects to the archive deployment behind the DSN. The
// connection is pinged once so DSN problems surface at startup rather than
// on the first store.
func NewMongoClient(dsn string) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to reach MongoDB: %w", err)
	}

	coll := client.Database(mongoDatabase).Collection(mongoCollection)
	return &MongoClient{client: client, coll: coll}, nil
}

func (c *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// StoreLimit appends one result to the archive, stamping the record with
// the current time when the caller left CreatedAt zero.
func (c *MongoClient) StoreLimit(record *StoredLimit) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	if _, err := c.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to store limit: %w", err)
	}
	return nil
}

// RecentLimits returns up to n archived results, newest first.
func (c *MongoClient) RecentLimits(n int) ([]StoredLimit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(n))
	cursor, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query limits: %w", err)
	}
	defer cursor.Close(ctx)

	var records []StoredLimit
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode limits: %w", err)
	}
	return records, nil
}
