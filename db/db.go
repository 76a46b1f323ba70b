// Package db archives produced limits so a batch of rescaling runs can be
// inspected later. The archive is optional: tools open it only when asked.
package db

import (
	"strings"
	"time"
)

// StoredLimit is one archived result: which benchmark it was rescaled to,
// which file it came from, and the full output document as JSON.
type StoredLimit struct {
	ID        int64     `json:"id" bson:"-"`
	Benchmark string    `json:"benchmark" bson:"benchmark"`
	Input     string    `json:"input" bson:"input"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Payload   string    `json:"payload" bson:"payload"`
}

// Client is the archive backend.
type Client interface {
	StoreLimit(record *StoredLimit) error
	RecentLimits(n int) ([]StoredLimit, error)
	Close() error
}

var (
	_ Client = (*SQLiteClient)(nil)
	_ Client = (*MongoClient)(nil)
)

// NewClient opens the archive behind dsn. A mongodb:// or mongodb+srv://
// DSN selects the MongoDB backend; anything else is treated as a SQLite
// file path.
func NewClient(dsn string) (Client, error) {
	if strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://") {
		return NewMongoClient(dsn)
	}
	return NewSQLiteClient(dsn)
}
