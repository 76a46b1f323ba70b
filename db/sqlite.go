package db

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"limit-rescaling/utils"

	_ "github.com/mattn/go-sqlite3" // SQLite driver registration
)

type SQLiteClient struct {
	db *sql.DB
}

func NewSQLiteClient(dataSourceName string) (*SQLiteClient, error) {
	// Extract the file path before query parameters
	dbPath := dataSourceName
	if idx := strings.Index(dataSourceName, "?"); idx != -1 {
		dbPath = dataSourceName[:idx]
	}

	// Create the directory if it doesn't exist
	dbDir := filepath.Dir(dbPath)
	if dbDir != "." && dbDir != "" {
		if err := utils.CreateFolder(dbDir); err != nil {
			return nil, fmt.Errorf("error creating database directory: %s", err)
		}
	}

	// Add busy timeout param to DSN (milliseconds)
	if !strings.Contains(dataSourceName, "_busy_timeout") {
		if strings.Contains(dataSourceName, "?") {
			dataSourceName += "&_busy_timeout=5000" // 5 seconds
		} else {
			dataSourceName += "?_busy_timeout=5000"
		}
	}

	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("error connecting to SQLite: %s", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("error creating tables: %s", err)
	}

	return &SQLiteClient{db: db}, nil
}

// createTables creates the archive table if it doesn't exist
func createTables(db *sql.DB) error {
	createLimitsTable := `
    CREATE TABLE IF NOT EXISTS limits (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        benchmark TEXT NOT NULL,
        input TEXT NOT NULL,
        payload TEXT NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_limits_created ON limits(created_at);
    CREATE INDEX IF NOT EXISTS idx_limits_benchmark ON limits(benchmark);
    `

	if _, err := db.Exec(createLimitsTable); err != nil {
		return fmt.Errorf("error creating limits table: %s", err)
	}
	return nil
}

func (c *SQLiteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// StoreLimit appends one result to the archive, stamping the record with
// the current time when the caller left CreatedAt zero.
func (c *SQLiteClient) StoreLimit(record *StoredLimit) error {
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	res, err := c.db.Exec(
		"INSERT INTO limits (created_at, benchmark, input, payload) VALUES (?, ?, ?, ?)",
		record.CreatedAt, record.Benchmark, record.Input, record.Payload,
	)
	if err != nil {
		return fmt.Errorf("error storing limit: %s", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

// RecentLimits returns up to n archived results, newest first.
func (c *SQLiteClient) RecentLimits(n int) ([]StoredLimit, error) {
	rows, err := c.db.Query(`
		SELECT id, created_at, benchmark, input, payload
		FROM limits
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, n)
	if err != nil {
		return nil, fmt.Errorf("error querying limits: %s", err)
	}
	defer rows.Close()

	var records []StoredLimit
	for rows.Next() {
		var rec StoredLimit
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.Benchmark, &rec.Input, &rec.Payload); err != nil {
			return nil, fmt.Errorf("error scanning limit row: %s", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading limit rows: %s", err)
	}
	return records, nil
}
