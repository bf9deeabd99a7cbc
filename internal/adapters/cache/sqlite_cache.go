package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// SQLiteCache is a SQLite implementation of the FeedCache interface.
// It runs on a private in-memory database so entries live exactly as long
// as the process.
type SQLiteCache struct {
	db     *sql.DB
	logger *zap.Logger
	ttl    time.Duration
	now    Clock
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(logger *zap.Logger, ttl time.Duration, opts ...Option) (*SQLiteCache, error) {
	o := buildOptions(opts)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Every pooled connection would get its own empty :memory: database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS feed_cache (
			url TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &SQLiteCache{
		db:     db,
		logger: logger,
		ttl:    ttl,
		now:    o.now,
	}, nil
}

// Lookup returns the cached feed for a URL if it is younger than the TTL
func (c *SQLiteCache) Lookup(ctx context.Context, key string) (string, bool) {
	var body string
	var createdAt int64

	err := c.db.QueryRowContext(ctx, `
		SELECT body, created_at
		FROM feed_cache
		WHERE url = ?
	`, key).Scan(&body, &createdAt)

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			c.logger.Error("Failed to query cache", zap.Error(err), zap.String("url", key))
		}
		return "", false
	}

	if c.now().Sub(time.Unix(0, createdAt)) >= c.ttl {
		return "", false
	}

	return body, true
}

// Store overwrites any entry for the URL
func (c *SQLiteCache) Store(ctx context.Context, key string, body string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO feed_cache (url, body, created_at)
		VALUES (?, ?, ?)
	`, key, body, c.now().UnixNano())

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}

	return nil
}

// Stop closes the database connection
func (c *SQLiteCache) Stop() {
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
