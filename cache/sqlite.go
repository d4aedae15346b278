package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // cgo-free sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS tool_cache (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tool_cache_expires ON tool_cache (expires_at);
`

// SQLiteStore persists cache entries in a single-file SQLite database under
// the cache directory. Concurrent access is safe: database/sql serializes
// connections and every statement is a single atomic operation.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens (creating if necessary) the database at path. Parent
// directories are created as needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Get implements Store. An expired row counts as a miss and is deleted.
func (s *SQLiteStore) Get(key string) (string, bool, error) {
	var value string
	var expiresAt int64

	row := s.db.QueryRow(`SELECT value, expires_at FROM tool_cache WHERE key = ?`, key)
	if err := row.Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("cache get: %w", err)
	}

	if s.now().Unix() >= expiresAt {
		if _, err := s.db.Exec(`DELETE FROM tool_cache WHERE key = ?`, key); err != nil {
			return "", false, fmt.Errorf("cache evict: %w", err)
		}
		return "", false, nil
	}

	return value, true, nil
}

// Set implements Store.
func (s *SQLiteStore) Set(key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	expiresAt := s.now().Add(ttl).Unix()
	_, err := s.db.Exec(
		`INSERT INTO tool_cache (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
