// Package sqlite provides an embedded docqa.VectorStore backed by SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const memoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	dimension  INTEGER NOT NULL,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS points (
	id          TEXT PRIMARY KEY,
	collection  TEXT NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
	url         TEXT NOT NULL,
	url_hash    INTEGER NOT NULL,
	chunk_index INTEGER NOT NULL,
	page_title  TEXT NOT NULL DEFAULT '',
	text        TEXT NOT NULL,
	token_count INTEGER NOT NULL,
	created_at  TEXT NOT NULL,
	vector      BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_points_collection_url_hash ON points(collection, url_hash);
`

// DB is a SQLite connection holding collections and their points.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB returns a DB for path. ":memory:" keeps everything in process.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// pragmas returns the connection settings applied on open. WAL is skipped
// for in-memory databases, which do not support it.
func (db *DB) pragmas() []string {
	p := []string{"busy_timeout = 5000", "foreign_keys = ON"}
	if db.path != memoryPath {
		p = append(p, "journal_mode = WAL")
	}
	return p
}

// Open connects to the database, applies pragmas and creates the schema.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", db.path, err)
	}
	// One writer at a time.
	conn.SetMaxOpenConns(1)

	if err := db.init(conn); err != nil {
		conn.Close()
		return err
	}
	db.db = conn
	return nil
}

func (db *DB) init(conn *sql.DB) error {
	if err := conn.Ping(); err != nil {
		return fmt.Errorf("connect %s: %w", db.path, err)
	}
	for _, p := range db.pragmas() {
		if _, err := conn.Exec("PRAGMA " + p); err != nil {
			return fmt.Errorf("pragma %s: %w", p, err)
		}
	}
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the connection. It is a no-op if Open never succeeded.
func (db *DB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction with default options.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}
