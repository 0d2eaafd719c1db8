// Package state persists workspace state (tab session, recent documents,
// reader settings, scroll positions, sidebar layout) in a local SQLite
// database. Loads never fail: missing or malformed state falls back to a
// safe default after sanitization. Saves are best-effort and log at Warn.
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS workspace_state (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS scroll_positions (
	path       TEXT PRIMARY KEY,
	offset     REAL NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

const (
	keyTabSession      = "tab_session"
	keyRecentDocuments = "recent_documents"
	keySettings        = "settings"
	keySidebarLayout   = "sidebar_layout"
)

// DB wraps a sql.DB with workspace-state operations.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string, logger *slog.Logger) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("state: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("state: apply schema: %w", err)
	}
	return &DB{conn: conn, logger: logger}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// loadValue returns the raw JSON for key, or ok=false when absent.
func (db *DB) loadValue(key string) ([]byte, bool) {
	var raw string
	err := db.conn.QueryRow(`SELECT value FROM workspace_state WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		return nil, false
	}
	return []byte(raw), true
}

// saveValue marshals v and upserts it under key, best-effort.
func (db *DB) saveValue(key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		db.logger.Warn("state: marshal failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	_, err = db.conn.Exec(`
		INSERT INTO workspace_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, key, string(payload))
	if err != nil {
		db.logger.Warn("state: save failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// ScrollOffset returns the persisted scroll offset for path.
func (db *DB) ScrollOffset(path string) (float64, bool) {
	var offset float64
	err := db.conn.QueryRow(`SELECT offset FROM scroll_positions WHERE path = ?`, path).Scan(&offset)
	if err != nil {
		return 0, false
	}
	return offset, true
}

// SaveScrollOffset persists the scroll offset for path, best-effort.
func (db *DB) SaveScrollOffset(path string, offset float64) {
	_, err := db.conn.Exec(`
		INSERT INTO scroll_positions (path, offset, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			offset     = excluded.offset,
			updated_at = excluded.updated_at
	`, path, offset)
	if err != nil {
		db.logger.Warn("state: save scroll failed", slog.String("path", path), slog.String("error", err.Error()))
	}
}
