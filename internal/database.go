package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// The state database is a single key/value table, the terminal-client
// equivalent of the browser's durable storage.
const createStateTable = `
CREATE TABLE IF NOT EXISTS clientState (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// OpenStateDB opens (creating if needed) the client state database.
func OpenStateDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("state database ping failed: %w", err)
	}

	if _, err := db.Exec(createStateTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state table: %w", err)
	}

	return db, nil
}

// GetState reads one key from clientState. The second return value
// reports whether the key was present.
func GetState(db *sql.DB, key string) (string, bool, error) {
	var value sql.NullString
	err := db.QueryRow("SELECT value FROM clientState WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query failed for key %s: %w", key, err)
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// SetState writes one key to clientState, replacing any prior value.
func SetState(db *sql.DB, key, value string) error {
	_, err := db.Exec(
		"INSERT INTO clientState (key, value) VALUES (?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write failed for key %s: %w", key, err)
	}
	return nil
}

// DeleteState removes keys from clientState. Missing keys are ignored.
func DeleteState(db *sql.DB, keys ...string) error {
	for _, key := range keys {
		if _, err := db.Exec("DELETE FROM clientState WHERE key = ?", key); err != nil {
			return fmt.Errorf("delete failed for key %s: %w", key, err)
		}
	}
	return nil
}
