package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Well-known keys in the flat kv space. The names match the storage layout
// of the browser profile this application replaces, so an imported profile
// dump maps one-to-one.
const (
	keyUsers         = "users"
	keyCurrentUser   = "currentUser"
	keyActiveAPIKey  = "apiKey"
	keyKeepLogin     = "keepLogin"
	keySessionExpiry = "sessionExpiry"
	keyWishlist      = "movieWishlist"
)

// getValue reads the value stored under key. ok is false when the key is absent.
func getValue(ctx context.Context, db *DB, key string) (value string, ok bool, err error) {
	const query = `SELECT value FROM kv WHERE key = ?`
	err = db.Reader.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// setValue stores or replaces the value under key.
func setValue(ctx context.Context, db *DB, key, value string) error {
	const query = `INSERT OR REPLACE INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)`
	if _, err := db.Writer.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// deleteValue removes key. Deleting an absent key is a no-op.
func deleteValue(ctx context.Context, db *DB, key string) error {
	const query = `DELETE FROM kv WHERE key = ?`
	if _, err := db.Writer.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}
