package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	retryAttempts = 3
	retryBackoff  = 50 * time.Millisecond
)

// SQLiteStore persists session preferences in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and bootstraps) a preferences database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	return openSQLite(dsn)
}

// OpenSQLiteInMemory opens a throwaway in-memory preferences database.
func OpenSQLiteInMemory() (*SQLiteStore, error) {
	return openSQLite("file::memory:?cache=shared")
}

func openSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to preferences database: %w", err)
	}
	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS session_preferences (
	key        TEXT PRIMARY KEY,
	value      INTEGER NOT NULL,
	updated_at TEXT NOT NULL
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create preferences schema: %w", err)
	}
	return nil
}

// TypingNotificationsEnabled reports the preference, defaulting to
// true when the row is absent.
func (s *SQLiteStore) TypingNotificationsEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx, KeyTypingNotifications, true)
}

// SetTypingNotificationsEnabled updates the preference.
func (s *SQLiteStore) SetTypingNotificationsEnabled(ctx context.Context, enabled bool) error {
	return s.setBool(ctx, KeyTypingNotifications, enabled)
}

func (s *SQLiteStore) getBool(ctx context.Context, key string, defaultValue bool) (bool, error) {
	var value int
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultValue, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return value != 0, nil
}

func (s *SQLiteStore) setBool(ctx context.Context, key string, value bool) error {
	stored := 0
	if value {
		stored = 1
	}
	return withRetry(ctx, retryAttempts, retryBackoff, func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT INTO session_preferences (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			key, stored, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to write preference %q: %w", key, err)
		}
		return nil
	})
}

func withRetry(ctx context.Context, maxAttempts int, baseBackoff time.Duration, fn func() error) error {
	attempt := 0
	backoff := baseBackoff

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		err := fn()
		if err == nil {
			return nil
		}

		attempt++
		if !isBusyError(err) || attempt >= maxAttempts {
			return err
		}

		if err := sleepWithContext(ctx, backoff); err != nil {
			return err
		}

		backoff *= 2
	}
}

func isBusyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	message := strings.ToLower(err.Error())
	return strings.Contains(message, "database is locked") ||
		strings.Contains(message, "database is busy") ||
		strings.Contains(message, "sqlite_busy")
}

func sleepWithContext(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
