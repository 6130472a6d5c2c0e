package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"filmdash/internal/config"
)

// GlobalProfile scopes preferences that apply to every profile.
const GlobalProfile = "*"

const (
	keyLiveEnabled            = "live_enabled"
	keyNotificationsDismissed = "notifications_dismissed"
)

// Store persists preferences backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// Open initializes or connects to the preference database under the data
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.PreferencesPath())
}

// OpenPath opens the database at dbPath, creating the schema when needed.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, now: time.Now}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the stored value for key, reporting false when unset.
func (s *Store) Get(ctx context.Context, profile, key string) (string, bool, error) {
	var value string
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx,
			"SELECT value FROM preferences WHERE profile = ? AND key = ?",
			profile, key,
		).Scan(&value)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read preference %s/%s: %w", profile, key, err)
	}
	return value, true, nil
}

// Set stores value for key, replacing any previous value.
func (s *Store) Set(ctx context.Context, profile, key, value string) error {
	updated := s.now().UTC().Format(time.RFC3339Nano)
	err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO preferences (profile, key, value, updated_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			profile, key, value, updated,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("write preference %s/%s: %w", profile, key, err)
	}
	return nil
}

// Clear removes every preference stored for profile.
func (s *Store) Clear(ctx context.Context, profile string) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "DELETE FROM preferences WHERE profile = ?", profile)
		return err
	})
}

func (s *Store) getBool(ctx context.Context, profile, key string) (bool, error) {
	value, ok, err := s.Get(ctx, profile, key)
	if err != nil || !ok {
		return false, err
	}
	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return false, nil
	}
	return enabled, nil
}

func (s *Store) setBool(ctx context.Context, profile, key string, value bool) error {
	return s.Set(ctx, profile, key, strconv.FormatBool(value))
}

// LiveEnabled reports whether live data was left on for profile.
func (s *Store) LiveEnabled(ctx context.Context, profile string) (bool, error) {
	return s.getBool(ctx, profile, keyLiveEnabled)
}

// SetLiveEnabled records the live data choice for profile.
func (s *Store) SetLiveEnabled(ctx context.Context, profile string, enabled bool) error {
	return s.setBool(ctx, profile, keyLiveEnabled, enabled)
}

// NotificationsDismissed reports whether enrichment notices were silenced.
func (s *Store) NotificationsDismissed(ctx context.Context) (bool, error) {
	return s.getBool(ctx, GlobalProfile, keyNotificationsDismissed)
}

// SetNotificationsDismissed records the global notice choice.
func (s *Store) SetNotificationsDismissed(ctx context.Context, dismissed bool) error {
	return s.setBool(ctx, GlobalProfile, keyNotificationsDismissed, dismissed)
}
