// Package store persists reminder definitions in a local SQLite database.
//
// The schema is versioned: every open runs the migration chain forward from
// the recorded version, so `add`, `list` and `serve` all converge on the
// current schema without a separate upgrade step.
package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"nudge/internal/reminder"
	"nudge/pkg/logx"
)

// ErrUnavailable wraps any failure to open or migrate the database. Commands
// treat it as fatal; the serve loop logs it and keeps firing known items.
var ErrUnavailable = errors.New("reminder store unavailable")

// Config configures the store.
type Config struct {
	// Path of the database file. Empty means ~/.nudge/nudge.db.
	Path string
	// BusyTimeout for concurrent access from other nudge processes.
	// 0 means 5s.
	BusyTimeout time.Duration
}

// Store is the persistence API consumed by the scheduler and the commands.
type Store interface {
	// FindAll returns every reminder, ordered by id.
	FindAll(ctx context.Context) ([]reminder.Reminder, error)
	// Insert validates and persists a new reminder, returning its id.
	Insert(ctx context.Context, title, message, clock string, days reminder.DayMask) (int64, error)
	// Delete removes a reminder by id.
	Delete(ctx context.Context, id int64) error
	// Maintain runs periodic housekeeping (checkpoint, optimize).
	Maintain(ctx context.Context) error
	Close() error
}

// Open initializes the store, creating the data directory and running
// migrations.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	return openSQLite(cfg, log)
}

// DefaultPath resolves the database location under the home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".nudge", "nudge.db"), nil
}

func resolvePath(cfg Config) (string, error) {
	if p := strings.TrimSpace(cfg.Path); p != "" {
		return p, nil
	}
	return DefaultPath()
}
