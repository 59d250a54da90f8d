package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"nudge/internal/reminder"
	"nudge/pkg/logx"
)

// migrations is an append-only statement chain. The recorded schema version
// is the number of statements already applied; never reorder or edit entries.
var migrations = []string{
	`CREATE TABLE reminder (
		id      INTEGER PRIMARY KEY NOT NULL,
		title   TEXT NOT NULL,
		message TEXT NOT NULL,
		time    TEXT NOT NULL,
		day     INTEGER NOT NULL
	)`,
}

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	path, err := resolvePath(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	busy := cfg.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", busy.Milliseconds()))
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	st := &sqliteStore{db: db, log: log}
	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: migrate: %v", ErrUnavailable, err)
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	version, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		if _, err := s.db.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("statement %d: %w", i, err)
		}
		if _, err := s.db.ExecContext(ctx, "UPDATE version SET v = ?", i+1); err != nil {
			return err
		}
		s.log.Debug("schema migrated", logx.Int("version", i+1))
	}
	return nil
}

func (s *sqliteStore) schemaVersion(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'version'",
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		if _, err := s.db.ExecContext(ctx, "CREATE TABLE version (v INTEGER)"); err != nil {
			return 0, err
		}
		if _, err := s.db.ExecContext(ctx, "INSERT INTO version (v) VALUES (0)"); err != nil {
			return 0, err
		}
	}
	var v int
	if err := s.db.QueryRowContext(ctx, "SELECT v FROM version").Scan(&v); err != nil {
		return 0, err
	}
	return v, nil
}

func (s *sqliteStore) FindAll(ctx context.Context) ([]reminder.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, message, time, day FROM reminder ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var list []reminder.Reminder
	for rows.Next() {
		var (
			id             int64
			title, message string
			clock          string
			day            uint8
		)
		if err := rows.Scan(&id, &title, &message, &clock, &day); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		r, err := reminder.New(id, title, message, clock, reminder.DayMask(day))
		if err != nil {
			// A row that no longer validates should not take the daemon
			// down; it is skipped until the user removes it.
			s.log.Warn("skipping invalid reminder row",
				logx.Int64("id", id), logx.Err(err))
			continue
		}
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return list, nil
}

func (s *sqliteStore) Insert(ctx context.Context, title, message, clock string, days reminder.DayMask) (int64, error) {
	// The reminder constructor is the sole validator of the time format and
	// the mask; nothing unvalidated reaches the table.
	r, err := reminder.New(0, title, message, clock, days)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO reminder (title, message, time, day) VALUES (?, ?, ?, ?)",
		r.Title, r.Message, r.Clock(), uint8(r.Days),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return id, nil
}

func (s *sqliteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM reminder WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if n == 0 {
		return fmt.Errorf("no reminder with id %d", id)
	}
	return nil
}

func (s *sqliteStore) Maintain(ctx context.Context) error {
	for _, stmt := range []string{
		"PRAGMA wal_checkpoint(TRUNCATE)",
		"PRAGMA optimize",
	} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
