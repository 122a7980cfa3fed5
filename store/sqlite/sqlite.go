// Package sqlite provides a SQLite-backed persistent data store.
package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wippyai/tardis-games/errors"
	"github.com/wippyai/tardis-games/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS persistent_data (
	app TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Store keeps one blob per app in a SQLite database.
type Store struct {
	sqlDB *sql.DB
}

var _ store.Store = (*Store)(nil)

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.InvalidInput(errors.PhaseStorage, "storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) Load(ctx context.Context, app string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if app == "" {
		return nil, errors.InvalidInput(errors.PhaseStorage, "app id is required")
	}

	var data []byte
	err := s.sqlDB.QueryRowContext(ctx, `SELECT data FROM persistent_data WHERE app = ?`, app).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.PhaseStorage, errors.KindInvalidData, err, "load "+app)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, app string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if app == "" {
		return errors.InvalidInput(errors.PhaseStorage, "app id is required")
	}
	if data == nil {
		data = []byte{}
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO persistent_data (app, data, updated_at) VALUES (?, ?, ?)
ON CONFLICT(app) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
`, app, data, time.Now().UTC().UnixMilli())
	if err != nil {
		return errors.Wrap(errors.PhaseStorage, errors.KindInvalidData, err, "save "+app)
	}
	return nil
}
