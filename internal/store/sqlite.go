package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps one JSON document per user in a snapshot table.
// Save replaces the whole table in a single transaction, preserving the
// whole-snapshot overwrite semantics of the file backend.
type SQLiteStore struct {
	db     *sql.DB
	logger *log.Logger
}

func NewSQLiteStore(dbPath string, logger *log.Logger) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logger.WithComponent(log.ComponentStore),
	}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (map[string]*core.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT username, document FROM user_snapshots`)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %v: %w", err, core.ErrStoreIO)
	}
	defer rows.Close()

	users := make(map[string]*core.User)
	for rows.Next() {
		var username, document string
		if err := rows.Scan(&username, &document); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %v: %w", err, core.ErrStoreIO)
		}
		u, err := UnmarshalUser([]byte(document))
		if err != nil {
			return nil, err
		}
		users[username] = u
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %v: %w", err, core.ErrStoreIO)
	}

	s.logger.Info("Snapshot loaded", log.FieldBackend, "sqlite", log.FieldUserCount, len(users))
	return users, nil
}

func (s *SQLiteStore) Save(ctx context.Context, users map[string]*core.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %v: %w", err, core.ErrStoreIO)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_snapshots`); err != nil {
		return fmt.Errorf("clear snapshots: %v: %w", err, core.ErrStoreIO)
	}

	now := time.Now().UTC()
	for username, u := range users {
		document, err := MarshalUser(u)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO user_snapshots (username, document, updated_at) VALUES (?, ?, ?)`,
			username, string(document), now,
		); err != nil {
			return fmt.Errorf("insert snapshot for %q: %v: %w", username, err, core.ErrStoreIO)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot tx: %v: %w", err, core.ErrStoreIO)
	}

	s.logger.Debug("Snapshot saved", log.FieldBackend, "sqlite", log.FieldUserCount, len(users))
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
