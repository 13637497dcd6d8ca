package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/log"
)

// FileStore keeps the snapshot in a single JSON file. Saves go through
// a temp file plus rename so a crash mid-write never leaves a torn
// snapshot behind.
type FileStore struct {
	path   string
	logger *log.Logger
}

func NewFileStore(path string, logger *log.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: logger.WithComponent(log.ComponentStore),
	}
}

func (s *FileStore) Load(_ context.Context) (map[string]*core.User, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.logger.Info("No existing snapshot found, starting fresh", log.FieldPath, s.path)
		return map[string]*core.User{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %v: %w", s.path, err, core.ErrStoreIO)
	}
	users, err := UnmarshalSnapshot(data)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Snapshot loaded", log.FieldPath, s.path, log.FieldUserCount, len(users))
	return users, nil
}

func (s *FileStore) Save(_ context.Context, users map[string]*core.User) error {
	data, err := MarshalSnapshot(users)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot directory %s: %v: %w", dir, err, core.ErrStoreIO)
		}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %v: %w", err, core.ErrStoreIO)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp snapshot: %v: %w", err, core.ErrStoreIO)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %v: %w", err, core.ErrStoreIO)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot %s: %v: %w", s.path, err, core.ErrStoreIO)
	}
	s.logger.Debug("Snapshot saved", log.FieldPath, s.path, log.FieldUserCount, len(users))
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
