// Package store persists the full user registry as one durable
// snapshot. The whole document is read once at startup and rewritten
// wholesale after every mutating operation; there is no partial write.
package store

import (
	"context"

	"github.com/Adarshsingh-hub/Personal-Finance-Tracker/internal/core"
)

// Store is the durable snapshot contract. A missing snapshot is not an
// error: Load returns an empty user set. Any key/document store can
// satisfy it; this package ships a JSON file backend and a SQLite one.
type Store interface {
	Load(ctx context.Context) (map[string]*core.User, error)
	Save(ctx context.Context, users map[string]*core.User) error
	Close() error
}
