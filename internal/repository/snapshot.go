// Package repository implements the snapshot persistence adapter: the
// whole user record is loaded and saved as one JSON object under a single
// fixed key, mirroring the browser local-storage contract this system
// replaces. No backend does partial updates or migrations.
package repository

import (
	"context"

	"edutech_backend/internal/model"
)

// SnapshotStore persists the single active user record. Load returns
// util.ErrSnapshotNotFound when no record exists and
// util.ErrSnapshotCorrupt when an existing record cannot be parsed;
// callers treat corruption as a clean reset.
type SnapshotStore interface {
	Load(ctx context.Context) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	Clear(ctx context.Context) error
}
