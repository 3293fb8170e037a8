// Package storage defines the durable journal interfaces for the game core.
//
// The journal is a write-behind audit surface: the in-memory state store
// remains the single source of truth, and journal writes never gate game
// logic. Implementations live in the memory and sqlite subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/groundbreak/internal/game/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ActionLogStore persists the global append-only action log.
type ActionLogStore interface {
	AppendAction(ctx context.Context, entry domain.ActionLogEntry) error
	// ListActions returns up to limit entries in append order, skipping
	// offset entries. A limit <= 0 returns every remaining entry.
	ListActions(ctx context.Context, offset, limit int) ([]domain.ActionLogEntry, error)
}

// SnapshotStore archives per-player pre-effect snapshots.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error
	// LatestSnapshot returns the most recently saved snapshot for the
	// player, or ErrNotFound.
	LatestSnapshot(ctx context.Context, playerID string) (domain.Snapshot, error)
}

// Journal combines the audit stores behind one handle.
type Journal interface {
	ActionLogStore
	SnapshotStore
}
