// Package memory provides an in-memory journal for tests and ephemeral games.
package memory

import (
	"context"
	"sync"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/storage"
)

// Journal stores the action log and snapshots in memory.
type Journal struct {
	mu        sync.Mutex
	actions   []domain.ActionLogEntry
	snapshots map[string][]domain.Snapshot
}

// NewJournal creates an empty in-memory journal.
func NewJournal() *Journal {
	return &Journal{snapshots: make(map[string][]domain.Snapshot)}
}

// AppendAction records one action log entry.
func (j *Journal) AppendAction(ctx context.Context, entry domain.ActionLogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.actions = append(j.actions, entry)
	return nil
}

// ListActions returns entries in append order.
func (j *Journal) ListActions(ctx context.Context, offset, limit int) ([]domain.ActionLogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if offset < 0 {
		offset = 0
	}
	if offset >= len(j.actions) {
		return nil, nil
	}
	entries := j.actions[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return append([]domain.ActionLogEntry(nil), entries...), nil
}

// SaveSnapshot archives a snapshot for the player.
func (j *Journal) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	playerID := snapshot.Player.ID
	j.snapshots[playerID] = append(j.snapshots[playerID], snapshot.CloneSnapshot())
	return nil
}

// LatestSnapshot returns the most recent snapshot for the player.
func (j *Journal) LatestSnapshot(ctx context.Context, playerID string) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	archive := j.snapshots[playerID]
	if len(archive) == 0 {
		return domain.Snapshot{}, storage.ErrNotFound
	}
	return archive[len(archive)-1].CloneSnapshot(), nil
}
