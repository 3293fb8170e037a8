package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestAppendAndListActions(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []domain.ActionLogEntry{
		{Level: domain.LogInfo, Message: "Game started", Turn: 0},
		{Level: domain.LogInfo, Message: "Alice rolled a 4", PlayerID: "p1", Source: "dice", Turn: 1},
		{Level: domain.LogWarn, Message: "Deck empty", Source: "cards", Turn: 1},
	}
	for _, entry := range entries {
		if err := store.AppendAction(ctx, entry); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := store.ListActions(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}
	if got[1].Message != "Alice rolled a 4" {
		t.Fatalf("entry order wrong: %q", got[1].Message)
	}
	if got[1].PlayerID != "p1" || got[1].Turn != 1 {
		t.Fatalf("entry fields lost: %+v", got[1])
	}
	if got[2].Level != domain.LogWarn {
		t.Fatalf("level = %s, want WARN", got[2].Level)
	}

	paged, err := store.ListActions(ctx, 1, 1)
	if err != nil {
		t.Fatalf("list paged: %v", err)
	}
	if len(paged) != 1 || paged[0].Message != "Alice rolled a 4" {
		t.Fatalf("paged = %+v", paged)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := domain.Snapshot{
		Player:    domain.Player{ID: "p1", Money: 1000, Hand: []string{"W001"}},
		SpaceName: "OWNER-SCOPE-INITIATION",
		Turn:      2,
		CapturedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	second := first
	second.Player.Money = 750
	second.Turn = 3

	if err := store.SaveSnapshot(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.SaveSnapshot(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.LatestSnapshot(ctx, "p1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got.Turn != 3 || got.Player.Money != 750 {
		t.Fatalf("latest snapshot = turn %d money %d, want turn 3 money 750", got.Turn, got.Player.Money)
	}
	if len(got.Player.Hand) != 1 || got.Player.Hand[0] != "W001" {
		t.Fatalf("hand lost in round trip: %v", got.Player.Hand)
	}
}

func TestLatestSnapshotMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.LatestSnapshot(context.Background(), "nobody")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
