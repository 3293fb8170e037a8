// Package sqlite provides the SQLite-backed journal.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/storage"
	"github.com/louisbranch/groundbreak/internal/game/storage/sqlite/migrations"
	"github.com/louisbranch/groundbreak/internal/platform/storage/sqlitemigrate"
)

// Store is a SQLite journal implementing storage.Journal.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (or creates) a SQLite journal at the provided path and
// applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.JournalFS, "journal"); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
//
// Close is intentionally nil-safe so callers can defer it in all startup paths.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// AppendAction records one action log entry.
func (s *Store) AppendAction(ctx context.Context, entry domain.ActionLogEntry) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("journal store is required")
	}
	timestamp := entry.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO actions (level, message, player_id, source, turn, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		string(entry.Level), entry.Message, entry.PlayerID, entry.Source, entry.Turn, toMillis(timestamp),
	)
	if err != nil {
		return fmt.Errorf("append action: %w", err)
	}
	return nil
}

// ListActions returns entries in append order.
func (s *Store) ListActions(ctx context.Context, offset, limit int) ([]domain.ActionLogEntry, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("journal store is required")
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT level, message, player_id, source, turn, created_at FROM actions ORDER BY seq LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	defer rows.Close()

	var entries []domain.ActionLogEntry
	for rows.Next() {
		var entry domain.ActionLogEntry
		var level string
		var createdAt int64
		if err := rows.Scan(&level, &entry.Message, &entry.PlayerID, &entry.Source, &entry.Turn, &createdAt); err != nil {
			return nil, fmt.Errorf("scan action: %w", err)
		}
		entry.Level = domain.LogLevel(level)
		entry.Timestamp = fromMillis(createdAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list actions: %w", err)
	}
	return entries, nil
}

// SaveSnapshot archives a snapshot for the player. The snapshot body is
// stored as JSON; the journal schema only indexes player and space.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot domain.Snapshot) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("journal store is required")
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	capturedAt := snapshot.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}
	_, err = s.sqlDB.ExecContext(ctx,
		`INSERT INTO snapshots (player_id, space, turn, payload, created_at) VALUES (?, ?, ?, ?, ?)`,
		snapshot.Player.ID, snapshot.SpaceName, snapshot.Turn, string(payload), toMillis(capturedAt),
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent snapshot for the player.
func (s *Store) LatestSnapshot(ctx context.Context, playerID string) (domain.Snapshot, error) {
	if s == nil || s.sqlDB == nil {
		return domain.Snapshot{}, fmt.Errorf("journal store is required")
	}

	var payload string
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE player_id = ? ORDER BY seq DESC LIMIT 1`, playerID)
	if err := row.Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return domain.Snapshot{}, storage.ErrNotFound
		}
		return domain.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}
