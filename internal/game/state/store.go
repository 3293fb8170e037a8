// Package state provides the in-memory game state store.
//
// The store is the single source of truth for one game instance. Every
// component reads the latest snapshot via a getter and writes via an
// explicit update call; reads return deep copies so callers can never
// mutate shared state in place. There is no optimistic locking at this
// layer; game logic is a single logical thread of control.
package state

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/storage"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
)

// Listener observes committed game state changes.
type Listener func(domain.GameState)

// Store holds the authoritative game state for one game instance.
type Store struct {
	mu           sync.Mutex
	game         domain.GameState
	journal      storage.Journal
	clock        func() time.Time
	listeners    map[int]Listener
	nextListener int
}

// Option configures a Store.
type Option func(*Store)

// WithJournal attaches a write-behind audit journal. Journal failures are
// logged and never gate game logic.
func WithJournal(journal storage.Journal) Option {
	return func(s *Store) {
		s.journal = journal
	}
}

// WithClock overrides the timestamp source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewStore creates a store seeded with the initial game state.
func NewStore(initial domain.GameState, opts ...Option) *Store {
	s := &Store{
		game:      initial.Clone(),
		clock:     time.Now,
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GameState returns a copy of the current game state.
func (s *Store) GameState() domain.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

// UpdateGameState replaces the whole game state.
func (s *Store) UpdateGameState(game domain.GameState) {
	s.mu.Lock()
	s.game = game.Clone()
	snapshot := s.game.Clone()
	s.mu.Unlock()
	s.notify(snapshot)
}

// Player returns a copy of one player.
func (s *Store) Player(id string) (domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.game.PlayerByID(id)
	if !ok {
		return domain.Player{}, perrors.WithMetadata(perrors.CodePlayerNotFound,
			"player not found", map[string]string{"PlayerID": id})
	}
	return player, nil
}

// UpdatePlayer replaces one player's state.
func (s *Store) UpdatePlayer(player domain.Player) error {
	s.mu.Lock()
	found := false
	for i := range s.game.Players {
		if s.game.Players[i].ID == player.ID {
			s.game.Players[i] = player.Clone()
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return perrors.WithMetadata(perrors.CodePlayerNotFound,
			"player not found", map[string]string{"PlayerID": player.ID})
	}
	snapshot := s.game.Clone()
	s.mu.Unlock()
	s.notify(snapshot)
	return nil
}

// Subscribe registers a listener for committed state changes and returns
// an unsubscribe function. Listeners run synchronously on the mutating
// goroutine with a private copy of the state.
func (s *Store) Subscribe(listener Listener) func() {
	if listener == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = listener
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(snapshot domain.GameState) {
	s.mu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, listener := range s.listeners {
		listeners = append(listeners, listener)
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot.Clone())
	}
}

// SetAwaitingChoice publishes the single globally outstanding choice.
func (s *Store) SetAwaitingChoice(choice domain.Choice) {
	s.mu.Lock()
	cloned := choice.Clone()
	s.game.AwaitingChoice = &cloned
	snapshot := s.game.Clone()
	s.mu.Unlock()
	s.notify(snapshot)
}

// AwaitingChoice returns the outstanding choice, if any.
func (s *Store) AwaitingChoice() (domain.Choice, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.game.AwaitingChoice == nil {
		return domain.Choice{}, false
	}
	return s.game.AwaitingChoice.Clone(), true
}

// ClearAwaitingChoice removes the outstanding choice.
func (s *Store) ClearAwaitingChoice() {
	s.mu.Lock()
	s.game.AwaitingChoice = nil
	snapshot := s.game.Clone()
	s.mu.Unlock()
	s.notify(snapshot)
}

// SavePlayerSnapshot stores the pre-effect snapshot for a player and
// archives it to the journal.
func (s *Store) SavePlayerSnapshot(snapshot domain.Snapshot) {
	s.mu.Lock()
	if snapshot.CapturedAt.IsZero() {
		snapshot.CapturedAt = s.clock()
	}
	if s.game.Snapshots == nil {
		s.game.Snapshots = make(map[string]domain.Snapshot)
	}
	s.game.Snapshots[snapshot.Player.ID] = snapshot.CloneSnapshot()
	journal := s.journal
	s.mu.Unlock()

	if journal != nil {
		if err := journal.SaveSnapshot(context.Background(), snapshot); err != nil {
			log.Printf("journal snapshot: %v", err)
		}
	}
}

// PlayerSnapshot returns the stored snapshot for a player, if any.
func (s *Store) PlayerSnapshot(playerID string) (domain.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, ok := s.game.Snapshots[playerID]
	if !ok {
		return domain.Snapshot{}, false
	}
	return snapshot.CloneSnapshot(), true
}

// ClearPlayerSnapshot discards the stored snapshot for a player.
func (s *Store) ClearPlayerSnapshot(playerID string) {
	s.mu.Lock()
	delete(s.game.Snapshots, playerID)
	s.mu.Unlock()
}

// AppendActionLog appends one entry to the global action log, stamping
// the current turn and time when unset.
func (s *Store) AppendActionLog(entry domain.ActionLogEntry) {
	s.mu.Lock()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.clock()
	}
	if entry.Turn == 0 {
		entry.Turn = s.game.Turn
	}
	s.game.ActionLog = append(s.game.ActionLog, entry)
	journal := s.journal
	snapshot := s.game.Clone()
	s.mu.Unlock()

	if journal != nil {
		if err := journal.AppendAction(context.Background(), entry); err != nil {
			log.Printf("journal action: %v", err)
		}
	}
	s.notify(snapshot)
}
