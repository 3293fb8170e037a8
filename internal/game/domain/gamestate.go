package domain

import "time"

// Phase is the coarse game lifecycle phase.
type Phase string

const (
	PhaseSetup Phase = "SETUP"
	PhasePlay  Phase = "PLAY"
	PhaseEnd   Phase = "END"
)

// ActionLogEntry is one append-only record in the global action log.
type ActionLogEntry struct {
	Level     LogLevel
	Message   string
	PlayerID  string
	Source    string
	Turn      int
	Timestamp time.Time
}

// Snapshot is a captured copy of a player's state plus the per-turn
// bookkeeping needed to revert via "try again". Captured on space entry.
type Snapshot struct {
	Player           Player
	SpaceName        string
	Turn             int
	HasRolledDice    bool
	HasMoved         bool
	LastDiceRoll     int
	RequiredActions  int
	CompletedActions map[string]bool
	CapturedAt       time.Time
}

// CloneSnapshot returns a deep copy of the snapshot.
func (s Snapshot) CloneSnapshot() Snapshot {
	clone := s
	clone.Player = s.Player.Clone()
	if s.CompletedActions != nil {
		clone.CompletedActions = make(map[string]bool, len(s.CompletedActions))
		for category, done := range s.CompletedActions {
			clone.CompletedActions[category] = done
		}
	}
	return clone
}

// GameState is the whole-game shared state.
//
// Invariants: CurrentPlayerID references an existing player while
// Phase == PhasePlay. Per-turn bookkeeping (HasRolledDice, HasMoved,
// RequiredActions, CompletedActions, AvailableActionTypes) resets at the
// start of every turn.
type GameState struct {
	Players         []Player
	CurrentPlayerID string
	Phase           Phase
	// Turn counts completed player-turns across the whole game.
	Turn int

	// Per-turn bookkeeping for the current player.
	HasRolledDice bool
	HasMoved      bool
	// LastDiceRoll is the face of this turn's movement roll, 0 before rolling.
	LastDiceRoll         int
	RequiredActions      int
	CompletedActions     map[string]bool
	AvailableActionTypes []string
	// PendingDestination holds a selected but uncommitted movement target.
	PendingDestination string

	// AwaitingChoice is the single globally outstanding choice, if any.
	AwaitingChoice *Choice

	ActiveNegotiation *Negotiation

	// Decks and DiscardPiles hold card ids per type, top of deck last.
	Decks        map[CardType][]string
	DiscardPiles map[CardType][]string

	ActionLog []ActionLogEntry

	// Snapshots holds the optional pre-effect snapshot per player id.
	Snapshots map[string]Snapshot

	Winner string
}

// PlayerByID returns a copy of the player and whether it exists.
func (g GameState) PlayerByID(id string) (Player, bool) {
	for _, player := range g.Players {
		if player.ID == id {
			return player.Clone(), true
		}
	}
	return Player{}, false
}

// CompletedActionCount counts the categories completed this turn.
func (g GameState) CompletedActionCount() int {
	count := 0
	for _, done := range g.CompletedActions {
		if done {
			count++
		}
	}
	return count
}

// Clone returns a deep copy of the game state.
func (g GameState) Clone() GameState {
	clone := g

	clone.Players = make([]Player, len(g.Players))
	for i, player := range g.Players {
		clone.Players[i] = player.Clone()
	}

	if g.CompletedActions != nil {
		clone.CompletedActions = make(map[string]bool, len(g.CompletedActions))
		for category, done := range g.CompletedActions {
			clone.CompletedActions[category] = done
		}
	}
	clone.AvailableActionTypes = append([]string(nil), g.AvailableActionTypes...)

	if g.AwaitingChoice != nil {
		choice := g.AwaitingChoice.Clone()
		clone.AwaitingChoice = &choice
	}
	if g.ActiveNegotiation != nil {
		negotiation := g.ActiveNegotiation.Clone()
		clone.ActiveNegotiation = &negotiation
	}

	if g.Decks != nil {
		clone.Decks = make(map[CardType][]string, len(g.Decks))
		for cardType, ids := range g.Decks {
			clone.Decks[cardType] = append([]string(nil), ids...)
		}
	}
	if g.DiscardPiles != nil {
		clone.DiscardPiles = make(map[CardType][]string, len(g.DiscardPiles))
		for cardType, ids := range g.DiscardPiles {
			clone.DiscardPiles[cardType] = append([]string(nil), ids...)
		}
	}

	clone.ActionLog = append([]ActionLogEntry(nil), g.ActionLog...)

	if g.Snapshots != nil {
		clone.Snapshots = make(map[string]Snapshot, len(g.Snapshots))
		for playerID, snapshot := range g.Snapshots {
			clone.Snapshots[playerID] = snapshot.CloneSnapshot()
		}
	}

	return clone
}
