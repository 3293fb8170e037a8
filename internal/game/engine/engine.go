// Package engine assembles the game core: state store, ledger, rule
// oracle, choice broker, card store, effect engine, and turn
// coordinator, wired in two phases to break the coordinator/engine and
// cards/engine cycles.
package engine

import (
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/groundbreak/internal/game/cards"
	"github.com/louisbranch/groundbreak/internal/game/choice"
	"github.com/louisbranch/groundbreak/internal/game/data"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/effect"
	"github.com/louisbranch/groundbreak/internal/game/ledger"
	"github.com/louisbranch/groundbreak/internal/game/rules"
	"github.com/louisbranch/groundbreak/internal/game/state"
	"github.com/louisbranch/groundbreak/internal/game/storage"
	"github.com/louisbranch/groundbreak/internal/game/tuning"
	"github.com/louisbranch/groundbreak/internal/game/turn"
	"github.com/louisbranch/groundbreak/internal/platform/id"
)

// Game is one fully wired game instance.
type Game struct {
	State   *state.Store
	Ledger  *ledger.Ledger
	Rules   *rules.Oracle
	Broker  *choice.Broker
	Cards   *cards.Store
	Effects *effect.Engine
	Turns   *turn.Coordinator

	data   data.Provider
	tuning tuning.Tuning
}

// Option configures a Game.
type Option func(*options)

type options struct {
	stateOpts []state.Option
	cardOpts  []cards.Option
	turnOpts  []turn.Option
}

// WithJournal persists action log entries and snapshots behind the
// in-memory state store.
func WithJournal(journal storage.Journal) Option {
	return func(o *options) { o.stateOpts = append(o.stateOpts, state.WithJournal(journal)) }
}

// WithCardOptions forwards options to the card store.
func WithCardOptions(opts ...cards.Option) Option {
	return func(o *options) { o.cardOpts = append(o.cardOpts, opts...) }
}

// WithTurnOptions forwards options to the turn coordinator.
func WithTurnOptions(opts ...turn.Option) Option {
	return func(o *options) { o.turnOpts = append(o.turnOpts, opts...) }
}

// New builds and wires a game core around the content provider.
func New(provider data.Provider, t tuning.Tuning, opts ...Option) *Game {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	st := state.NewStore(domain.GameState{Phase: domain.PhaseSetup}, o.stateOpts...)
	l := ledger.New(st)
	oracle := rules.New(st, provider, t)
	broker := choice.New(st)
	cardStore := cards.NewStore(st, provider, o.cardOpts...)

	effects := effect.New(st, l, oracle, broker, provider)
	turns := turn.New(st, provider, l, oracle, broker, cardStore, t, o.turnOpts...)

	// Second wiring phase: the engine and coordinator hold each other.
	effects.SetCardStore(cardStore)
	effects.SetTurnControl(turns)
	turns.SetEffectProcessor(effects)

	return &Game{
		State:   st,
		Ledger:  l,
		Rules:   oracle,
		Broker:  broker,
		Cards:   cardStore,
		Effects: effects,
		Turns:   turns,
		data:    provider,
		tuning:  t,
	}
}

// PlayerSetup describes one seat at game start.
type PlayerSetup struct {
	Name  string
	Color string
}

// StartGame seats the players, shuffles the decks, places everyone on
// the starting space, and opens the first turn.
func (g *Game) StartGame(setups []PlayerSetup) error {
	if len(setups) == 0 {
		return fmt.Errorf("start game: at least one player required")
	}
	game := g.State.GameState()
	if game.Phase != domain.PhaseSetup {
		return fmt.Errorf("start game: game already started")
	}
	if _, err := g.data.SpaceByName(g.tuning.StartingSpace); err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	players := make([]domain.Player, len(setups))
	for i, setup := range setups {
		name := strings.TrimSpace(setup.Name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		players[i] = domain.Player{
			ID:            id.NewID(),
			Name:          name,
			Color:         setup.Color,
			CurrentSpace:  g.tuning.StartingSpace,
			VisitType:     domain.VisitFirst,
			VisitedSpaces: []string{g.tuning.StartingSpace},
			Money:         g.tuning.StartingMoney,
			MoneySources:  map[string]int{},
		}
	}

	game.Players = players
	game.Phase = domain.PhasePlay
	game.Turn = 1
	game.CurrentPlayerID = players[0].ID
	game.CompletedActions = map[string]bool{}
	g.State.UpdateGameState(game)

	if err := g.Cards.InitializeDecks(); err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	if err := g.Turns.BeginTurn(players[0].ID); err != nil {
		return fmt.Errorf("start game: %w", err)
	}

	g.State.AppendActionLog(domain.ActionLogEntry{
		Level:   domain.LogInfo,
		Message: fmt.Sprintf("Game started with %d players on %s", len(players), g.tuning.StartingSpace),
		Source:  "game",
	})
	return nil
}

// ResolveChoice forwards a player's selection to the broker. A resolved
// movement choice also records the destination with the coordinator so
// the next end turn commits the move.
func (g *Game) ResolveChoice(choiceID, optionID string) bool {
	active, ok := g.Broker.Active()
	if !g.Broker.Resolve(choiceID, optionID) {
		return false
	}
	if ok && active.Type == domain.ChoiceMovement {
		if err := g.Turns.CommitDestination(active.PlayerID, optionID); err != nil {
			log.Printf("commit destination %s: %v", optionID, err)
		}
	}
	return true
}

// Reset force-rejects pending choices and returns the game to setup.
func (g *Game) Reset() {
	g.Broker.ClearAll()
	g.State.UpdateGameState(domain.GameState{Phase: domain.PhaseSetup})
}
