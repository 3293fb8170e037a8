// Package turn is the top-level state machine for player turns: dice
// rolls, manual space actions, end-turn gating, turn modifiers, the
// negotiation sub-flow, and the snapshot-backed "try again" rollback.
package turn

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/louisbranch/groundbreak/internal/game/cards"
	"github.com/louisbranch/groundbreak/internal/game/choice"
	"github.com/louisbranch/groundbreak/internal/game/data"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/effect"
	"github.com/louisbranch/groundbreak/internal/game/ledger"
	"github.com/louisbranch/groundbreak/internal/game/rules"
	"github.com/louisbranch/groundbreak/internal/game/state"
	"github.com/louisbranch/groundbreak/internal/game/tuning"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
	"github.com/louisbranch/groundbreak/internal/random"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/louisbranch/groundbreak/internal/game/turn")

// EffectProcessor is the slice of the effect engine the coordinator
// drives. Wired after construction; the engine holds the coordinator in
// the other direction for TURN_CONTROL and MOVEMENT effects.
type EffectProcessor interface {
	ProcessEffects(ctx context.Context, effects []domain.Effect, targetPlayerID, source string) effect.BatchResult
	ProcessCardEffects(ctx context.Context, playerID, cardID string) (effect.BatchResult, error)
}

// Feedback is the player-facing outcome of a turn operation.
type Feedback struct {
	Success     bool
	Message     string
	DiceRoll    int
	Destination string
	DrawnCardID string
	Batch       effect.BatchResult
}

// Coordinator orchestrates turns over the shared game state.
type Coordinator struct {
	mu     sync.Mutex
	state  *state.Store
	data   data.Provider
	ledger *ledger.Ledger
	rules  *rules.Oracle
	broker *choice.Broker
	cards  *cards.Store
	tuning tuning.Tuning
	rng    *rand.Rand

	engine EffectProcessor
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithRand replaces the dice source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

// New creates a turn coordinator. The effect engine is wired afterwards
// via SetEffectProcessor.
func New(st *state.Store, provider data.Provider, l *ledger.Ledger, oracle *rules.Oracle, broker *choice.Broker, cardStore *cards.Store, t tuning.Tuning, opts ...Option) *Coordinator {
	c := &Coordinator{
		state:  st,
		data:   provider,
		ledger: l,
		rules:  oracle,
		broker: broker,
		cards:  cardStore,
		tuning: t,
		rng:    random.NewRand(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetEffectProcessor wires the effect engine after construction.
func (c *Coordinator) SetEffectProcessor(engine EffectProcessor) {
	c.engine = engine
}

// SetTurnModifier applies a turn-control action to the player.
// SKIP_TURN stacks; GRANT_REROLL is a one-shot flag.
func (c *Coordinator) SetTurnModifier(playerID string, action domain.TurnControlAction, reason string) error {
	player, err := c.state.Player(playerID)
	if err != nil {
		return err
	}
	switch action {
	case domain.TurnControlSkipTurn:
		player.TurnModifiers.SkipTurns++
	case domain.TurnControlGrantReroll:
		player.TurnModifiers.CanReroll = true
	default:
		return perrors.WithMetadata(perrors.CodeEffectUnsupported,
			"unknown turn control action", map[string]string{"Action": string(action)})
	}
	if err := c.state.UpdatePlayer(player); err != nil {
		return err
	}
	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("Turn modifier %s applied to %s", action, player.Name),
		PlayerID: playerID,
		Source:   reason,
	})
	return nil
}

// BeginTurn primes the per-turn bookkeeping for the player whose turn
// is starting and captures their revert point.
func (c *Coordinator) BeginTurn(playerID string) error {
	player, err := c.state.Player(playerID)
	if err != nil {
		return err
	}
	game := c.state.GameState()
	game.CurrentPlayerID = playerID
	game.HasRolledDice = false
	game.HasMoved = false
	game.LastDiceRoll = 0
	game.PendingDestination = ""
	c.configureSpaceActions(&game, player)
	c.state.UpdateGameState(game)
	c.captureSnapshot(playerID)
	return nil
}

// MovePlayer relocates the player, resolves the visit type, captures
// the space-entry snapshot, and runs the space's automatic effects.
func (c *Coordinator) MovePlayer(playerID, destination string) error {
	if _, err := c.data.SpaceByName(destination); err != nil {
		return err
	}
	player, err := c.state.Player(playerID)
	if err != nil {
		return err
	}

	if player.HasVisited(destination) {
		player.VisitType = domain.VisitSubsequent
	} else {
		player.VisitType = domain.VisitFirst
	}
	player.CurrentSpace = destination
	player.VisitedSpaces = append(player.VisitedSpaces, destination)
	if err := c.state.UpdatePlayer(player); err != nil {
		return err
	}

	game := c.state.GameState()
	if game.CurrentPlayerID == playerID {
		game.HasMoved = true
		game.PendingDestination = ""
		c.configureSpaceActions(&game, player)
	}
	c.state.UpdateGameState(game)

	c.captureSnapshot(playerID)
	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("%s moved to %s", player.Name, destination),
		PlayerID: playerID,
		Source:   "space:" + destination,
	})

	c.runAutoSpaceEffects(playerID)
	return nil
}

// offerMovementChoice publishes a movement choice listing the player's
// reachable destinations. The selection comes back through
// CommitDestination and the move itself lands on end turn.
func (c *Coordinator) offerMovementChoice(playerID string, destinations []string) error {
	options := make([]domain.ChoiceOption, 0, len(destinations))
	for _, destination := range destinations {
		options = append(options, domain.ChoiceOption{ID: destination, Label: destination})
	}
	_, err := c.broker.Create(playerID, domain.ChoiceMovement, "Choose the next space", options)
	return err
}

// CommitDestination records the destination a resolved movement choice
// selected. End turn commits the actual move.
func (c *Coordinator) CommitDestination(playerID, destination string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.rules.IsPlayerTurn(playerID) {
		return perrors.New(perrors.CodeTurnNotPlayerTurn, "it is not this player's turn")
	}
	if !c.rules.IsMoveValid(playerID, destination) {
		return perrors.WithMetadata(perrors.CodeTurnMoveInvalid,
			"destination is not reachable from this space",
			map[string]string{"SpaceName": destination})
	}

	game := c.state.GameState()
	game.PendingDestination = destination
	c.state.UpdateGameState(game)

	player, err := c.state.Player(playerID)
	if err != nil {
		return err
	}
	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("%s will move to %s", player.Name, destination),
		PlayerID: playerID,
		Source:   "space:" + player.CurrentSpace,
	})
	return nil
}

// configureSpaceActions derives the per-turn action bookkeeping from the
// space the current player now occupies.
func (c *Coordinator) configureSpaceActions(game *domain.GameState, player domain.Player) {
	categories := manualCategories(c.data.SpaceEffects(player.CurrentSpace, player.VisitType))
	game.RequiredActions = len(categories)
	game.AvailableActionTypes = categories
	game.CompletedActions = make(map[string]bool)
}

func manualCategories(rows []domain.SpaceEffectRow) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, row := range rows {
		if row.Trigger != domain.TriggerManual || seen[row.EffectType] {
			continue
		}
		seen[row.EffectType] = true
		categories = append(categories, row.EffectType)
	}
	return categories
}

// captureSnapshot records the player's state on space entry for the
// try-again rollback.
func (c *Coordinator) captureSnapshot(playerID string) {
	player, err := c.state.Player(playerID)
	if err != nil {
		return
	}
	game := c.state.GameState()
	completed := make(map[string]bool, len(game.CompletedActions))
	for category, done := range game.CompletedActions {
		completed[category] = done
	}
	c.state.SavePlayerSnapshot(domain.Snapshot{
		Player:           player,
		SpaceName:        player.CurrentSpace,
		Turn:             game.Turn,
		HasRolledDice:    game.HasRolledDice,
		HasMoved:         game.HasMoved,
		LastDiceRoll:     game.LastDiceRoll,
		RequiredActions:  game.RequiredActions,
		CompletedActions: completed,
	})
}

// runAutoSpaceEffects fires the destination's automatic entry effects.
func (c *Coordinator) runAutoSpaceEffects(playerID string) {
	if c.engine == nil {
		return
	}
	player, err := c.state.Player(playerID)
	if err != nil {
		return
	}
	game := c.state.GameState()

	var effects []domain.Effect
	for _, row := range c.data.SpaceEffects(player.CurrentSpace, player.VisitType) {
		if row.Trigger != domain.TriggerAuto {
			continue
		}
		if !c.rules.EvaluateCondition(playerID, row.Condition, game.LastDiceRoll) {
			continue
		}
		effects = append(effects, rowEffects(row, playerID)...)
	}
	if len(effects) == 0 {
		return
	}
	c.engine.ProcessEffects(context.Background(), effects, playerID, "space:"+player.CurrentSpace)
}

// rowEffects translates one content effect row into engine effects.
func rowEffects(row domain.SpaceEffectRow, playerID string) []domain.Effect {
	source := "space:" + row.SpaceName

	switch row.EffectType {
	case "money":
		amount := row.Value
		if row.Action == "spend" || row.Action == "fee" {
			amount = -amount
		}
		return []domain.Effect{domain.NewResourceChange(playerID, domain.ResourceMoney, amount, source, row.Description)}
	case "time":
		// "Spending" time at a space accrues days on the project clock;
		// only explicit save actions reduce it.
		amount := row.Value
		if row.Action == "save" || row.Action == "remove" {
			amount = -amount
		}
		return []domain.Effect{domain.NewResourceChange(playerID, domain.ResourceTime, amount, source, row.Description)}
	case "cards":
		return cardRowEffects(row, playerID, source)
	default:
		return nil
	}
}

func cardRowEffects(row domain.SpaceEffectRow, playerID, source string) []domain.Effect {
	verb, letter, ok := splitCardAction(row.Action)
	if !ok {
		return nil
	}
	cardType, err := domain.ParseCardType(letter)
	if err != nil {
		return nil
	}
	count := row.Value
	if count <= 0 {
		count = 1
	}
	switch verb {
	case "draw":
		return []domain.Effect{domain.NewCardDraw(playerID, cardType, count, source)}
	case "discard":
		return []domain.Effect{{
			Type:     domain.EffectCardDiscard,
			Source:   source,
			PlayerID: playerID,
			CardDiscard: &domain.CardDiscardPayload{
				CardType: cardType,
				Count:    count,
				Reason:   row.Description,
			},
		}}
	default:
		return nil
	}
}

// splitCardAction parses actions like "draw_e" or "discard_w".
func splitCardAction(action string) (verb, letter string, ok bool) {
	for _, v := range []string{"draw", "discard"} {
		prefix := v + "_"
		if len(action) == len(prefix)+1 && action[:len(prefix)] == prefix {
			letter = action[len(prefix):]
			// Deck letters are upper-case in content files.
			if letter >= "a" && letter <= "z" {
				letter = string(letter[0] - 'a' + 'A')
			}
			return v, letter, true
		}
	}
	return "", "", false
}
