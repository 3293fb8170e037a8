package turn

import (
	"context"
	"fmt"

	"github.com/louisbranch/groundbreak/internal/core/dice"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/effect"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
	"go.opentelemetry.io/otel/attribute"
)

// RollDice rolls the movement die for the current player, resolves the
// destination from the space's dice table, and feeds any dice-triggered
// effects through the effect engine.
//
// A second roll in the same turn is rejected unless the player holds a
// reroll grant, which the roll consumes.
func (c *Coordinator) RollDice(ctx context.Context, playerID string) (Feedback, error) {
	ctx, span := tracer.Start(ctx, "turn.roll_dice")
	defer span.End()
	span.SetAttributes(attribute.String("player.id", playerID))

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.rules.IsPlayerTurn(playerID) {
		return Feedback{}, perrors.New(perrors.CodeTurnNotPlayerTurn, "it is not this player's turn")
	}
	player, err := c.state.Player(playerID)
	if err != nil {
		return Feedback{}, err
	}

	game := c.state.GameState()
	if game.HasRolledDice {
		if !player.TurnModifiers.CanReroll {
			return Feedback{}, perrors.New(perrors.CodeTurnDiceAlreadyRolled, "dice already rolled this turn")
		}
		player.TurnModifiers.CanReroll = false
		if err := c.state.UpdatePlayer(player); err != nil {
			return Feedback{}, err
		}
		// UpdateGameState below replaces the whole state, so pick up
		// the consumed grant before writing.
		game = c.state.GameState()
	}

	roll, err := dice.RollWithRng(c.rng, []dice.Spec{{Sides: 6, Count: 1}})
	if err != nil {
		return Feedback{}, err
	}
	face := roll.Total
	game.LastDiceRoll = face
	game.HasRolledDice = true

	feedback := Feedback{Success: true, DiceRoll: face}

	// Dice-type movement resolves the destination now; it commits on
	// end turn.
	rule, err := c.data.MovementRule(player.CurrentSpace, player.VisitType)
	if err == nil && rule.MovementType == domain.MovementDice {
		if destination, ok := c.data.DiceDestination(player.CurrentSpace, player.VisitType, face); ok {
			game.PendingDestination = destination
			feedback.Destination = destination
		}
	}
	c.state.UpdateGameState(game)

	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("%s rolled a %d", player.Name, face),
		PlayerID: playerID,
		Source:   "space:" + player.CurrentSpace,
	})

	feedback.Batch = c.runDiceEffects(ctx, playerID, player.CurrentSpace, player.VisitType, face)
	if feedback.Batch.Failed > 0 {
		feedback.Message = fmt.Sprintf("%d of %d dice effects failed", feedback.Batch.Failed, feedback.Batch.Total)
	}
	return feedback, nil
}

// runDiceEffects gathers the dice-triggered effect rows whose condition
// matches the rolled face and applies them in row order.
func (c *Coordinator) runDiceEffects(ctx context.Context, playerID, spaceName string, visit domain.VisitType, face int) effect.BatchResult {
	if c.engine == nil {
		return effect.BatchResult{}
	}
	var effects []domain.Effect
	for _, row := range c.data.DiceEffects(spaceName, visit) {
		if !c.rules.EvaluateCondition(playerID, row.Condition, face) {
			continue
		}
		effects = append(effects, rowEffects(row, playerID)...)
	}
	if len(effects) == 0 {
		return effect.BatchResult{}
	}
	return c.engine.ProcessEffects(ctx, effects, playerID, "space:"+spaceName)
}
