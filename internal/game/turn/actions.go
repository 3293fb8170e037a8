package turn

import (
	"context"
	"fmt"

	"github.com/louisbranch/groundbreak/internal/game/cards"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/rules"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
	"go.opentelemetry.io/otel/attribute"
)

// TriggerManualEffect runs the matching manual space effect for one
// action category and marks the category completed. Re-triggering a
// completed category fails without side effects. An attempt whose
// effects all fail leaves the category open for another try.
func (c *Coordinator) TriggerManualEffect(ctx context.Context, playerID, category string) (Feedback, error) {
	ctx, span := tracer.Start(ctx, "turn.manual_effect")
	defer span.End()
	span.SetAttributes(
		attribute.String("player.id", playerID),
		attribute.String("effect.category", category),
	)

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
	if game.CompletedActions[category] {
		return Feedback{}, perrors.WithMetadata(perrors.CodeTurnActionCompleted,
			"action already completed this turn", map[string]string{"Category": category})
	}

	var effects []domain.Effect
	for _, row := range c.data.SpaceEffects(player.CurrentSpace, player.VisitType) {
		if row.Trigger != domain.TriggerManual || row.EffectType != category {
			continue
		}
		if !c.rules.EvaluateCondition(playerID, row.Condition, game.LastDiceRoll) {
			continue
		}
		effects = append(effects, rowEffects(row, playerID)...)
	}
	if len(effects) == 0 {
		return Feedback{}, perrors.WithMetadata(perrors.CodeNotFound,
			"no manual effect for this category on this space",
			map[string]string{"Category": category, "SpaceName": player.CurrentSpace})
	}

	batch := c.engine.ProcessEffects(ctx, effects, playerID, "space:"+player.CurrentSpace)

	if batch.Failed == 0 {
		game = c.state.GameState()
		if game.CompletedActions == nil {
			game.CompletedActions = make(map[string]bool)
		}
		game.CompletedActions[category] = true
		c.state.UpdateGameState(game)
	}

	feedback := Feedback{Success: batch.Failed == 0, Batch: batch}
	if batch.Failed > 0 {
		feedback.Message = fmt.Sprintf("%d of %d effects failed", batch.Failed, batch.Total)
	}
	return feedback, nil
}

// EndTurn verifies the turn's obligations are met, commits any pending
// movement, checks for game end, and advances to the next player.
func (c *Coordinator) EndTurn(ctx context.Context, playerID string) error {
	_, span := tracer.Start(ctx, "turn.end_turn")
	defer span.End()
	span.SetAttributes(attribute.String("player.id", playerID))

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.rules.IsPlayerTurn(playerID) {
		return perrors.New(perrors.CodeTurnNotPlayerTurn, "it is not this player's turn")
	}

	game := c.state.GameState()
	if game.ActiveNegotiation != nil {
		return perrors.New(perrors.CodeTurnNegotiationActive, "a negotiation is still open")
	}
	if choice, ok := c.state.AwaitingChoice(); ok {
		// A movement choice with a committed destination no longer blocks.
		if choice.Type != domain.ChoiceMovement || game.PendingDestination == "" {
			return perrors.New(perrors.CodeTurnChoiceOutstanding, "a choice is awaiting resolution")
		}
	}
	if game.CompletedActionCount() < game.RequiredActions {
		return perrors.WithMetadata(perrors.CodeTurnActionsPending,
			"required actions are not completed",
			map[string]string{
				"Completed": fmt.Sprint(game.CompletedActionCount()),
				"Required":  fmt.Sprint(game.RequiredActions),
			})
	}

	player, err := c.state.Player(playerID)
	if err != nil {
		return err
	}
	if rule, err := c.data.MovementRule(player.CurrentSpace, player.VisitType); err == nil {
		if rule.MovementType == domain.MovementDice && !game.HasRolledDice {
			return perrors.New(perrors.CodeTurnDiceNotRolled, "roll the dice before ending the turn")
		}
		// Fixed and choice movement resolve here. A single destination
		// is a forced move; several need a movement choice first.
		if rule.MovementType != domain.MovementDice && game.PendingDestination == "" && !game.HasMoved {
			switch moves := c.rules.AvailableMoves(playerID); len(moves) {
			case 0:
			case 1:
				game.PendingDestination = moves[0]
			default:
				if err := c.offerMovementChoice(playerID, moves); err != nil {
					return err
				}
				return perrors.New(perrors.CodeTurnChoiceOutstanding, "select a destination to end the turn")
			}
		}
	}

	if game.PendingDestination != "" {
		if err := c.MovePlayer(playerID, game.PendingDestination); err != nil {
			return err
		}
	}

	if check := c.rules.CheckGameEnd(); check.Ended {
		return c.finishGame(check.Reason)
	}

	return c.advanceTurn(playerID)
}

func (c *Coordinator) finishGame(reason rules.EndReason) error {
	winner, err := c.rules.DetermineWinner()
	if err != nil {
		return err
	}
	game := c.state.GameState()
	game.Phase = domain.PhaseEnd
	c.state.UpdateGameState(game)

	winnerName := winner
	if player, ok := game.PlayerByID(winner); ok {
		winnerName = player.Name
	}
	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:   domain.LogInfo,
		Message: fmt.Sprintf("Game over (%s): %s wins", reason, winnerName),
		Source:  "game",
	})
	return nil
}

// advanceTurn hands control to the next player, consuming skip-turn
// modifiers along the way, and resets per-turn bookkeeping. Log entries
// are buffered until after the state write so the write does not erase
// them.
func (c *Coordinator) advanceTurn(currentID string) error {
	game := c.state.GameState()

	index := 0
	for i, player := range game.Players {
		if player.ID == currentID {
			index = i
			break
		}
	}

	var entries []domain.ActionLogEntry
	next := index
	for range game.Players {
		next = (next + 1) % len(game.Players)
		candidate := &game.Players[next]
		if candidate.TurnModifiers.SkipTurns > 0 {
			candidate.TurnModifiers.SkipTurns--
			game.Turn++
			entries = append(entries, domain.ActionLogEntry{
				Level:    domain.LogInfo,
				Message:  fmt.Sprintf("%s skips a turn", candidate.Name),
				PlayerID: candidate.ID,
				Source:   "turn",
				Turn:     game.Turn,
			})
			continue
		}
		break
	}

	game.CurrentPlayerID = game.Players[next].ID
	game.Turn++
	game.HasRolledDice = false
	game.HasMoved = false
	game.LastDiceRoll = 0
	game.PendingDestination = ""

	entries = append(entries, c.expireActiveCards(&game)...)

	nextPlayer := game.Players[next]
	c.configureSpaceActions(&game, nextPlayer)
	c.state.UpdateGameState(game)

	// The new current player's revert point is their state at turn start.
	c.captureSnapshot(nextPlayer.ID)

	entries = append(entries, domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("%s begins turn %d", nextPlayer.Name, game.Turn),
		PlayerID: nextPlayer.ID,
		Source:   "turn",
		Turn:     game.Turn,
	})
	for _, entry := range entries {
		c.state.AppendActionLog(entry)
	}
	return nil
}

// expireActiveCards drops every active duration card whose expiration
// turn has arrived, mutating the clone in place.
func (c *Coordinator) expireActiveCards(game *domain.GameState) []domain.ActionLogEntry {
	var entries []domain.ActionLogEntry
	for i := range game.Players {
		player := &game.Players[i]
		kept := player.ActiveCards[:0]
		for _, active := range player.ActiveCards {
			if active.ExpirationTurn > game.Turn {
				kept = append(kept, active)
				continue
			}
			entries = append(entries, domain.ActionLogEntry{
				Level:    domain.LogInfo,
				Message:  fmt.Sprintf("Card %s expired for %s", active.CardID, player.Name),
				PlayerID: player.ID,
				Source:   "card:" + active.CardID,
				Turn:     game.Turn,
			})
		}
		player.ActiveCards = kept
	}
	return entries
}

// TryAgain reverts the player to the snapshot captured on space entry,
// charging a fixed time penalty. Only negotiable spaces allow it, and
// only after the player has taken an action this turn.
func (c *Coordinator) TryAgain(playerID string) Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()

	player, err := c.state.Player(playerID)
	if err != nil {
		return Feedback{Message: "Player not found"}
	}
	space, err := c.data.SpaceByName(player.CurrentSpace)
	if err != nil || !space.CanNegotiate {
		return Feedback{Message: "Try again not available on this space"}
	}

	game := c.state.GameState()
	if !game.HasRolledDice {
		return Feedback{Message: "Roll the dice before trying again"}
	}
	snapshot, ok := c.state.PlayerSnapshot(playerID)
	if !ok {
		return Feedback{Message: "No snapshot to revert to"}
	}

	restored := snapshot.Player.Clone()
	// The penalty survives the revert.
	restored.TimeSpent = restored.TimeSpent + c.tuning.TryAgainTimePenalty
	if err := c.state.UpdatePlayer(restored); err != nil {
		return Feedback{Message: "Revert failed"}
	}

	game = c.state.GameState()
	game.HasRolledDice = false
	game.HasMoved = false
	game.LastDiceRoll = 0
	game.PendingDestination = ""
	game.RequiredActions = snapshot.RequiredActions
	game.CompletedActions = make(map[string]bool, len(snapshot.CompletedActions))
	for category, done := range snapshot.CompletedActions {
		game.CompletedActions[category] = done
	}
	c.state.UpdateGameState(game)

	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("Try Again: Reverted %s to %s entry state", restored.Name, snapshot.SpaceName),
		PlayerID: playerID,
		Source:   "space:" + snapshot.SpaceName,
	})
	return Feedback{Success: true, Message: fmt.Sprintf("Reverted to %s", snapshot.SpaceName)}
}

// DrawAndApplyCard draws one card and applies its effects as a single
// observable step; a concurrent read never sees the card drawn but not
// applied.
func (c *Coordinator) DrawAndApplyCard(ctx context.Context, playerID string, cardType domain.CardType, source, reason string) (Feedback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	drawn, err := c.cards.Draw(playerID, cardType, 1)
	if err != nil {
		return Feedback{}, err
	}
	card := drawn[0]

	feedback := Feedback{Success: true, DrawnCardID: card.ID}

	// Loan-bearing cards fund through the ledger.
	if card.LoanAmount > 0 {
		if _, err := c.ledger.TakeOutLoan(playerID, card.LoanAmount, card.LoanRate); err != nil {
			return Feedback{}, err
		}
	}
	if card.InvestmentAmount > 0 && card.Type == domain.CardTypeInvestor {
		if err := c.ledger.AddMoney(playerID, card.InvestmentAmount, source); err != nil {
			return Feedback{}, err
		}
	}

	feedback.Batch = c.engine.ProcessEffects(ctx, cards.EffectsForCard(card, playerID), playerID, source)
	if feedback.Batch.Failed > 0 {
		feedback.Success = false
		feedback.Message = fmt.Sprintf("%d of %d card effects failed", feedback.Batch.Failed, feedback.Batch.Total)
	}

	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("Drew %s (%s): %s", card.ID, card.Type, reason),
		PlayerID: playerID,
		Source:   source,
	})
	return feedback, nil
}

// HandleAutomaticFunding draws a bank card and applies its loan in one
// step, for spaces that fund the project automatically on entry.
func (c *Coordinator) HandleAutomaticFunding(ctx context.Context, playerID string) (Feedback, error) {
	return c.DrawAndApplyCard(ctx, playerID, domain.CardTypeBank, "automatic-funding", "Automatic funding")
}

// PlayCard applies a card from the player's hand and moves it to the
// discard pile. The card must be playable on the current space phase.
// A card with a turn duration stays active on the player until its
// expiration turn comes up in advanceTurn.
func (c *Coordinator) PlayCard(ctx context.Context, playerID, cardID string) (Feedback, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.rules.IsPlayerTurn(playerID) {
		return Feedback{}, perrors.New(perrors.CodeTurnNotPlayerTurn, "it is not this player's turn")
	}
	if !c.rules.CanPlayCard(playerID, cardID) {
		return Feedback{}, perrors.WithMetadata(perrors.CodeCardNotOwned,
			"card is not playable here", map[string]string{"CardID": cardID})
	}

	batch, err := c.engine.ProcessCardEffects(ctx, playerID, cardID)
	if err != nil {
		return Feedback{}, err
	}
	if err := c.cards.Discard(playerID, []string{cardID}, "played"); err != nil {
		return Feedback{}, err
	}

	if card, err := c.data.CardByID(cardID); err == nil && !card.IsImmediate() {
		if err := c.activateCard(playerID, card); err != nil {
			return Feedback{}, err
		}
	}

	feedback := Feedback{Success: batch.Failed == 0, Batch: batch}
	if batch.Failed > 0 {
		feedback.Message = fmt.Sprintf("%d of %d card effects failed", batch.Failed, batch.Total)
	}
	return feedback, nil
}

// activateCard records a duration card on the player so advanceTurn can
// expire it once its turn count elapses.
func (c *Coordinator) activateCard(playerID string, card domain.Card) error {
	player, err := c.state.Player(playerID)
	if err != nil {
		return err
	}
	game := c.state.GameState()
	player.ActiveCards = append(player.ActiveCards, domain.ActiveCard{
		CardID:         card.ID,
		ExpirationTurn: game.Turn + card.DurationCount,
	})
	if err := c.state.UpdatePlayer(player); err != nil {
		return err
	}
	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("Card %s active until turn %d", card.ID, game.Turn+card.DurationCount),
		PlayerID: playerID,
		Source:   "card:" + card.ID,
	})
	return nil
}
