// Package effect interprets typed effect descriptors against the shared
// game state. The engine is the only component with interpretation
// authority; everything upstream of it (cards, dice tables, space
// triggers) produces effects as pure data.
package effect

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/louisbranch/groundbreak/internal/game/cards"
	"github.com/louisbranch/groundbreak/internal/game/choice"
	"github.com/louisbranch/groundbreak/internal/game/data"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/ledger"
	"github.com/louisbranch/groundbreak/internal/game/rules"
	"github.com/louisbranch/groundbreak/internal/game/state"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/louisbranch/groundbreak/internal/game/effect")

// CardStore is the hand and deck surface the engine mutates.
type CardStore interface {
	Draw(playerID string, cardType domain.CardType, count int) ([]domain.Card, error)
	Discard(playerID string, cardIDs []string, reason string) error
	DiscardByType(playerID string, cardType domain.CardType, count int, reason string) ([]string, error)
	Transfer(fromPlayerID, toPlayerID string, cardIDs []string) error
}

// TurnControl is the slice of the turn coordinator the engine needs for
// TURN_CONTROL and MOVEMENT effects. Injected after construction; the
// coordinator depends on the engine in the other direction.
type TurnControl interface {
	SetTurnModifier(playerID string, action domain.TurnControlAction, reason string) error
	MovePlayer(playerID, destination string) error
}

// Result reports one effect's outcome.
type Result struct {
	Success bool
	Err     error
}

// BatchResult aggregates an ordered effect batch. Failures are isolated
// per effect; a failed effect never aborts its successors.
type BatchResult struct {
	Total      int
	Successful int
	Failed     int
	Errors     []error
}

// Engine applies effects through the owning collaborators.
type Engine struct {
	state  *state.Store
	ledger *ledger.Ledger
	rules  *rules.Oracle
	broker *choice.Broker
	data   data.Provider

	cards CardStore
	turns TurnControl
}

// New creates an effect engine. The card store and turn coordinator are
// wired afterwards via SetCardStore and SetTurnControl.
func New(st *state.Store, l *ledger.Ledger, oracle *rules.Oracle, broker *choice.Broker, provider data.Provider) *Engine {
	return &Engine{
		state:  st,
		ledger: l,
		rules:  oracle,
		broker: broker,
		data:   provider,
	}
}

// SetCardStore wires the card store after construction.
func (e *Engine) SetCardStore(store CardStore) {
	e.cards = store
}

// SetTurnControl wires the turn coordinator after construction.
func (e *Engine) SetTurnControl(turns TurnControl) {
	e.turns = turns
}

// ProcessEffect applies one effect. The target defaults to the effect's
// own player id.
func (e *Engine) ProcessEffect(ctx context.Context, eff domain.Effect) Result {
	err := e.apply(ctx, eff)
	if err != nil {
		log.Printf("effect %s from %s failed: %v", eff.Type, eff.Source, err)
		return Result{Err: err}
	}
	return Result{Success: true}
}

// ProcessEffects applies an ordered batch against one target player.
// Effects without an explicit player id inherit the target. A later
// effect observes state written by an earlier one; a failed effect is
// recorded and skipped, never aborting the batch.
func (e *Engine) ProcessEffects(ctx context.Context, effects []domain.Effect, targetPlayerID, source string) BatchResult {
	ctx, span := tracer.Start(ctx, "effect.batch")
	defer span.End()
	span.SetAttributes(
		attribute.String("effect.source", source),
		attribute.Int("effect.total", len(effects)),
	)

	result := BatchResult{Total: len(effects)}
	for _, eff := range effects {
		if eff.PlayerID == "" && eff.Type != domain.EffectLog {
			eff.PlayerID = targetPlayerID
		}
		if eff.Source == "" {
			eff.Source = source
		}
		if r := e.ProcessEffect(ctx, eff); r.Success {
			result.Successful++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, r.Err)
		}
	}
	span.SetAttributes(attribute.Int("effect.failed", result.Failed))
	return result
}

// ProcessCardEffects derives a played card's effect list and applies it.
// The player must own the card.
func (e *Engine) ProcessCardEffects(ctx context.Context, playerID, cardID string) (BatchResult, error) {
	player, err := e.state.Player(playerID)
	if err != nil {
		return BatchResult{}, err
	}
	if !player.HasCard(cardID) {
		return BatchResult{}, perrors.WithMetadata(perrors.CodeCardNotOwned,
			"card is not in the player's hand",
			map[string]string{"PlayerID": playerID, "CardID": cardID})
	}
	card, err := e.data.CardByID(cardID)
	if err != nil {
		return BatchResult{}, err
	}
	effects := cards.EffectsForCard(card, playerID)
	return e.ProcessEffects(ctx, effects, playerID, "card:"+cardID), nil
}

func (e *Engine) apply(ctx context.Context, eff domain.Effect) error {
	if eff.PlayerID == "" && eff.Type != domain.EffectLog {
		return perrors.New(perrors.CodeEffectTargetRequired, "effect requires a target player")
	}

	switch eff.Type {
	case domain.EffectResourceChange:
		return e.applyResourceChange(eff)
	case domain.EffectCardDraw:
		return e.applyCardDraw(eff)
	case domain.EffectCardDiscard:
		return e.applyCardDiscard(eff)
	case domain.EffectCardTransfer:
		return e.applyCardTransfer(eff)
	case domain.EffectMovement:
		return e.applyMovement(eff)
	case domain.EffectChoice:
		return e.applyChoice(ctx, eff)
	case domain.EffectTurnControl:
		return e.applyTurnControl(eff)
	case domain.EffectRecalculateScope:
		return e.recalculateScope(eff.PlayerID)
	case domain.EffectLog:
		return e.applyLog(eff)
	default:
		return perrors.WithMetadata(perrors.CodeEffectUnsupported,
			"unsupported effect type", map[string]string{"Type": string(eff.Type)})
	}
}

func (e *Engine) applyResourceChange(eff domain.Effect) error {
	payload := eff.ResourceChange
	if payload == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "resource change payload missing")
	}
	if payload.Amount == 0 {
		return nil
	}
	source := eff.Source
	if payload.Reason != "" {
		source = payload.Reason
	}
	switch payload.Resource {
	case domain.ResourceMoney:
		if payload.Amount > 0 {
			return e.ledger.AddMoney(eff.PlayerID, payload.Amount, source)
		}
		return e.ledger.SpendMoney(eff.PlayerID, -payload.Amount, source)
	case domain.ResourceTime:
		if payload.Amount > 0 {
			return e.ledger.AddTime(eff.PlayerID, payload.Amount, source)
		}
		return e.ledger.SpendTime(eff.PlayerID, -payload.Amount, source)
	default:
		return perrors.WithMetadata(perrors.CodeEffectUnsupported,
			"unknown resource", map[string]string{"Resource": string(payload.Resource)})
	}
}

func (e *Engine) applyCardDraw(eff domain.Effect) error {
	payload := eff.CardDraw
	if payload == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "card draw payload missing")
	}
	_, err := e.cards.Draw(eff.PlayerID, payload.CardType, payload.Count)
	return err
}

func (e *Engine) applyCardDiscard(eff domain.Effect) error {
	payload := eff.CardDiscard
	if payload == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "card discard payload missing")
	}
	if len(payload.CardIDs) > 0 {
		return e.cards.Discard(eff.PlayerID, payload.CardIDs, payload.Reason)
	}
	_, err := e.cards.DiscardByType(eff.PlayerID, payload.CardType, payload.Count, payload.Reason)
	return err
}

func (e *Engine) applyCardTransfer(eff domain.Effect) error {
	payload := eff.CardTransfer
	if payload == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "card transfer payload missing")
	}
	return e.cards.Transfer(eff.PlayerID, payload.ToPlayerID, payload.CardIDs)
}

func (e *Engine) applyMovement(eff domain.Effect) error {
	payload := eff.Movement
	if payload == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "movement payload missing")
	}
	if e.turns == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "turn coordinator is not wired")
	}
	return e.turns.MovePlayer(eff.PlayerID, payload.Destination)
}

// applyChoice publishes the choice, waits for the player's selection,
// and then runs the chosen branch's effects recursively.
func (e *Engine) applyChoice(ctx context.Context, eff domain.Effect) error {
	payload := eff.Choice
	if payload == nil || len(payload.Options) == 0 {
		return perrors.New(perrors.CodeEffectUnsupported, "choice payload missing options")
	}

	options := make([]domain.ChoiceOption, len(payload.Options))
	for i, option := range payload.Options {
		options[i] = domain.ChoiceOption{ID: strconv.Itoa(i), Label: option.Label}
	}

	pending, err := e.broker.Create(eff.PlayerID, domain.ChoiceGeneral, payload.Prompt, options)
	if err != nil {
		return err
	}
	selected, err := pending.Await(ctx)
	if err != nil {
		return err
	}

	index, err := strconv.Atoi(selected)
	if err != nil || index < 0 || index >= len(payload.Options) {
		return perrors.New(perrors.CodeEffectInvalidChoiceOption, "Invalid choice option selected")
	}

	branch := e.ProcessEffects(ctx, payload.Options[index].Effects, eff.PlayerID, eff.Source)
	if branch.Failed > 0 {
		return fmt.Errorf("choice branch %q: %d of %d effects failed",
			payload.Options[index].Label, branch.Failed, branch.Total)
	}
	return nil
}

func (e *Engine) applyTurnControl(eff domain.Effect) error {
	payload := eff.TurnControl
	if payload == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "turn control payload missing")
	}
	if e.turns == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "turn coordinator is not wired")
	}
	return e.turns.SetTurnModifier(eff.PlayerID, payload.Action, payload.Reason)
}

func (e *Engine) recalculateScope(playerID string) error {
	player, err := e.state.Player(playerID)
	if err != nil {
		return err
	}
	player.ProjectScope = e.rules.ProjectScope(player)
	return e.state.UpdatePlayer(player)
}

func (e *Engine) applyLog(eff domain.Effect) error {
	payload := eff.Log
	if payload == nil {
		return perrors.New(perrors.CodeEffectUnsupported, "log payload missing")
	}
	e.state.AppendActionLog(domain.ActionLogEntry{
		Level:    payload.Level,
		Message:  payload.Message,
		PlayerID: eff.PlayerID,
		Source:   eff.Source,
	})
	return nil
}
