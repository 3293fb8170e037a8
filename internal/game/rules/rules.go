// Package rules answers read-only game questions: legal moves, playable
// cards, conditions, scores, and end-of-game detection.
//
// Queries are fail-safe. A query that cannot be answered (unknown
// player, missing content row) logs and returns the permissive-for-reads
// zero value rather than an error; mutations elsewhere still validate.
package rules

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/louisbranch/groundbreak/internal/game/data"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/state"
	"github.com/louisbranch/groundbreak/internal/game/tuning"
)

// EndReason explains why the game ended.
type EndReason string

const (
	EndReasonWin       EndReason = "win"
	EndReasonTurnLimit EndReason = "turn_limit"
)

// Oracle evaluates rules against the shared game state and content.
type Oracle struct {
	state  *state.Store
	data   data.Provider
	tuning tuning.Tuning
}

// New creates a rule oracle.
func New(st *state.Store, provider data.Provider, t tuning.Tuning) *Oracle {
	return &Oracle{state: st, data: provider, tuning: t}
}

// AvailableMoves lists the destinations the player may move to from
// their current space, de-duplicated and in rule order. Ending spaces
// and the none movement type yield an empty list.
func (o *Oracle) AvailableMoves(playerID string) []string {
	player, err := o.state.Player(playerID)
	if err != nil {
		log.Printf("available moves: %v", err)
		return nil
	}
	rule, err := o.data.MovementRule(player.CurrentSpace, player.VisitType)
	if err != nil {
		log.Printf("available moves for %s: %v", player.CurrentSpace, err)
		return nil
	}

	switch rule.MovementType {
	case domain.MovementNone:
		return nil
	case domain.MovementDice:
		return o.diceDestinations(player.CurrentSpace, player.VisitType)
	default:
		return dedupe(rule.Destinations)
	}
}

func (o *Oracle) diceDestinations(spaceName string, visit domain.VisitType) []string {
	var destinations []string
	for face := 1; face <= 6; face++ {
		if destination, ok := o.data.DiceDestination(spaceName, visit, face); ok {
			destinations = append(destinations, destination)
		}
	}
	return dedupe(destinations)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		out = append(out, value)
	}
	return out
}

// IsMoveValid reports whether destination is legal for the player now.
func (o *Oracle) IsMoveValid(playerID, destination string) bool {
	for _, candidate := range o.AvailableMoves(playerID) {
		if candidate == destination {
			return true
		}
	}
	return false
}

// CanPlayCard checks hand ownership and the card's phase restriction
// against the player's current space.
func (o *Oracle) CanPlayCard(playerID, cardID string) bool {
	player, err := o.state.Player(playerID)
	if err != nil {
		log.Printf("can play card: %v", err)
		return false
	}
	if !player.HasCard(cardID) {
		return false
	}
	card, err := o.data.CardByID(cardID)
	if err != nil {
		log.Printf("can play card %s: %v", cardID, err)
		return false
	}
	if card.PhaseRestriction == domain.PhaseAny || card.PhaseRestriction == "" {
		return true
	}
	space, err := o.data.SpaceByName(player.CurrentSpace)
	if err != nil {
		log.Printf("can play card %s: %v", cardID, err)
		return false
	}
	return strings.EqualFold(space.Phase, card.PhaseRestriction)
}

// EvaluateCondition resolves an effect-row condition for the player.
// Unknown vocabulary fails safe to false with a log line.
func (o *Oracle) EvaluateCondition(playerID, condition string, diceRoll int) bool {
	condition = strings.TrimSpace(strings.ToLower(condition))
	switch condition {
	case "", "always":
		return true
	case "scope_le_4m":
		return o.projectScope(playerID) <= o.tuning.ScopeThreshold
	case "scope_gt_4m":
		return o.projectScope(playerID) > o.tuning.ScopeThreshold
	case "low":
		return diceRoll >= 1 && diceRoll <= 3
	case "high":
		return diceRoll >= 4 && diceRoll <= 6
	}
	if face, ok := strings.CutPrefix(condition, "dice_roll_"); ok {
		want, err := strconv.Atoi(face)
		if err != nil {
			log.Printf("condition %q: bad dice face", condition)
			return false
		}
		return diceRoll == want
	}
	log.Printf("condition %q: unknown vocabulary", condition)
	return false
}

func (o *Oracle) projectScope(playerID string) int {
	player, err := o.state.Player(playerID)
	if err != nil {
		log.Printf("project scope: %v", err)
		return 0
	}
	return o.ProjectScope(player)
}

// ProjectScope sums the construction cost of the work cards in the
// player's hand.
func (o *Oracle) ProjectScope(player domain.Player) int {
	scope := 0
	for _, id := range player.Hand {
		card, err := o.data.CardByID(id)
		if err != nil {
			continue
		}
		if card.Type == domain.CardTypeWork {
			scope += card.Cost()
		}
	}
	return scope
}

// Score computes the player's final score. Outstanding loans and time
// spent are penalized per the tuning weights; the score floors at zero.
func (o *Oracle) Score(player domain.Player) int {
	score := player.Money + player.ProjectScope
	score -= len(player.Loans) * o.tuning.Score.LoanPenalty
	score -= player.TimeSpent * o.tuning.Score.TimePenalty
	if score < 0 {
		score = 0
	}
	return score
}

// IsPlayerTurn reports whether it is currently this player's turn.
func (o *Oracle) IsPlayerTurn(playerID string) bool {
	game := o.state.GameState()
	return game.Phase == domain.PhasePlay && game.CurrentPlayerID == playerID
}

// IsGameInProgress reports whether the game is in the play phase.
func (o *Oracle) IsGameInProgress() bool {
	return o.state.GameState().Phase == domain.PhasePlay
}

// CanDrawCard reports whether a draw of this type could produce a card.
func (o *Oracle) CanDrawCard(playerID string, cardType domain.CardType) bool {
	if !o.IsGameInProgress() {
		return false
	}
	if _, err := o.state.Player(playerID); err != nil {
		log.Printf("can draw card: %v", err)
		return false
	}
	if _, err := domain.ParseCardType(string(cardType)); err != nil {
		return false
	}
	game := o.state.GameState()
	return len(game.Decks[cardType])+len(game.DiscardPiles[cardType]) > 0
}

// CanPlayerAfford reports whether the player's balance covers the cost.
func (o *Oracle) CanPlayerAfford(playerID string, cost int) bool {
	player, err := o.state.Player(playerID)
	if err != nil {
		log.Printf("can afford: %v", err)
		return false
	}
	return player.Money >= cost
}

// CheckWinCondition reports whether the player stands on an ending space.
func (o *Oracle) CheckWinCondition(playerID string) bool {
	player, err := o.state.Player(playerID)
	if err != nil {
		log.Printf("win condition: %v", err)
		return false
	}
	space, err := o.data.SpaceByName(player.CurrentSpace)
	if err != nil {
		log.Printf("win condition for %s: %v", player.CurrentSpace, err)
		return false
	}
	return space.IsEndingSpace
}

// CheckTurnLimit reports whether the turn counter reached the cap.
func (o *Oracle) CheckTurnLimit() bool {
	return o.state.GameState().Turn >= o.tuning.TurnLimit
}

// EndCheck is the result of an end-of-game probe.
type EndCheck struct {
	Ended    bool
	Reason   EndReason
	WinnerID string
}

// CheckGameEnd reports whether the game is over and why. A player
// standing on an ending space wins immediately and takes precedence
// over the turn limit.
func (o *Oracle) CheckGameEnd() EndCheck {
	game := o.state.GameState()
	for _, player := range game.Players {
		if o.CheckWinCondition(player.ID) {
			return EndCheck{Ended: true, Reason: EndReasonWin, WinnerID: player.ID}
		}
	}
	if game.Turn >= o.tuning.TurnLimit {
		return EndCheck{Ended: true, Reason: EndReasonTurnLimit}
	}
	return EndCheck{}
}

// DetermineWinner scores every player, persists the scores and scope,
// and returns the winner's id. The strictly highest score wins; ties go
// to the earlier-seated player.
func (o *Oracle) DetermineWinner() (string, error) {
	game := o.state.GameState()

	if len(game.Players) == 0 {
		return "", fmt.Errorf("no players to score")
	}

	for i := range game.Players {
		player := &game.Players[i]
		player.ProjectScope = o.ProjectScope(*player)
		player.Score = o.Score(*player)
	}

	winner := ""
	best := -1
	for _, player := range game.Players {
		if player.Score > best {
			best = player.Score
			winner = player.ID
		}
	}

	game.Winner = winner
	o.state.UpdateGameState(game)
	return winner, nil
}

// TurnLimit exposes the configured turn cap.
func (o *Oracle) TurnLimit() int {
	return o.tuning.TurnLimit
}
