// Package data provides read-only access to the CSV-defined game content:
// spaces, movement rules, dice tables, effect rows, and cards.
//
// The provider is an external collaborator from the engine's point of
// view; the engine only depends on the Provider interface and never
// mutates content.
package data

import (
	"sort"
	"strings"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
)

// Provider answers content lookups for the game engine. All methods are
// synchronous and side-effect free.
type Provider interface {
	// MovementRule resolves how a player leaves the space on this visit.
	MovementRule(spaceName string, visit domain.VisitType) (domain.MovementRule, error)
	// DiceDestination returns the movement destination for a dice face.
	DiceDestination(spaceName string, visit domain.VisitType, face int) (string, bool)
	// SpaceEffects lists the space-entry effect rows for a space and visit.
	SpaceEffects(spaceName string, visit domain.VisitType) []domain.SpaceEffectRow
	// DiceEffects lists the dice-triggered effect rows for a space and visit.
	DiceEffects(spaceName string, visit domain.VisitType) []domain.SpaceEffectRow
	// CardByID looks up one card definition.
	CardByID(id string) (domain.Card, error)
	// CardsByType lists card definitions for a deck, in id order.
	CardsByType(cardType domain.CardType) []domain.Card
	// SpaceByName returns the static configuration for a space.
	SpaceByName(name string) (domain.SpaceConfig, error)
}

type movementKey struct {
	space string
	visit domain.VisitType
}

type diceKey struct {
	space string
	visit domain.VisitType
	face  int
}

// Memory is an in-memory Provider, populated directly or via the CSV loader.
type Memory struct {
	spaces       map[string]domain.SpaceConfig
	movements    map[movementKey]domain.MovementRule
	dice         map[diceKey]string
	spaceEffects map[movementKey][]domain.SpaceEffectRow
	diceEffects  map[movementKey][]domain.SpaceEffectRow
	cards        map[string]domain.Card
}

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{
		spaces:       make(map[string]domain.SpaceConfig),
		movements:    make(map[movementKey]domain.MovementRule),
		dice:         make(map[diceKey]string),
		spaceEffects: make(map[movementKey][]domain.SpaceEffectRow),
		diceEffects:  make(map[movementKey][]domain.SpaceEffectRow),
		cards:        make(map[string]domain.Card),
	}
}

// AddSpace registers a space configuration.
func (m *Memory) AddSpace(space domain.SpaceConfig) {
	m.spaces[space.Name] = space
}

// AddMovement registers a movement rule.
func (m *Memory) AddMovement(rule domain.MovementRule) {
	m.movements[movementKey{rule.SpaceName, rule.VisitType}] = rule
}

// AddDiceDestination registers a per-face movement destination.
func (m *Memory) AddDiceDestination(spaceName string, visit domain.VisitType, face int, destination string) {
	m.dice[diceKey{spaceName, visit, face}] = destination
}

// AddSpaceEffect appends a space-entry effect row.
func (m *Memory) AddSpaceEffect(row domain.SpaceEffectRow) {
	key := movementKey{row.SpaceName, row.VisitType}
	m.spaceEffects[key] = append(m.spaceEffects[key], row)
}

// AddDiceEffect appends a dice-triggered effect row.
func (m *Memory) AddDiceEffect(row domain.SpaceEffectRow) {
	key := movementKey{row.SpaceName, row.VisitType}
	m.diceEffects[key] = append(m.diceEffects[key], row)
}

// AddCard registers a card definition.
func (m *Memory) AddCard(card domain.Card) {
	m.cards[card.ID] = card
}

// MovementRule implements Provider.
func (m *Memory) MovementRule(spaceName string, visit domain.VisitType) (domain.MovementRule, error) {
	if rule, ok := m.movements[movementKey{spaceName, visit}]; ok {
		return rule, nil
	}
	// Fall back to the First-visit rule when no Subsequent row exists.
	if visit == domain.VisitSubsequent {
		if rule, ok := m.movements[movementKey{spaceName, domain.VisitFirst}]; ok {
			return rule, nil
		}
	}
	return domain.MovementRule{}, perrors.WithMetadata(perrors.CodeSpaceNotFound,
		"no movement rule for space", map[string]string{"SpaceName": spaceName})
}

// DiceDestination implements Provider.
func (m *Memory) DiceDestination(spaceName string, visit domain.VisitType, face int) (string, bool) {
	if destination, ok := m.dice[diceKey{spaceName, visit, face}]; ok {
		return destination, destination != ""
	}
	if visit == domain.VisitSubsequent {
		if destination, ok := m.dice[diceKey{spaceName, domain.VisitFirst, face}]; ok {
			return destination, destination != ""
		}
	}
	return "", false
}

// SpaceEffects implements Provider.
func (m *Memory) SpaceEffects(spaceName string, visit domain.VisitType) []domain.SpaceEffectRow {
	return m.effectRows(m.spaceEffects, spaceName, visit)
}

// DiceEffects implements Provider.
func (m *Memory) DiceEffects(spaceName string, visit domain.VisitType) []domain.SpaceEffectRow {
	return m.effectRows(m.diceEffects, spaceName, visit)
}

func (m *Memory) effectRows(table map[movementKey][]domain.SpaceEffectRow, spaceName string, visit domain.VisitType) []domain.SpaceEffectRow {
	if rows, ok := table[movementKey{spaceName, visit}]; ok {
		return append([]domain.SpaceEffectRow(nil), rows...)
	}
	if visit == domain.VisitSubsequent {
		if rows, ok := table[movementKey{spaceName, domain.VisitFirst}]; ok {
			return append([]domain.SpaceEffectRow(nil), rows...)
		}
	}
	return nil
}

// CardByID implements Provider.
func (m *Memory) CardByID(id string) (domain.Card, error) {
	card, ok := m.cards[strings.TrimSpace(id)]
	if !ok {
		return domain.Card{}, perrors.WithMetadata(perrors.CodeCardNotFound,
			"card not found", map[string]string{"CardID": id})
	}
	return card, nil
}

// CardsByType implements Provider.
func (m *Memory) CardsByType(cardType domain.CardType) []domain.Card {
	var cards []domain.Card
	for _, card := range m.cards {
		if card.Type == cardType {
			cards = append(cards, card)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].ID < cards[j].ID })
	return cards
}

// Spaces returns every registered space, sorted by name.
func (m *Memory) Spaces() []domain.SpaceConfig {
	spaces := make([]domain.SpaceConfig, 0, len(m.spaces))
	for _, space := range m.spaces {
		spaces = append(spaces, space)
	}
	sort.Slice(spaces, func(i, j int) bool { return spaces[i].Name < spaces[j].Name })
	return spaces
}

// SpaceByName implements Provider.
func (m *Memory) SpaceByName(name string) (domain.SpaceConfig, error) {
	space, ok := m.spaces[name]
	if !ok {
		return domain.SpaceConfig{}, perrors.WithMetadata(perrors.CodeSpaceNotFound,
			"space not found", map[string]string{"SpaceName": name})
	}
	return space, nil
}
