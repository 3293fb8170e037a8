// Package cards manages the five card decks and the players' hands:
// deck initialization, drawing with discard-pile reshuffle, discarding,
// and transfers between players.
package cards

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"

	"github.com/louisbranch/groundbreak/internal/game/data"
	"github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/state"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
	"github.com/louisbranch/groundbreak/internal/random"
)

// Store mutates deck and hand state through the shared state store.
type Store struct {
	mu    sync.Mutex
	state *state.Store
	data  data.Provider
	rng   *rand.Rand
}

// Option configures a Store.
type Option func(*Store)

// WithRand replaces the shuffle source, for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) { s.rng = rng }
}

// NewStore creates a card store over the shared game state.
func NewStore(st *state.Store, provider data.Provider, opts ...Option) *Store {
	s := &Store{
		state: st,
		data:  provider,
		rng:   random.NewRand(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// InitializeDecks builds and shuffles one deck per card type from the
// data provider, replacing any existing decks and discard piles.
func (s *Store) InitializeDecks() error {
	if s == nil {
		return perrors.New(perrors.CodeUnknown, "card store is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	game := s.state.GameState()
	game.Decks = make(map[domain.CardType][]string, len(domain.CardTypes))
	game.DiscardPiles = make(map[domain.CardType][]string, len(domain.CardTypes))
	for _, cardType := range domain.CardTypes {
		var ids []string
		for _, card := range s.data.CardsByType(cardType) {
			ids = append(ids, card.ID)
		}
		s.shuffle(ids)
		game.Decks[cardType] = ids
		game.DiscardPiles[cardType] = nil
	}
	s.state.UpdateGameState(game)
	return nil
}

func (s *Store) shuffle(ids []string) {
	s.rng.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
}

// Draw moves up to count cards from the top of a deck into the player's
// hand, reshuffling the discard pile into the deck when it runs out.
// Drawing from an exhausted deck returns CARD_DECK_EMPTY; a partial draw
// returns the cards drawn and no error.
func (s *Store) Draw(playerID string, cardType domain.CardType, count int) ([]domain.Card, error) {
	if count <= 0 {
		return nil, perrors.New(perrors.CodeLedgerAmountNotPositive, "draw count must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	game := s.state.GameState()
	player, ok := game.PlayerByID(playerID)
	if !ok {
		return nil, perrors.WithMetadata(perrors.CodePlayerNotFound,
			"player not found", map[string]string{"PlayerID": playerID})
	}

	var drawn []domain.Card
	for len(drawn) < count {
		if len(game.Decks[cardType]) == 0 {
			if len(game.DiscardPiles[cardType]) == 0 {
				break
			}
			deck := append([]string(nil), game.DiscardPiles[cardType]...)
			s.shuffle(deck)
			game.Decks[cardType] = deck
			game.DiscardPiles[cardType] = nil
		}
		deck := game.Decks[cardType]
		id := deck[len(deck)-1]
		game.Decks[cardType] = deck[:len(deck)-1]

		card, err := s.data.CardByID(id)
		if err != nil {
			return drawn, err
		}
		player.Hand = append(player.Hand, id)
		drawn = append(drawn, card)
	}
	if len(drawn) == 0 {
		return nil, perrors.WithMetadata(perrors.CodeCardDeckEmpty,
			"deck and discard pile are empty", map[string]string{"CardType": string(cardType)})
	}

	s.setPlayer(&game, player)
	s.state.UpdateGameState(game)
	return drawn, nil
}

// Discard removes the named card instances from the player's hand and
// places them on their decks' discard piles. Every id must be owned.
func (s *Store) Discard(playerID string, cardIDs []string, reason string) error {
	if len(cardIDs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	game := s.state.GameState()
	player, ok := game.PlayerByID(playerID)
	if !ok {
		return perrors.WithMetadata(perrors.CodePlayerNotFound,
			"player not found", map[string]string{"PlayerID": playerID})
	}

	for _, id := range cardIDs {
		if !player.HasCard(id) {
			return perrors.WithMetadata(perrors.CodeCardNotOwned,
				"card is not in the player's hand",
				map[string]string{"PlayerID": playerID, "CardID": id})
		}
	}
	for _, id := range cardIDs {
		card, err := s.data.CardByID(id)
		if err != nil {
			return err
		}
		player.Hand = removeID(player.Hand, id)
		game.DiscardPiles[card.Type] = append(game.DiscardPiles[card.Type], id)
	}

	s.setPlayer(&game, player)
	s.state.UpdateGameState(game)
	return nil
}

// DiscardByType discards up to count cards of one type from the
// player's hand, oldest first, and returns the discarded ids.
func (s *Store) DiscardByType(playerID string, cardType domain.CardType, count int, reason string) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	player, err := s.state.Player(playerID)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, id := range player.Hand {
		if len(ids) == count {
			break
		}
		card, err := s.data.CardByID(id)
		if err != nil {
			continue
		}
		if card.Type == cardType {
			ids = append(ids, id)
		}
	}
	if err := s.Discard(playerID, ids, reason); err != nil {
		return nil, err
	}
	return ids, nil
}

// Transfer moves card instances from one player's hand to another's.
func (s *Store) Transfer(fromPlayerID, toPlayerID string, cardIDs []string) error {
	if len(cardIDs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	game := s.state.GameState()
	from, ok := game.PlayerByID(fromPlayerID)
	if !ok {
		return perrors.WithMetadata(perrors.CodePlayerNotFound,
			"player not found", map[string]string{"PlayerID": fromPlayerID})
	}
	to, ok := game.PlayerByID(toPlayerID)
	if !ok {
		return perrors.WithMetadata(perrors.CodePlayerNotFound,
			"player not found", map[string]string{"PlayerID": toPlayerID})
	}

	for _, id := range cardIDs {
		if !from.HasCard(id) {
			return perrors.WithMetadata(perrors.CodeCardNotOwned,
				"card is not in the player's hand",
				map[string]string{"PlayerID": fromPlayerID, "CardID": id})
		}
	}
	for _, id := range cardIDs {
		from.Hand = removeID(from.Hand, id)
		to.Hand = append(to.Hand, id)
	}

	s.setPlayer(&game, from)
	s.setPlayer(&game, to)
	s.state.UpdateGameState(game)
	return nil
}

// RemoveFromHand takes a played card out of the hand and onto the
// discard pile without the ownership batch checks of Discard.
func (s *Store) RemoveFromHand(playerID, cardID string) error {
	return s.Discard(playerID, []string{cardID}, "played")
}

func (s *Store) setPlayer(game *domain.GameState, player domain.Player) {
	for i := range game.Players {
		if game.Players[i].ID == player.ID {
			game.Players[i] = player
			return
		}
	}
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// ParseDirective parses a card interaction directive like "2 E" into a
// count and deck letter.
func ParseDirective(directive string) (int, domain.CardType, error) {
	fields := strings.Fields(directive)
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("malformed card directive %q", directive)
	}
	count, err := strconv.Atoi(fields[0])
	if err != nil || count <= 0 {
		return 0, "", fmt.Errorf("malformed card directive %q", directive)
	}
	cardType, err := domain.ParseCardType(fields[1])
	if err != nil {
		return 0, "", perrors.Wrap(perrors.CodeCardTypeInvalid, "parse card directive", err)
	}
	return count, cardType, nil
}
