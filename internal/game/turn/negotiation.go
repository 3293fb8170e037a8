package turn

import (
	"context"
	"fmt"

	"github.com/louisbranch/groundbreak/internal/game/domain"
	perrors "github.com/louisbranch/groundbreak/internal/platform/errors"
	"github.com/louisbranch/groundbreak/internal/platform/id"
)

// OpenNegotiation starts a negotiation sub-flow between the current
// player and a partner. Only one negotiation may be open, and only on
// spaces that allow it; progression is suspended until it closes.
func (c *Coordinator) OpenNegotiation(initiatorID, partnerID string) (domain.Negotiation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.rules.IsPlayerTurn(initiatorID) {
		return domain.Negotiation{}, perrors.New(perrors.CodeTurnNotPlayerTurn, "it is not this player's turn")
	}
	game := c.state.GameState()
	if game.ActiveNegotiation != nil {
		return domain.Negotiation{}, perrors.New(perrors.CodeTurnNegotiationActive, "a negotiation is already open")
	}
	initiator, err := c.state.Player(initiatorID)
	if err != nil {
		return domain.Negotiation{}, err
	}
	if _, err := c.state.Player(partnerID); err != nil {
		return domain.Negotiation{}, err
	}
	space, err := c.data.SpaceByName(initiator.CurrentSpace)
	if err != nil {
		return domain.Negotiation{}, err
	}
	if !space.CanNegotiate {
		return domain.Negotiation{}, perrors.New(perrors.CodeTurnTryAgainUnavailable,
			"Negotiation not available on this space")
	}

	negotiation := domain.Negotiation{
		ID:          id.NewID(),
		InitiatorID: initiatorID,
		PartnerID:   partnerID,
		Status:      domain.NegotiationOpen,
		StartedTurn: game.Turn,
	}
	game.ActiveNegotiation = &negotiation
	c.state.UpdateGameState(game)

	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:    domain.LogInfo,
		Message:  fmt.Sprintf("%s opened a negotiation", initiator.Name),
		PlayerID: initiatorID,
		Source:   "negotiation:" + negotiation.ID,
	})
	return negotiation, nil
}

// MakeOffer replaces the proposal on the table. Either party may offer.
func (c *Coordinator) MakeOffer(playerID string, offer domain.NegotiationOffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	game := c.state.GameState()
	negotiation := game.ActiveNegotiation
	if negotiation == nil || negotiation.Status != domain.NegotiationOpen {
		return perrors.New(perrors.CodeTurnNoNegotiation, "no open negotiation")
	}
	if playerID != negotiation.InitiatorID && playerID != negotiation.PartnerID {
		return perrors.New(perrors.CodeTurnNotPlayerTurn, "player is not part of this negotiation")
	}

	negotiation.Offer = offer
	c.state.UpdateGameState(game)
	return nil
}

// AcceptNegotiation closes the negotiation and applies the agreed
// offer: money changes hands through the ledger, cards through the card
// store, and any agreed effects run through the engine.
func (c *Coordinator) AcceptNegotiation(ctx context.Context, playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	game := c.state.GameState()
	negotiation := game.ActiveNegotiation
	if negotiation == nil || negotiation.Status != domain.NegotiationOpen {
		return perrors.New(perrors.CodeTurnNoNegotiation, "no open negotiation")
	}
	if playerID != negotiation.PartnerID {
		return perrors.New(perrors.CodeTurnNotPlayerTurn, "only the partner may accept")
	}

	source := "negotiation:" + negotiation.ID
	offer := negotiation.Offer

	if offer.Money > 0 {
		if err := c.ledger.SpendMoney(negotiation.InitiatorID, offer.Money, source); err != nil {
			return err
		}
		if err := c.ledger.AddMoney(negotiation.PartnerID, offer.Money, source); err != nil {
			return err
		}
	} else if offer.Money < 0 {
		if err := c.ledger.SpendMoney(negotiation.PartnerID, -offer.Money, source); err != nil {
			return err
		}
		if err := c.ledger.AddMoney(negotiation.InitiatorID, -offer.Money, source); err != nil {
			return err
		}
	}
	if len(offer.CardIDs) > 0 {
		if err := c.cards.Transfer(negotiation.InitiatorID, negotiation.PartnerID, offer.CardIDs); err != nil {
			return err
		}
	}
	if len(offer.Effects) > 0 && c.engine != nil {
		c.engine.ProcessEffects(ctx, offer.Effects, negotiation.InitiatorID, source)
	}

	c.closeNegotiation(domain.NegotiationAccepted)
	return nil
}

// DeclineNegotiation closes the negotiation without applying anything.
func (c *Coordinator) DeclineNegotiation(playerID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	game := c.state.GameState()
	negotiation := game.ActiveNegotiation
	if negotiation == nil || negotiation.Status != domain.NegotiationOpen {
		return perrors.New(perrors.CodeTurnNoNegotiation, "no open negotiation")
	}
	if playerID != negotiation.InitiatorID && playerID != negotiation.PartnerID {
		return perrors.New(perrors.CodeTurnNotPlayerTurn, "player is not part of this negotiation")
	}

	c.closeNegotiation(domain.NegotiationDeclined)
	return nil
}

func (c *Coordinator) closeNegotiation(status domain.NegotiationStatus) {
	game := c.state.GameState()
	if game.ActiveNegotiation == nil {
		return
	}
	negotiationID := game.ActiveNegotiation.ID
	game.ActiveNegotiation = nil
	c.state.UpdateGameState(game)

	c.state.AppendActionLog(domain.ActionLogEntry{
		Level:   domain.LogInfo,
		Message: fmt.Sprintf("Negotiation %s", status),
		Source:  "negotiation:" + negotiationID,
	})
}
