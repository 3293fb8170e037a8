package cards

import (
	"fmt"

	"github.com/louisbranch/groundbreak/internal/game/domain"
)

// EffectsForCard translates a card's data fields into the ordered effect
// batch applied when the card is played. Loan mechanics (B and I cards)
// go through the ledger instead and are not represented here.
func EffectsForCard(card domain.Card, playerID string) []domain.Effect {
	source := "card:" + card.ID
	var effects []domain.Effect

	if card.MoneyEffect != 0 {
		effects = append(effects, domain.NewResourceChange(
			playerID, domain.ResourceMoney, card.MoneyEffect, source, card.Name))
	}
	if card.TickModifier != 0 {
		effects = append(effects, domain.NewResourceChange(
			playerID, domain.ResourceTime, card.TickModifier, source, card.Name))
	}

	if count, cardType, err := ParseDirective(card.DrawCards); err == nil {
		effects = append(effects, domain.NewCardDraw(playerID, cardType, count, source))
	}
	if count, cardType, err := ParseDirective(card.DiscardCards); err == nil {
		effects = append(effects, domain.Effect{
			Type:     domain.EffectCardDiscard,
			Source:   source,
			PlayerID: playerID,
			CardDiscard: &domain.CardDiscardPayload{
				CardType: cardType,
				Count:    count,
				Reason:   card.Name,
			},
		})
	}

	// Work cards change the project scope rather than the wallet.
	if card.Type == domain.CardTypeWork && card.WorkCost != 0 {
		effects = append(effects, domain.Effect{
			Type:             domain.EffectRecalculateScope,
			Source:           source,
			PlayerID:         playerID,
			RecalculateScope: &struct{}{},
		})
	}

	if len(effects) > 0 {
		effects = append(effects, domain.NewLog(domain.LogInfo,
			fmt.Sprintf("Played %s (%s)", card.Name, card.Type), source))
	}
	return effects
}
