package domain

import "fmt"

// CardType identifies one of the five card decks.
type CardType string

const (
	CardTypeWork      CardType = "W"
	CardTypeBank      CardType = "B"
	CardTypeExpeditor CardType = "E"
	CardTypeLife      CardType = "L"
	CardTypeInvestor  CardType = "I"
)

// CardTypes lists every deck in display order.
var CardTypes = []CardType{CardTypeWork, CardTypeBank, CardTypeExpeditor, CardTypeLife, CardTypeInvestor}

// ParseCardType validates a card type letter.
func ParseCardType(value string) (CardType, error) {
	switch CardType(value) {
	case CardTypeWork, CardTypeBank, CardTypeExpeditor, CardTypeLife, CardTypeInvestor:
		return CardType(value), nil
	}
	return "", fmt.Errorf("unknown card type %q", value)
}

func (t CardType) String() string {
	switch t {
	case CardTypeWork:
		return "Work"
	case CardTypeBank:
		return "Bank Loan"
	case CardTypeExpeditor:
		return "Expeditor"
	case CardTypeLife:
		return "Life Events"
	case CardTypeInvestor:
		return "Investor Loan"
	default:
		return string(t)
	}
}

// PhaseAny marks a card playable in any space phase.
const PhaseAny = "Any"

// Card is the static definition of one card, loaded from the data provider.
// Instances in a player's hand are referenced by ID.
type Card struct {
	ID          string
	Name        string
	Type        CardType
	Description string

	// PhaseRestriction names the space phase the card may be played in,
	// or PhaseAny.
	PhaseRestriction string

	// Duration is "Immediate" or "Turns"; DurationCount applies to Turns.
	Duration      string
	DurationCount int

	// Financial mechanics. LoanRate is a percentage (5 means 5%).
	LoanAmount       int
	LoanRate         float64
	InvestmentAmount int
	WorkCost         int
	MoneyEffect      int
	TickModifier     int

	// Card interaction directives like "2 E" (count and deck letter).
	DrawCards    string
	DiscardCards string

	Target string
}

// Cost returns the unified cost value used for scope and scoring:
// loan amount for B, investment for I, work cost for W.
func (c Card) Cost() int {
	switch c.Type {
	case CardTypeBank:
		return c.LoanAmount
	case CardTypeInvestor:
		return c.InvestmentAmount
	case CardTypeWork:
		return c.WorkCost
	default:
		return 0
	}
}

// IsImmediate reports whether the card's effects apply once on play.
func (c Card) IsImmediate() bool {
	return c.Duration == "" || c.Duration == "Immediate"
}
