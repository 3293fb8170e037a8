package domain

// Loan records one outstanding loan on a player.
type Loan struct {
	ID           string
	Principal    int
	InterestRate float64 // per-turn rate, e.g. 0.05 for 5%
	StartTurn    int
}

// ActiveCard is a played card with a lifespan measured in turns.
type ActiveCard struct {
	CardID         string
	ExpirationTurn int
}

// TurnModifiers holds turn-control state applied to a player by effects.
type TurnModifiers struct {
	// SkipTurns is the number of upcoming turns the player must sit out.
	SkipTurns int
	// CanReroll grants one extra dice roll this turn; consumed on use.
	CanReroll bool
}

// CostEntry is one append-only cost-history record.
type CostEntry struct {
	Category    CostCategory
	Amount      int
	Description string
	Turn        int
	Space       string
}

// CostCategory buckets recorded costs for audit display.
type CostCategory string

const (
	CostBankFee      CostCategory = "bank_fee"
	CostInvestorFee  CostCategory = "investor_fee"
	CostExpeditorFee CostCategory = "expeditor_fee"
	CostRegulatory   CostCategory = "regulatory"
	CostConstruction CostCategory = "construction"
	CostOther        CostCategory = "other"
)

// Player is one participant's full state.
//
// Invariants: Money and TimeSpent are never negative. Operations that would
// drive Money below zero fail without mutating; TimeSpent clamps at zero.
type Player struct {
	ID    string
	Name  string
	Color string

	CurrentSpace string
	VisitType    VisitType
	// VisitedSpaces records every space the player has entered, in order.
	VisitedSpaces []string

	Money        int
	TimeSpent    int
	ProjectScope int
	Score        int

	// Hand holds card instance ids in draw order.
	Hand        []string
	ActiveCards []ActiveCard

	TurnModifiers TurnModifiers
	Loans         []Loan

	// MoneySources tracks signed running totals per source label for audit.
	MoneySources map[string]int
	CostHistory  []CostEntry
}

// CostTotal sums the player's recorded costs for one category.
func (p Player) CostTotal(category CostCategory) int {
	total := 0
	for _, entry := range p.CostHistory {
		if entry.Category == category {
			total += entry.Amount
		}
	}
	return total
}

// CostTotals returns the per-category cost breakdown.
func (p Player) CostTotals() map[CostCategory]int {
	totals := make(map[CostCategory]int)
	for _, entry := range p.CostHistory {
		totals[entry.Category] += entry.Amount
	}
	return totals
}

// HasCard reports whether the card instance is in the player's hand.
func (p Player) HasCard(cardID string) bool {
	for _, id := range p.Hand {
		if id == cardID {
			return true
		}
	}
	return false
}

// HasVisited reports whether the player has entered the space before.
func (p Player) HasVisited(spaceName string) bool {
	for _, name := range p.VisitedSpaces {
		if name == spaceName {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the player.
func (p Player) Clone() Player {
	clone := p
	clone.VisitedSpaces = append([]string(nil), p.VisitedSpaces...)
	clone.Hand = append([]string(nil), p.Hand...)
	clone.ActiveCards = append([]ActiveCard(nil), p.ActiveCards...)
	clone.Loans = append([]Loan(nil), p.Loans...)
	clone.CostHistory = append([]CostEntry(nil), p.CostHistory...)
	if p.MoneySources != nil {
		clone.MoneySources = make(map[string]int, len(p.MoneySources))
		for source, amount := range p.MoneySources {
			clone.MoneySources[source] = amount
		}
	}
	return clone
}
