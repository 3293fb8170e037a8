package domain

// NegotiationStatus tracks a negotiation sub-flow's lifecycle.
type NegotiationStatus string

const (
	NegotiationOpen     NegotiationStatus = "OPEN"
	NegotiationAccepted NegotiationStatus = "ACCEPTED"
	NegotiationDeclined NegotiationStatus = "DECLINED"
)

// NegotiationOffer is the current proposal on the table.
type NegotiationOffer struct {
	// Money offered by the initiator; negative values request money.
	Money int
	// CardIDs offered from the initiator's hand.
	CardIDs []string
	// Effects applied to both sides when the offer is accepted.
	Effects []Effect
	Note    string
}

// Negotiation is the state attached to the game while a negotiation
// sub-flow is active. It suspends turn progression until closed.
type Negotiation struct {
	ID          string
	InitiatorID string
	PartnerID   string
	Status      NegotiationStatus
	Offer       NegotiationOffer
	StartedTurn int
}

// Clone returns a deep copy of the negotiation.
func (n Negotiation) Clone() Negotiation {
	clone := n
	clone.Offer.CardIDs = append([]string(nil), n.Offer.CardIDs...)
	clone.Offer.Effects = append([]Effect(nil), n.Offer.Effects...)
	return clone
}
