package domain

// Resource identifies a ledger resource.
type Resource string

const (
	ResourceMoney Resource = "MONEY"
	ResourceTime  Resource = "TIME"
)

// EffectType tags an Effect variant.
type EffectType string

const (
	EffectResourceChange   EffectType = "RESOURCE_CHANGE"
	EffectCardDraw         EffectType = "CARD_DRAW"
	EffectCardDiscard      EffectType = "CARD_DISCARD"
	EffectCardTransfer     EffectType = "CARD_TRANSFER"
	EffectMovement         EffectType = "MOVEMENT"
	EffectChoice           EffectType = "CHOICE_OF_EFFECTS"
	EffectTurnControl      EffectType = "TURN_CONTROL"
	EffectRecalculateScope EffectType = "RECALCULATE_SCOPE"
	EffectLog              EffectType = "LOG"
)

// TurnControlAction selects a TURN_CONTROL behavior.
type TurnControlAction string

const (
	TurnControlSkipTurn    TurnControlAction = "SKIP_TURN"
	TurnControlGrantReroll TurnControlAction = "GRANT_REROLL"
)

// LogLevel grades LOG effects.
type LogLevel string

const (
	LogInfo  LogLevel = "INFO"
	LogWarn  LogLevel = "WARN"
	LogError LogLevel = "ERROR"
)

// ResourceChangePayload adjusts money or time by a signed amount.
type ResourceChangePayload struct {
	Resource Resource
	Amount   int
	Reason   string
}

// CardDrawPayload draws count cards of one type into the target's hand.
type CardDrawPayload struct {
	CardType CardType
	Count    int
}

// CardDiscardPayload discards specific card instances, or count cards of
// one type when CardIDs is empty.
type CardDiscardPayload struct {
	CardIDs  []string
	CardType CardType
	Count    int
	Reason   string
}

// CardTransferPayload moves card instances between players.
type CardTransferPayload struct {
	ToPlayerID string
	CardIDs    []string
	Reason     string
}

// MovementPayload relocates the target player.
type MovementPayload struct {
	Destination string
}

// EffectOption is one selectable branch of a CHOICE_OF_EFFECTS effect.
type EffectOption struct {
	Label   string
	Effects []Effect
}

// ChoicePayload presents ordered branches and runs the selected one.
type ChoicePayload struct {
	Prompt  string
	Options []EffectOption
}

// TurnControlPayload modifies turn progression for the target player.
type TurnControlPayload struct {
	Action TurnControlAction
	Reason string
}

// LogPayload appends a message to the game action log.
type LogPayload struct {
	Level   LogLevel
	Message string
}

// Effect is a typed, data-only instruction produced by cards, dice rolls,
// and space triggers. Exactly one payload pointer matching Type is set.
//
// Effects within one batch are applied strictly in list order; a later
// effect may observe state written by an earlier one.
type Effect struct {
	Type EffectType

	// Source is free-text provenance, e.g. "card:E066" or "space:OWNER-FUND-INITIATION".
	Source string
	// PlayerID targets the effect; empty only for pure logging.
	PlayerID string

	ResourceChange   *ResourceChangePayload
	CardDraw         *CardDrawPayload
	CardDiscard      *CardDiscardPayload
	CardTransfer     *CardTransferPayload
	Movement         *MovementPayload
	Choice           *ChoicePayload
	TurnControl      *TurnControlPayload
	RecalculateScope *struct{}
	Log              *LogPayload
}

// NewResourceChange builds a RESOURCE_CHANGE effect.
func NewResourceChange(playerID string, resource Resource, amount int, source, reason string) Effect {
	return Effect{
		Type:     EffectResourceChange,
		Source:   source,
		PlayerID: playerID,
		ResourceChange: &ResourceChangePayload{
			Resource: resource,
			Amount:   amount,
			Reason:   reason,
		},
	}
}

// NewCardDraw builds a CARD_DRAW effect.
func NewCardDraw(playerID string, cardType CardType, count int, source string) Effect {
	return Effect{
		Type:     EffectCardDraw,
		Source:   source,
		PlayerID: playerID,
		CardDraw: &CardDrawPayload{CardType: cardType, Count: count},
	}
}

// NewLog builds a LOG effect.
func NewLog(level LogLevel, message, source string) Effect {
	return Effect{
		Type:   EffectLog,
		Source: source,
		Log:    &LogPayload{Level: level, Message: message},
	}
}
