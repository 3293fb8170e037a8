package domain

// VisitType distinguishes a player's first entry to a space from returns.
type VisitType string

const (
	VisitFirst      VisitType = "First"
	VisitSubsequent VisitType = "Subsequent"
)

// MovementType describes how a player leaves a space.
type MovementType string

const (
	// MovementNone marks a terminal space with no exits.
	MovementNone MovementType = "none"
	// MovementFixed has exactly one destination.
	MovementFixed MovementType = "fixed"
	// MovementChoice lets the player pick among destinations.
	MovementChoice MovementType = "choice"
	// MovementDice resolves the destination from the dice face.
	MovementDice MovementType = "dice"
)

// MovementRule is the movement row for one space and visit type.
type MovementRule struct {
	SpaceName    string
	VisitType    VisitType
	MovementType MovementType
	// Destinations lists candidate spaces for fixed/choice movement.
	Destinations []string
}

// SpaceConfig is the static configuration of one board space.
type SpaceConfig struct {
	Name  string
	Phase string
	// ActionCategories lists the manual action categories the space offers.
	ActionCategories []string
	IsStartingSpace  bool
	IsEndingSpace    bool
	// CanNegotiate marks spaces where "try again" is permitted.
	CanNegotiate bool
}

// TriggerType says when a space effect fires.
type TriggerType string

const (
	// TriggerAuto fires on space entry without player input.
	TriggerAuto TriggerType = "auto"
	// TriggerManual requires an explicit player action.
	TriggerManual TriggerType = "manual"
	// TriggerDiceRoll fires after the movement dice roll.
	TriggerDiceRoll TriggerType = "dice_roll"
)

// SpaceEffectRow is one declarative effect row from the space or dice
// effect tables. Rows are translated into Effects before processing.
type SpaceEffectRow struct {
	SpaceName  string
	VisitType  VisitType
	Trigger    TriggerType
	EffectType string // "money", "time", "cards"
	// Action refines the effect, e.g. "draw_w", "discard_e", "fee".
	Action string
	Value  int
	// Condition gates the row; see the rules package for the vocabulary.
	Condition   string
	Description string
}
