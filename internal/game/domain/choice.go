package domain

// ChoiceType classifies a blocking decision for presentation purposes.
// Resolution logic is identical for every type; MOVEMENT choices are
// rendered outside the generic choice flow by the UI layer.
type ChoiceType string

const (
	ChoiceMovement        ChoiceType = "MOVEMENT"
	ChoicePlayerTarget    ChoiceType = "PLAYER_TARGET"
	ChoiceGeneral         ChoiceType = "GENERAL"
	ChoiceTargetSelection ChoiceType = "TARGET_SELECTION"
	ChoiceCardReplacement ChoiceType = "CARD_REPLACEMENT"
)

// ChoiceOption is one selectable answer to a choice.
type ChoiceOption struct {
	ID    string
	Label string
}

// Choice is a blocking decision point requiring external player input
// before game logic may proceed. At most one choice is globally awaiting
// at the state store at a time.
type Choice struct {
	ID       string
	PlayerID string
	Type     ChoiceType
	Prompt   string
	Options  []ChoiceOption
}

// HasOption reports whether the option id belongs to this choice.
func (c Choice) HasOption(optionID string) bool {
	for _, option := range c.Options {
		if option.ID == optionID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the choice.
func (c Choice) Clone() Choice {
	clone := c
	clone.Options = append([]ChoiceOption(nil), c.Options...)
	return clone
}
