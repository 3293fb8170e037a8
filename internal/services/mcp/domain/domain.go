// Package domain defines the MCP tool schemas and handlers that expose
// a running game to MCP clients. Each tool is a pair: a Tool constructor
// carrying the schema, and a Handler factory closing over the game core.
package domain

import (
	stderrors "errors"
	"fmt"

	gamedomain "github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/turn"
	"github.com/louisbranch/groundbreak/internal/platform/errors"
	"github.com/louisbranch/groundbreak/internal/platform/errors/i18n"
)

// defaultLocale selects the message catalog for player-facing errors.
const defaultLocale = "en-US"

// userError rewrites a core error into one whose message comes from the
// locale catalog, so MCP clients see player-facing text instead of
// internal diagnostics. Non-core errors pass through unchanged.
func userError(err error) error {
	var coreErr *errors.Error
	if stderrors.As(err, &coreErr) {
		catalog := i18n.GetCatalog(defaultLocale)
		return fmt.Errorf("%s", catalog.Format(string(coreErr.Code), coreErr.Metadata))
	}
	return err
}

// FeedbackResult is the common tool output for turn operations.
type FeedbackResult struct {
	Success          bool     `json:"success" jsonschema:"whether the operation fully succeeded"`
	Message          string   `json:"message,omitempty" jsonschema:"player-facing outcome message"`
	DiceRoll         int      `json:"dice_roll,omitempty" jsonschema:"die face rolled, if any"`
	Destination      string   `json:"destination,omitempty" jsonschema:"movement destination selected by the operation"`
	DrawnCardID      string   `json:"drawn_card_id,omitempty" jsonschema:"card drawn by the operation"`
	EffectsTotal     int      `json:"effects_total" jsonschema:"number of effects processed"`
	EffectsFailed    int      `json:"effects_failed" jsonschema:"number of effects that failed"`
	EffectErrors     []string `json:"effect_errors,omitempty" jsonschema:"player-facing messages for failed effects"`
	AwaitingChoiceID string   `json:"awaiting_choice_id,omitempty" jsonschema:"pending choice id, when a decision is now required"`
}

func feedbackResult(feedback turn.Feedback) FeedbackResult {
	result := FeedbackResult{
		Success:       feedback.Success,
		Message:       feedback.Message,
		DiceRoll:      feedback.DiceRoll,
		Destination:   feedback.Destination,
		DrawnCardID:   feedback.DrawnCardID,
		EffectsTotal:  feedback.Batch.Total,
		EffectsFailed: feedback.Batch.Failed,
	}
	for _, err := range feedback.Batch.Errors {
		result.EffectErrors = append(result.EffectErrors, userError(err).Error())
	}
	return result
}

// ChoiceSummary describes a pending choice for MCP clients.
type ChoiceSummary struct {
	ID       string         `json:"id" jsonschema:"choice identifier"`
	PlayerID string         `json:"player_id" jsonschema:"player who must decide"`
	Type     string         `json:"type" jsonschema:"choice type"`
	Prompt   string         `json:"prompt" jsonschema:"player-facing prompt"`
	Options  []ChoiceOption `json:"options" jsonschema:"selectable options"`
}

// ChoiceOption is one selectable option of a pending choice.
type ChoiceOption struct {
	ID    string `json:"id" jsonschema:"option identifier to pass to choice_resolve"`
	Label string `json:"label" jsonschema:"player-facing option label"`
}

func choiceSummary(choice gamedomain.Choice) ChoiceSummary {
	summary := ChoiceSummary{
		ID:       choice.ID,
		PlayerID: choice.PlayerID,
		Type:     string(choice.Type),
		Prompt:   choice.Prompt,
	}
	for _, option := range choice.Options {
		summary.Options = append(summary.Options, ChoiceOption{ID: option.ID, Label: option.Label})
	}
	return summary
}
