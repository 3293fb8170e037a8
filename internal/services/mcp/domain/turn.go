package domain

import (
	"context"

	"github.com/louisbranch/groundbreak/internal/game/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// DiceRollInput represents the MCP tool input for rolling the movement die.
type DiceRollInput struct {
	PlayerID string `json:"player_id" jsonschema:"player rolling the die; must be the current player"`
}

// DiceRollTool defines the MCP tool schema for rolling the movement die.
func DiceRollTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "dice_roll",
		Description: "Rolls the movement die for the current player. On dice-movement spaces the result selects the pending destination, committed when the turn ends. One roll per turn unless a reroll was granted.",
	}
}

// DiceRollHandler executes a dice roll request.
func DiceRollHandler(game *engine.Game) mcp.ToolHandlerFor[DiceRollInput, FeedbackResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input DiceRollInput) (*mcp.CallToolResult, FeedbackResult, error) {
		feedback, err := game.Turns.RollDice(ctx, input.PlayerID)
		if err != nil {
			return nil, FeedbackResult{}, userError(err)
		}
		return nil, feedbackResult(feedback), nil
	}
}

// ActionTriggerInput represents the MCP tool input for taking a space action.
type ActionTriggerInput struct {
	PlayerID string `json:"player_id" jsonschema:"player taking the action; must be the current player"`
	Category string `json:"category" jsonschema:"action category offered by the current space (see game_state available_actions)"`
}

// ActionTriggerTool defines the MCP tool schema for taking a space action.
func ActionTriggerTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "action_trigger",
		Description: "Runs one of the current space's manual actions and marks its category completed. Each category may be taken once per turn.",
	}
}

// ActionTriggerHandler executes a space action request.
func ActionTriggerHandler(game *engine.Game) mcp.ToolHandlerFor[ActionTriggerInput, FeedbackResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ActionTriggerInput) (*mcp.CallToolResult, FeedbackResult, error) {
		feedback, err := game.Turns.TriggerManualEffect(ctx, input.PlayerID, input.Category)
		if err != nil {
			return nil, FeedbackResult{}, userError(err)
		}
		return nil, feedbackResult(feedback), nil
	}
}

// TurnEndInput represents the MCP tool input for ending a turn.
type TurnEndInput struct {
	PlayerID string `json:"player_id" jsonschema:"player ending their turn; must be the current player"`
}

// TurnEndResult represents the MCP tool output for ending a turn.
type TurnEndResult struct {
	Ended           bool   `json:"ended" jsonschema:"whether the game ended with this turn"`
	Winner          string `json:"winner,omitempty" jsonschema:"winning player id when the game ended"`
	Turn            int    `json:"turn" jsonschema:"turn number after advancing"`
	CurrentPlayerID string `json:"current_player_id,omitempty" jsonschema:"player whose turn it now is"`
}

// TurnEndTool defines the MCP tool schema for ending a turn.
func TurnEndTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "turn_end",
		Description: "Ends the current player's turn: commits pending movement, checks the win condition and turn limit, and advances to the next player. Fails while required actions, a die roll, a decision, or a negotiation are outstanding.",
	}
}

// TurnEndHandler executes a turn end request.
func TurnEndHandler(game *engine.Game) mcp.ToolHandlerFor[TurnEndInput, TurnEndResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input TurnEndInput) (*mcp.CallToolResult, TurnEndResult, error) {
		if err := game.Turns.EndTurn(ctx, input.PlayerID); err != nil {
			return nil, TurnEndResult{}, userError(err)
		}
		snapshot := game.State.GameState()
		result := TurnEndResult{
			Turn:            snapshot.Turn,
			CurrentPlayerID: snapshot.CurrentPlayerID,
		}
		if snapshot.Winner != "" {
			result.Ended = true
			result.Winner = snapshot.Winner
		}
		return nil, result, nil
	}
}

// TryAgainInput represents the MCP tool input for reverting a turn.
type TryAgainInput struct {
	PlayerID string `json:"player_id" jsonschema:"player reverting their turn; must be the current player"`
}

// TryAgainTool defines the MCP tool schema for reverting a turn.
func TryAgainTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "try_again",
		Description: "Reverts the current player to the state captured when they entered their space, for a one-day time penalty. Only available on negotiable spaces after rolling.",
	}
}

// TryAgainHandler executes a try again request.
func TryAgainHandler(game *engine.Game) mcp.ToolHandlerFor[TryAgainInput, FeedbackResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input TryAgainInput) (*mcp.CallToolResult, FeedbackResult, error) {
		return nil, feedbackResult(game.Turns.TryAgain(input.PlayerID)), nil
	}
}
