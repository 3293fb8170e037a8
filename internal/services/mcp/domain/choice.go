package domain

import (
	"context"

	"github.com/louisbranch/groundbreak/internal/game/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ChoiceGetInput represents the MCP tool input for reading the pending choice.
type ChoiceGetInput struct{}

// ChoiceGetResult represents the MCP tool output for reading the pending choice.
type ChoiceGetResult struct {
	Pending bool           `json:"pending" jsonschema:"whether a decision is waiting"`
	Choice  *ChoiceSummary `json:"choice,omitempty" jsonschema:"the pending decision, when one exists"`
}

// ChoiceGetTool defines the MCP tool schema for reading the pending choice.
func ChoiceGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "choice_get",
		Description: "Returns the decision currently blocking the game, if any. At most one decision is pending at a time.",
	}
}

// ChoiceGetHandler executes a pending choice read.
func ChoiceGetHandler(game *engine.Game) mcp.ToolHandlerFor[ChoiceGetInput, ChoiceGetResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, _ ChoiceGetInput) (*mcp.CallToolResult, ChoiceGetResult, error) {
		choice, ok := game.Broker.Active()
		if !ok {
			return nil, ChoiceGetResult{}, nil
		}
		summary := choiceSummary(choice)
		return nil, ChoiceGetResult{Pending: true, Choice: &summary}, nil
	}
}

// ChoiceResolveInput represents the MCP tool input for resolving a choice.
type ChoiceResolveInput struct {
	ChoiceID string `json:"choice_id" jsonschema:"pending choice identifier from choice_get or game_state"`
	OptionID string `json:"option_id" jsonschema:"selected option identifier"`
}

// ChoiceResolveResult represents the MCP tool output for resolving a choice.
type ChoiceResolveResult struct {
	Resolved bool `json:"resolved" jsonschema:"whether the selection was accepted"`
}

// ChoiceResolveTool defines the MCP tool schema for resolving a choice.
func ChoiceResolveTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "choice_resolve",
		Description: "Answers the pending decision with one of its options, unblocking whatever was waiting on it. The selection is rejected if the choice or option does not match.",
	}
}

// ChoiceResolveHandler executes a choice resolution.
func ChoiceResolveHandler(game *engine.Game) mcp.ToolHandlerFor[ChoiceResolveInput, ChoiceResolveResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ChoiceResolveInput) (*mcp.CallToolResult, ChoiceResolveResult, error) {
		resolved := game.ResolveChoice(input.ChoiceID, input.OptionID)
		return nil, ChoiceResolveResult{Resolved: resolved}, nil
	}
}
