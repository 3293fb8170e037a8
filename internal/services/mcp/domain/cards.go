package domain

import (
	"context"

	gamedomain "github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CardDrawInput represents the MCP tool input for drawing a card.
type CardDrawInput struct {
	PlayerID string `json:"player_id" jsonschema:"player drawing the card"`
	CardType string `json:"card_type" jsonschema:"deck letter: W, B, E, L, or I"`
	Reason   string `json:"reason,omitempty" jsonschema:"optional reason recorded in the action log"`
}

// CardDrawTool defines the MCP tool schema for drawing a card.
func CardDrawTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "card_draw",
		Description: "Draws one card from a deck and applies its effects in a single step. Loan and investment cards fund the player through the ledger as part of the draw.",
	}
}

// CardDrawHandler executes a card draw request.
func CardDrawHandler(game *engine.Game) mcp.ToolHandlerFor[CardDrawInput, FeedbackResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CardDrawInput) (*mcp.CallToolResult, FeedbackResult, error) {
		cardType, err := gamedomain.ParseCardType(input.CardType)
		if err != nil {
			return nil, FeedbackResult{}, userError(err)
		}
		reason := input.Reason
		if reason == "" {
			reason = "Manual draw"
		}
		feedback, err := game.Turns.DrawAndApplyCard(ctx, input.PlayerID, cardType, "draw:"+input.CardType, reason)
		if err != nil {
			return nil, FeedbackResult{}, userError(err)
		}
		return nil, feedbackResult(feedback), nil
	}
}

// CardPlayInput represents the MCP tool input for playing a card from hand.
type CardPlayInput struct {
	PlayerID string `json:"player_id" jsonschema:"player playing the card; must be the current player"`
	CardID   string `json:"card_id" jsonschema:"card id from the player's hand"`
}

// CardPlayTool defines the MCP tool schema for playing a card from hand.
func CardPlayTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "card_play",
		Description: "Plays a card from the player's hand, applying its effects and moving it to the discard pile. The card must allow the current space's phase.",
	}
}

// CardPlayHandler executes a card play request.
func CardPlayHandler(game *engine.Game) mcp.ToolHandlerFor[CardPlayInput, FeedbackResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CardPlayInput) (*mcp.CallToolResult, FeedbackResult, error) {
		feedback, err := game.Turns.PlayCard(ctx, input.PlayerID, input.CardID)
		if err != nil {
			return nil, FeedbackResult{}, userError(err)
		}
		return nil, feedbackResult(feedback), nil
	}
}

// FundingInput represents the MCP tool input for automatic funding.
type FundingInput struct {
	PlayerID string `json:"player_id" jsonschema:"player receiving funding"`
}

// FundingTool defines the MCP tool schema for automatic funding.
func FundingTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "funding_automatic",
		Description: "Draws a bank card and takes out its loan in one step, for spaces that fund the project on entry.",
	}
}

// FundingHandler executes an automatic funding request.
func FundingHandler(game *engine.Game) mcp.ToolHandlerFor[FundingInput, FeedbackResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input FundingInput) (*mcp.CallToolResult, FeedbackResult, error) {
		feedback, err := game.Turns.HandleAutomaticFunding(ctx, input.PlayerID)
		if err != nil {
			return nil, FeedbackResult{}, userError(err)
		}
		return nil, feedbackResult(feedback), nil
	}
}
