package domain

import (
	"context"

	gamedomain "github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NegotiationOpenInput represents the MCP tool input for opening a negotiation.
type NegotiationOpenInput struct {
	InitiatorID string `json:"initiator_id" jsonschema:"player starting the negotiation; must be the current player on a negotiable space"`
	PartnerID   string `json:"partner_id" jsonschema:"player being negotiated with"`
}

// NegotiationOpenResult represents the MCP tool output for opening a negotiation.
type NegotiationOpenResult struct {
	ID          string `json:"id" jsonschema:"negotiation identifier"`
	InitiatorID string `json:"initiator_id" jsonschema:"player who opened the negotiation"`
	PartnerID   string `json:"partner_id" jsonschema:"player being negotiated with"`
}

// NegotiationOpenTool defines the MCP tool schema for opening a negotiation.
func NegotiationOpenTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "negotiation_open",
		Description: "Opens a negotiation between the current player and a partner. Turn progression suspends until the negotiation is accepted or declined.",
	}
}

// NegotiationOpenHandler executes a negotiation open request.
func NegotiationOpenHandler(game *engine.Game) mcp.ToolHandlerFor[NegotiationOpenInput, NegotiationOpenResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input NegotiationOpenInput) (*mcp.CallToolResult, NegotiationOpenResult, error) {
		negotiation, err := game.Turns.OpenNegotiation(input.InitiatorID, input.PartnerID)
		if err != nil {
			return nil, NegotiationOpenResult{}, userError(err)
		}
		return nil, NegotiationOpenResult{
			ID:          negotiation.ID,
			InitiatorID: negotiation.InitiatorID,
			PartnerID:   negotiation.PartnerID,
		}, nil
	}
}

// NegotiationOfferInput represents the MCP tool input for making an offer.
type NegotiationOfferInput struct {
	PlayerID string   `json:"player_id" jsonschema:"player making the offer; either party may revise it"`
	Money    int      `json:"money,omitempty" jsonschema:"money offered by the initiator; negative values request money from the partner"`
	CardIDs  []string `json:"card_ids,omitempty" jsonschema:"card ids offered from the initiator's hand"`
	Note     string   `json:"note,omitempty" jsonschema:"free-form note attached to the offer"`
}

// NegotiationOfferResult represents the MCP tool output for making an offer.
type NegotiationOfferResult struct {
	Accepted bool `json:"accepted" jsonschema:"always false; the partner accepts separately via negotiation_accept"`
}

// NegotiationOfferTool defines the MCP tool schema for making an offer.
func NegotiationOfferTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "negotiation_offer",
		Description: "Records the current offer on the open negotiation. Either party may replace the offer until it is accepted or declined.",
	}
}

// NegotiationOfferHandler executes a negotiation offer request.
func NegotiationOfferHandler(game *engine.Game) mcp.ToolHandlerFor[NegotiationOfferInput, NegotiationOfferResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input NegotiationOfferInput) (*mcp.CallToolResult, NegotiationOfferResult, error) {
		offer := gamedomain.NegotiationOffer{
			Money:   input.Money,
			CardIDs: append([]string(nil), input.CardIDs...),
			Note:    input.Note,
		}
		if err := game.Turns.MakeOffer(input.PlayerID, offer); err != nil {
			return nil, NegotiationOfferResult{}, userError(err)
		}
		return nil, NegotiationOfferResult{}, nil
	}
}

// NegotiationAcceptInput represents the MCP tool input for accepting an offer.
type NegotiationAcceptInput struct {
	PlayerID string `json:"player_id" jsonschema:"accepting player; must be the negotiation partner"`
}

// NegotiationAcceptResult represents the MCP tool output for accepting an offer.
type NegotiationAcceptResult struct {
	Accepted bool `json:"accepted" jsonschema:"whether the offer was applied"`
}

// NegotiationAcceptTool defines the MCP tool schema for accepting an offer.
func NegotiationAcceptTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "negotiation_accept",
		Description: "Accepts the open negotiation's offer, transferring the offered money and cards and applying any agreed effects.",
	}
}

// NegotiationAcceptHandler executes a negotiation accept request.
func NegotiationAcceptHandler(game *engine.Game) mcp.ToolHandlerFor[NegotiationAcceptInput, NegotiationAcceptResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input NegotiationAcceptInput) (*mcp.CallToolResult, NegotiationAcceptResult, error) {
		if err := game.Turns.AcceptNegotiation(ctx, input.PlayerID); err != nil {
			return nil, NegotiationAcceptResult{}, userError(err)
		}
		return nil, NegotiationAcceptResult{Accepted: true}, nil
	}
}

// NegotiationDeclineInput represents the MCP tool input for declining an offer.
type NegotiationDeclineInput struct {
	PlayerID string `json:"player_id" jsonschema:"declining player; either party may decline"`
}

// NegotiationDeclineResult represents the MCP tool output for declining an offer.
type NegotiationDeclineResult struct {
	Declined bool `json:"declined" jsonschema:"whether the negotiation was closed without applying the offer"`
}

// NegotiationDeclineTool defines the MCP tool schema for declining an offer.
func NegotiationDeclineTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "negotiation_decline",
		Description: "Closes the open negotiation without applying its offer. Turn progression resumes.",
	}
}

// NegotiationDeclineHandler executes a negotiation decline request.
func NegotiationDeclineHandler(game *engine.Game) mcp.ToolHandlerFor[NegotiationDeclineInput, NegotiationDeclineResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input NegotiationDeclineInput) (*mcp.CallToolResult, NegotiationDeclineResult, error) {
		if err := game.Turns.DeclineNegotiation(input.PlayerID); err != nil {
			return nil, NegotiationDeclineResult{}, userError(err)
		}
		return nil, NegotiationDeclineResult{Declined: true}, nil
	}
}
