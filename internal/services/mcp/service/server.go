// Package service assembles the MCP server around a wired game core and
// serves it over stdio.
package service

import (
	"context"
	"fmt"

	"github.com/louisbranch/groundbreak/internal/game/engine"
	"github.com/louisbranch/groundbreak/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// serverName identifies the MCP server to clients.
	serverName = "groundbreak"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// Server hosts the MCP tool surface over one game instance.
type Server struct {
	game      *engine.Game
	mcpServer *mcp.Server
}

// New creates a configured MCP server exposing the game's tools.
func New(game *engine.Game) (*Server, error) {
	if game == nil {
		return nil, fmt.Errorf("mcp server requires a game")
	}

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(mcpServer, domain.GameStartTool(), domain.GameStartHandler(game))
	mcp.AddTool(mcpServer, domain.GameStateTool(), domain.GameStateHandler(game))
	mcp.AddTool(mcpServer, domain.MovesTool(), domain.MovesHandler(game))
	mcp.AddTool(mcpServer, domain.DiceRollTool(), domain.DiceRollHandler(game))
	mcp.AddTool(mcpServer, domain.ActionTriggerTool(), domain.ActionTriggerHandler(game))
	mcp.AddTool(mcpServer, domain.TurnEndTool(), domain.TurnEndHandler(game))
	mcp.AddTool(mcpServer, domain.TryAgainTool(), domain.TryAgainHandler(game))
	mcp.AddTool(mcpServer, domain.CardDrawTool(), domain.CardDrawHandler(game))
	mcp.AddTool(mcpServer, domain.CardPlayTool(), domain.CardPlayHandler(game))
	mcp.AddTool(mcpServer, domain.FundingTool(), domain.FundingHandler(game))
	mcp.AddTool(mcpServer, domain.ChoiceGetTool(), domain.ChoiceGetHandler(game))
	mcp.AddTool(mcpServer, domain.ChoiceResolveTool(), domain.ChoiceResolveHandler(game))
	mcp.AddTool(mcpServer, domain.NegotiationOpenTool(), domain.NegotiationOpenHandler(game))
	mcp.AddTool(mcpServer, domain.NegotiationOfferTool(), domain.NegotiationOfferHandler(game))
	mcp.AddTool(mcpServer, domain.NegotiationAcceptTool(), domain.NegotiationAcceptHandler(game))
	mcp.AddTool(mcpServer, domain.NegotiationDeclineTool(), domain.NegotiationDeclineHandler(game))

	return &Server{game: game, mcpServer: mcpServer}, nil
}

// Serve starts the MCP server on stdio and blocks until it stops or the
// context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("mcp server is not initialized")
	}
	return s.mcpServer.Run(ctx, transport)
}
