package domain

import (
	"context"

	gamedomain "github.com/louisbranch/groundbreak/internal/game/domain"
	"github.com/louisbranch/groundbreak/internal/game/engine"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PlayerSeat describes one player joining the game.
type PlayerSeat struct {
	Name  string `json:"name,omitempty" jsonschema:"player display name (defaults to Player N)"`
	Color string `json:"color,omitempty" jsonschema:"player token color"`
}

// GameStartInput represents the MCP tool input for starting a game.
type GameStartInput struct {
	Players []PlayerSeat `json:"players" jsonschema:"players in seating order; the first seat opens the game"`
}

// GameStartResult represents the MCP tool output for starting a game.
type GameStartResult struct {
	Turn            int             `json:"turn" jsonschema:"turn number, always 1 after start"`
	CurrentPlayerID string          `json:"current_player_id" jsonschema:"player whose turn it is"`
	StartingSpace   string          `json:"starting_space" jsonschema:"space every player starts on"`
	Players         []PlayerSummary `json:"players" jsonschema:"seated players"`
}

// GameStartTool defines the MCP tool schema for starting a game.
func GameStartTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_start",
		Description: "Seats the players, shuffles the card decks, and opens the first turn. Requires at least one player and a game that has not started.",
	}
}

// GameStartHandler executes a game start request.
func GameStartHandler(game *engine.Game) mcp.ToolHandlerFor[GameStartInput, GameStartResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input GameStartInput) (*mcp.CallToolResult, GameStartResult, error) {
		setups := make([]engine.PlayerSetup, len(input.Players))
		for i, seat := range input.Players {
			setups[i] = engine.PlayerSetup{Name: seat.Name, Color: seat.Color}
		}
		if err := game.StartGame(setups); err != nil {
			return nil, GameStartResult{}, userError(err)
		}

		snapshot := game.State.GameState()
		result := GameStartResult{
			Turn:            snapshot.Turn,
			CurrentPlayerID: snapshot.CurrentPlayerID,
		}
		for _, player := range snapshot.Players {
			result.StartingSpace = player.CurrentSpace
			result.Players = append(result.Players, playerSummary(player))
		}
		return nil, result, nil
	}
}

// PlayerSummary is the MCP view of one player.
type PlayerSummary struct {
	ID           string   `json:"id" jsonschema:"player identifier"`
	Name         string   `json:"name" jsonschema:"player display name"`
	Color        string   `json:"color,omitempty" jsonschema:"player token color"`
	CurrentSpace string   `json:"current_space" jsonschema:"space the player is on"`
	Money        int      `json:"money" jsonschema:"current money balance in dollars"`
	TimeSpent    int      `json:"time_spent" jsonschema:"accumulated days spent"`
	ProjectScope int      `json:"project_scope" jsonschema:"projected scope value in dollars"`
	Score        int      `json:"score" jsonschema:"last computed score"`
	Hand         []string `json:"hand,omitempty" jsonschema:"card ids in hand"`
	Loans        int      `json:"loans" jsonschema:"number of outstanding loans"`
}

func playerSummary(player gamedomain.Player) PlayerSummary {
	return PlayerSummary{
		ID:           player.ID,
		Name:         player.Name,
		Color:        player.Color,
		CurrentSpace: player.CurrentSpace,
		Money:        player.Money,
		TimeSpent:    player.TimeSpent,
		ProjectScope: player.ProjectScope,
		Score:        player.Score,
		Hand:         append([]string(nil), player.Hand...),
		Loans:        len(player.Loans),
	}
}

// GameStateInput represents the MCP tool input for reading game state.
type GameStateInput struct {
	LogTail int `json:"log_tail,omitempty" jsonschema:"number of trailing action log messages to include (default 10)"`
}

// GameStateResult represents the MCP tool output for reading game state.
type GameStateResult struct {
	Phase              string          `json:"phase" jsonschema:"game lifecycle phase (SETUP, PLAY, END)"`
	Turn               int             `json:"turn" jsonschema:"current turn number"`
	CurrentPlayerID    string          `json:"current_player_id,omitempty" jsonschema:"player whose turn it is"`
	HasRolledDice      bool            `json:"has_rolled_dice" jsonschema:"whether the current player rolled this turn"`
	LastDiceRoll       int             `json:"last_dice_roll,omitempty" jsonschema:"die face of this turn's roll"`
	PendingDestination string          `json:"pending_destination,omitempty" jsonschema:"selected but uncommitted movement target"`
	RequiredActions    int             `json:"required_actions" jsonschema:"actions the current space requires this turn"`
	CompletedActions   []string        `json:"completed_actions,omitempty" jsonschema:"action categories already taken this turn"`
	AvailableActions   []string        `json:"available_actions,omitempty" jsonschema:"action categories offered by the current space"`
	AwaitingChoice     *ChoiceSummary  `json:"awaiting_choice,omitempty" jsonschema:"pending decision blocking progress, if any"`
	Winner             string          `json:"winner,omitempty" jsonschema:"winning player id once the game ends"`
	Players            []PlayerSummary `json:"players" jsonschema:"all seated players"`
	Log                []string        `json:"log,omitempty" jsonschema:"trailing action log messages"`
}

// GameStateTool defines the MCP tool schema for reading game state.
func GameStateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "game_state",
		Description: "Returns the current game snapshot: phase, turn, players, pending decisions, and the trailing action log.",
	}
}

// GameStateHandler executes a game state read.
func GameStateHandler(game *engine.Game) mcp.ToolHandlerFor[GameStateInput, GameStateResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input GameStateInput) (*mcp.CallToolResult, GameStateResult, error) {
		snapshot := game.State.GameState()

		result := GameStateResult{
			Phase:              string(snapshot.Phase),
			Turn:               snapshot.Turn,
			CurrentPlayerID:    snapshot.CurrentPlayerID,
			HasRolledDice:      snapshot.HasRolledDice,
			LastDiceRoll:       snapshot.LastDiceRoll,
			PendingDestination: snapshot.PendingDestination,
			RequiredActions:    snapshot.RequiredActions,
			AvailableActions:   append([]string(nil), snapshot.AvailableActionTypes...),
			Winner:             snapshot.Winner,
		}
		for category, done := range snapshot.CompletedActions {
			if done {
				result.CompletedActions = append(result.CompletedActions, category)
			}
		}
		if snapshot.AwaitingChoice != nil {
			summary := choiceSummary(*snapshot.AwaitingChoice)
			result.AwaitingChoice = &summary
		}
		for _, player := range snapshot.Players {
			result.Players = append(result.Players, playerSummary(player))
		}

		tail := input.LogTail
		if tail <= 0 {
			tail = 10
		}
		start := len(snapshot.ActionLog) - tail
		if start < 0 {
			start = 0
		}
		for _, entry := range snapshot.ActionLog[start:] {
			result.Log = append(result.Log, entry.Message)
		}
		return nil, result, nil
	}
}

// MovesInput represents the MCP tool input for listing legal moves.
type MovesInput struct {
	PlayerID string `json:"player_id" jsonschema:"player to list moves for"`
}

// MovesResult represents the MCP tool output for listing legal moves.
type MovesResult struct {
	Destinations []string `json:"destinations,omitempty" jsonschema:"space names the player may move to; empty on terminal spaces"`
}

// MovesTool defines the MCP tool schema for listing legal moves.
func MovesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "moves_available",
		Description: "Lists the destinations the player may legally move to from their current space.",
	}
}

// MovesHandler executes a legal-move listing.
func MovesHandler(game *engine.Game) mcp.ToolHandlerFor[MovesInput, MovesResult] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input MovesInput) (*mcp.CallToolResult, MovesResult, error) {
		return nil, MovesResult{Destinations: game.Rules.AvailableMoves(input.PlayerID)}, nil
	}
}
