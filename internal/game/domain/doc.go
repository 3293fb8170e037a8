// Package domain defines the data model for the board-game core: players,
// game state, cards, spaces, effects, choices, and negotiations.
//
// Types here are pure data. Interpretation authority lives with the engine
// packages (ledger, rules, effect, turn); nothing in this package mutates
// shared state.
package domain
