package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Ledger errors
	CodeLedgerAmountNotPositive Code = "LEDGER_AMOUNT_NOT_POSITIVE"
	CodeLedgerInsufficientFunds Code = "LEDGER_INSUFFICIENT_FUNDS"
	CodeLedgerLoanInvalid       Code = "LEDGER_LOAN_INVALID"

	// Choice errors
	CodeChoicePlayerRequired  Code = "CHOICE_PLAYER_REQUIRED"
	CodeChoiceOptionsRequired Code = "CHOICE_OPTIONS_REQUIRED"
	CodeChoiceOptionMalformed Code = "CHOICE_OPTION_MALFORMED"
	CodeChoiceNotActive       Code = "CHOICE_NOT_ACTIVE"
	CodeChoiceOptionUnknown   Code = "CHOICE_OPTION_UNKNOWN"
	CodeChoiceCleared         Code = "CHOICE_CLEARED"

	// Effect errors
	CodeEffectUnsupported         Code = "EFFECT_UNSUPPORTED"
	CodeEffectTargetRequired      Code = "EFFECT_TARGET_REQUIRED"
	CodeEffectInvalidChoiceOption Code = "EFFECT_INVALID_CHOICE_OPTION"

	// Turn errors
	CodeTurnNotPlayerTurn       Code = "TURN_NOT_PLAYER_TURN"
	CodeTurnDiceAlreadyRolled   Code = "TURN_DICE_ALREADY_ROLLED"
	CodeTurnDiceNotRolled       Code = "TURN_DICE_NOT_ROLLED"
	CodeTurnActionCompleted     Code = "TURN_ACTION_ALREADY_COMPLETED"
	CodeTurnActionsPending      Code = "TURN_ACTIONS_PENDING"
	CodeTurnChoiceOutstanding   Code = "TURN_CHOICE_OUTSTANDING"
	CodeTurnMoveInvalid         Code = "TURN_MOVE_INVALID"
	CodeTurnTryAgainUnavailable Code = "TURN_TRY_AGAIN_UNAVAILABLE"
	CodeTurnNegotiationActive   Code = "TURN_NEGOTIATION_ACTIVE"
	CodeTurnNoNegotiation       Code = "TURN_NO_NEGOTIATION"

	// Card errors
	CodeCardNotFound    Code = "CARD_NOT_FOUND"
	CodeCardNotOwned    Code = "CARD_NOT_OWNED"
	CodeCardTypeInvalid Code = "CARD_TYPE_INVALID"
	CodeCardDeckEmpty   Code = "CARD_DECK_EMPTY"

	// Player and space errors
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"
	CodeSpaceNotFound  Code = "SPACE_NOT_FOUND"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)
