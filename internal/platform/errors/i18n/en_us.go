package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeLedgerAmountNotPositive   = "LEDGER_AMOUNT_NOT_POSITIVE"
	CodeLedgerInsufficientFunds   = "LEDGER_INSUFFICIENT_FUNDS"
	CodeLedgerLoanInvalid         = "LEDGER_LOAN_INVALID"
	CodeChoicePlayerRequired      = "CHOICE_PLAYER_REQUIRED"
	CodeChoiceOptionsRequired     = "CHOICE_OPTIONS_REQUIRED"
	CodeChoiceOptionMalformed     = "CHOICE_OPTION_MALFORMED"
	CodeChoiceNotActive           = "CHOICE_NOT_ACTIVE"
	CodeChoiceOptionUnknown       = "CHOICE_OPTION_UNKNOWN"
	CodeChoiceCleared             = "CHOICE_CLEARED"
	CodeEffectUnsupported         = "EFFECT_UNSUPPORTED"
	CodeEffectTargetRequired      = "EFFECT_TARGET_REQUIRED"
	CodeEffectInvalidChoiceOption = "EFFECT_INVALID_CHOICE_OPTION"
	CodeTurnNotPlayerTurn         = "TURN_NOT_PLAYER_TURN"
	CodeTurnDiceAlreadyRolled     = "TURN_DICE_ALREADY_ROLLED"
	CodeTurnDiceNotRolled         = "TURN_DICE_NOT_ROLLED"
	CodeTurnActionCompleted       = "TURN_ACTION_ALREADY_COMPLETED"
	CodeTurnActionsPending        = "TURN_ACTIONS_PENDING"
	CodeTurnChoiceOutstanding     = "TURN_CHOICE_OUTSTANDING"
	CodeTurnMoveInvalid           = "TURN_MOVE_INVALID"
	CodeTurnTryAgainUnavailable   = "TURN_TRY_AGAIN_UNAVAILABLE"
	CodeTurnNegotiationActive     = "TURN_NEGOTIATION_ACTIVE"
	CodeTurnNoNegotiation         = "TURN_NO_NEGOTIATION"
	CodeCardNotFound              = "CARD_NOT_FOUND"
	CodeCardNotOwned              = "CARD_NOT_OWNED"
	CodeCardTypeInvalid           = "CARD_TYPE_INVALID"
	CodeCardDeckEmpty             = "CARD_DECK_EMPTY"
	CodePlayerNotFound            = "PLAYER_NOT_FOUND"
	CodeSpaceNotFound             = "SPACE_NOT_FOUND"
	CodeNotFound                  = "NOT_FOUND"
)

// enUS is the base message catalog. Metadata keys referenced by templates
// are documented next to the component that emits the code.
var enUS = map[Code]string{
	CodeLedgerAmountNotPositive:   "Amount must be greater than zero",
	CodeLedgerInsufficientFunds:   "Not enough money: need ${{.Amount}}, have ${{.Balance}}",
	CodeLedgerLoanInvalid:         "Loan terms are invalid",
	CodeChoicePlayerRequired:      "A player is required for this choice",
	CodeChoiceOptionsRequired:     "A choice needs at least one option",
	CodeChoiceOptionMalformed:     "Choice options need both an id and a label",
	CodeChoiceNotActive:           "No decision is waiting for this player",
	CodeChoiceOptionUnknown:       "That option is not part of the current decision",
	CodeChoiceCleared:             "The pending decision was cancelled",
	CodeEffectUnsupported:         "Unsupported effect type: {{.EffectType}}",
	CodeEffectTargetRequired:      "This effect needs a target player",
	CodeEffectInvalidChoiceOption: "Invalid choice option selected",
	CodeTurnNotPlayerTurn:         "It is not {{.PlayerName}}'s turn",
	CodeTurnDiceAlreadyRolled:     "Dice were already rolled this turn",
	CodeTurnDiceNotRolled:         "Roll the dice before taking this action",
	CodeTurnActionCompleted:       "The {{.Category}} action was already taken this turn",
	CodeTurnActionsPending:        "Finish your required actions before ending the turn",
	CodeTurnChoiceOutstanding:     "Resolve the pending decision before ending the turn",
	CodeTurnMoveInvalid:           "You cannot move to {{.SpaceName}} from here",
	CodeTurnTryAgainUnavailable:   "Try again not available on this space",
	CodeTurnNegotiationActive:     "A negotiation is already in progress",
	CodeTurnNoNegotiation:         "There is no negotiation to resolve",
	CodeCardNotFound:              "Card {{.CardID}} was not found",
	CodeCardNotOwned:              "Card {{.CardID}} is not in your hand",
	CodeCardTypeInvalid:           "Unknown card type: {{.CardType}}",
	CodeCardDeckEmpty:             "The {{.CardType}} deck is empty",
	CodePlayerNotFound:            "Player {{.PlayerID}} was not found",
	CodeSpaceNotFound:             "Space {{.SpaceName}} was not found",
	CodeNotFound:                  "Record not found",
}
