package engine

import "fmt"

// Error codes surfaced across the external boundary (spec.md §6 error
// taxonomy). Internal rule violations keep the rules.Err* codes; these are
// the engine-level codes for setup and action-submission failures that never
// reach the rule layer.
const (
	ErrInvalidTarget                = "INVALID_TARGET"
	ErrCardNotFound                 = "CARD_NOT_FOUND"
	ErrTargetNotAlive               = "TARGET_NOT_ALIVE"
	ErrInvalidState                 = "INVALID_STATE"
	ErrRuleValidationFailed         = "RULE_VALIDATION_FAILED"
	ErrNotEnoughCardsForInitialHands = "NOT_ENOUGH_CARDS_FOR_INITIAL_HANDS"
	ErrNoAlivePlayers               = "NO_ALIVE_PLAYERS"
	ErrInvalidConfig                = "INVALID_CONFIG"
	ErrInvalidChoiceSequence        = "INVALID_CHOICE_SEQUENCE"
)

// Error is the external error shape: a taxonomy code plus a human-readable
// detail, never a bare string (spec.md §6 "error taxonomy").
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

func newError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
