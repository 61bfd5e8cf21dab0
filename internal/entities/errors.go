package entities

import "errors"

// Domain error taxonomy. All core operations fail closed: on any of these
// errors nothing has been applied.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrUnauthorized      = errors.New("not authorized")
)
