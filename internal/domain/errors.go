package domain

import "errors"

// Ledger error taxonomy. Call sites annotate these with pkg/errors so
// handlers can still match them with errors.Is.
var (
	// ErrNotFound is returned when a referenced record id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrValidation marks malformed input to a create or update.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidQuantity marks a stock adjustment that would drive the
	// on-hand quantity negative.
	ErrInvalidQuantity = errors.New("quantity would become negative")

	// ErrInsufficientStock marks a sale requesting more units than are
	// on hand.
	ErrInsufficientStock = errors.New("insufficient stock")
)
