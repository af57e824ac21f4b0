package services

import "errors"

var (
	// ErrForbidden marks an ownership or role mismatch on an existing entity.
	ErrForbidden = errors.New("not authorized")
	// ErrInvalidStatus marks a transition the order state machine rejects.
	ErrInvalidStatus = errors.New("invalid status transition")
	// ErrInvalidQuantity marks a quantity below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrNoQuote marks a quote acceptance that names no matching quote.
	ErrNoQuote = errors.New("no matching quote")
)
