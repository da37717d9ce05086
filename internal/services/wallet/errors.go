package wallet

import "errors"

// Service errors
var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInsufficientBalance = errors.New("insufficient coin balance")
	// ErrConcurrentUpdate surfaces after the store's internal retries are
	// exhausted. Callers should present it as "try again", not as a hard
	// failure.
	ErrConcurrentUpdate = errors.New("wallet update lost too many races, try again")
)
