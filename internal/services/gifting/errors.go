package gifting

import "errors"

// Service errors
var (
	ErrInvalidGift     = errors.New("gift not found or inactive")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrGiftToSelf      = errors.New("cannot gift to yourself")
)
