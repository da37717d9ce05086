package payout

import "errors"

// Service errors
var (
	ErrNoEarnings       = errors.New("no diamond earnings to pay out")
	ErrBelowMinimum     = errors.New("earnings below minimum payout amount")
	ErrPayoutInProgress = errors.New("a payout request is already in flight")
	ErrPayoutNotReady   = errors.New("payout account is not ready to receive funds")
)
