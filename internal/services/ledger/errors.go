package ledger

import "errors"

// Engine errors. Both indicate programmer error in calling code and must
// never be silently swallowed.
var (
	ErrInvalidEntry = errors.New("invalid ledger entry")
	ErrImbalance    = errors.New("ledger transaction does not balance")
)
