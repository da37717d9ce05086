package gifting

// PpmDenominator is the fee-rate base: 1,000,000 = 100%.
const PpmDenominator = 1_000_000

// MaxQuantity bounds a single send. Quantity comes straight from the
// request body and multiplies catalog amounts, so it must be capped
// before any arithmetic; larger sends go through multiple requests.
const MaxQuantity = 1_000

// Config holds gifting parameters.
type Config struct {
	// PlatformFeePpm is the platform's cut of gifted diamonds in
	// parts-per-million, e.g. 200_000 = 20%.
	PlatformFeePpm int64
}

// DefaultConfig is the platform's standard fee split.
func DefaultConfig() Config {
	return Config{PlatformFeePpm: 200_000}
}

// SendGiftRequest describes one gift send.
type SendGiftRequest struct {
	SenderID  uint
	CreatorID uint
	StoryID   *uint
	GiftCode  string
	Quantity  int64
}

// SplitDiamonds divides a diamond total between creator and platform.
// The platform share floors; the creator share is always the remainder,
// so the two sum to total exactly for any feePpm in [0, 1_000_000].
func SplitDiamonds(total, feePpm int64) (creatorShare, platformShare int64) {
	platformShare = total * feePpm / PpmDenominator
	creatorShare = total - platformShare
	return creatorShare, platformShare
}
