package core

// DefaultListLimit is the page size used when a listing sets no limit.
const DefaultListLimit = 1000

// EffectiveLimit returns limit, or DefaultListLimit when limit is not positive.
func EffectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
