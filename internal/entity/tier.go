package entity

// Tier is an ordered proficiency bucket used to filter session
// candidates. The scheduler treats tier values as opaque tags; only
// their relative order matters.
type Tier string

// The proficiency scale, easiest first. Mirrors the CEFR-style bands
// the content collaborator tags items with.
var TierOrder = []Tier{"A1", "A1+", "A2-", "A2", "A2+", "B1-"}

// TierIndex returns the position of t on the scale, or -1 for unknown
// or untagged values.
func TierIndex(t Tier) int {
	for i, tier := range TierOrder {
		if tier == t {
			return i
		}
	}
	return -1
}

// AtOrBelow reports whether t sits at or below the limit tier. Unknown
// tiers are never included.
func (t Tier) AtOrBelow(limit Tier) bool {
	ti, li := TierIndex(t), TierIndex(limit)
	if ti < 0 || li < 0 {
		return false
	}
	return ti <= li
}
