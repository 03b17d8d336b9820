package rules

// CanonicalPair orders two user ids so an undirected pair has one address.
func CanonicalPair(a, b int64) (low, high int64) {
	if a > b {
		return b, a
	}
	return a, b
}
