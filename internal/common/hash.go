package common

// HashString returns a stable, non-negative 32-bit hash of s (the classic
// h = h*31 + c rolling hash over runes). The same input always yields the
// same value across runs and platforms.
func HashString(s string) uint32 {
	var h uint32
	for _, r := range s {
		h = h*31 + uint32(r)
	}
	return h
}
