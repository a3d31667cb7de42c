package parking

// Reverse returns a copy of s in reverse order, used to undo rollback log
// entries most-recent-first without mutating the popped slice in place.
func Reverse[v any](s []v) []v {
	reversed := make([]v, len(s))
	for i, j := 0, len(s)-1; i < len(s); i, j = i+1, j-1 {
		reversed[i] = s[j]
	}
	return reversed
}
