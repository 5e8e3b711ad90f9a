package textclean

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns a similarity measure in [0,1] between two strings, computed
// character-wise with the Ratcliff-Obershelp matcher. Used by the structural
// cleaner's near-duplicate suppression.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	return difflib.NewMatcher(splitChars(a), splitChars(b)).Ratio()
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
