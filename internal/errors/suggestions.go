// Package errors provides error helpers shared by forge commands, including
// "did you mean" suggestions for mistyped names.
package errors

import (
	"fmt"
	"strings"
)

// UnknownValueError reports a value outside an allowed set, suggesting the
// closest allowed value when one is plausibly a typo.
func UnknownValueError(kind, value string, allowed []string) error {
	if suggestion := ClosestMatch(value, allowed); suggestion != "" {
		return fmt.Errorf("unknown %s %q (did you mean %q?); available: %s",
			kind, value, suggestion, strings.Join(allowed, ", "))
	}
	return fmt.Errorf("unknown %s %q; available: %s", kind, value, strings.Join(allowed, ", "))
}

// ClosestMatch returns the candidate nearest to value by edit distance, or
// the empty string when nothing is close enough to be a likely typo.
func ClosestMatch(value string, candidates []string) string {
	const maxDistance = 3

	best := ""
	bestDistance := maxDistance + 1
	lower := strings.ToLower(value)
	for _, candidate := range candidates {
		d := editDistance(lower, strings.ToLower(candidate))
		if d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	if bestDistance > maxDistance {
		return ""
	}
	return best
}

// editDistance computes the Levenshtein distance between a and b.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
