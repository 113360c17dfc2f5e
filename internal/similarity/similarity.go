// Package similarity implements string distance used by the fuzzy rescue and
// suggestion layers.
package similarity

import "github.com/quadroai/voicepilot/internal/synonyms"

// Score returns 1 - distance/maxLen between the lowercased inputs, so 1.0
// means identical and 0.0 means nothing in common.
func Score(source, target string) float64 {
	if source == "" {
		if target == "" {
			return 1.0
		}
		return 0.0
	}
	if target == "" {
		return 0.0
	}

	a := []rune(synonyms.Lower(source))
	b := []rune(synonyms.Lower(target))
	if string(a) == string(b) {
		return 1.0
	}

	dist := Distance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(dist)/float64(maxLen)
}

// Distance computes the Levenshtein edit distance over runes.
func Distance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
