package main

import "strings"

// placeholderMarker is the glyph that flags a template cell as needing a
// value.
const placeholderMarker = "◦"

// fuzzyCutoff is the minimum similarity ratio a candidate key must reach
// before the fallback matcher accepts it.
const fuzzyCutoff = 0.4

// FallbackMatch finds the lookup key closest to the placeholder text. The
// comparison is lower-cased with the marker glyph stripped; the returned key
// keeps its original casing. Returns false when no candidate reaches the
// cutoff.
func FallbackMatch(placeholder string, keys []string) (string, bool) {
	needle := strings.ToLower(strings.Trim(placeholder, placeholderMarker+" "))

	best := ""
	bestScore := 0.0
	for _, key := range keys {
		score := similarityRatio(needle, strings.ToLower(key))
		if score > bestScore {
			bestScore = score
			best = key
		}
	}
	if bestScore < fuzzyCutoff {
		return "", false
	}
	return best, true
}

// similarityRatio is the Ratcliff/Obershelp ratio: twice the total number of
// matching characters over the combined length, where matches are counted by
// recursively splitting around the longest common substring.
func similarityRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	return 2 * float64(matchingChars(a, b)) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	i, j, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingChars(a[:i], b[:j]) + matchingChars(a[i+size:], b[j+size:])
}

// longestCommonBlock returns the start offsets and length of the longest
// common substring of a and b, preferring the earliest occurrence in a.
func longestCommonBlock(a, b string) (int, int, int) {
	bestI, bestJ, bestSize := 0, 0, 0
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := 0; i < len(a); i++ {
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				cur[j+1] = 0
				continue
			}
			cur[j+1] = prev[j] + 1
			if cur[j+1] > bestSize {
				bestSize = cur[j+1]
				bestI = i - bestSize + 1
				bestJ = j - bestSize + 1
			}
		}
		prev, cur = cur, prev
		for j := range cur {
			cur[j] = 0
		}
	}
	return bestI, bestJ, bestSize
}
