// Package textsim implements the longest-matching-blocks similarity ratio
// used for near-duplicate title detection.
package textsim

// Ratio returns 2*M/T, where M is the total length of the matching blocks
// between a and b and T is the combined length of both strings. Matching
// blocks are found by locating the longest common block and recursing on the
// pieces to its left and right. The result is in [0, 1]; two empty strings
// are identical (ratio 1). Comparison is rune-wise and case-sensitive.
func Ratio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchTotal(ra, rb)) / float64(total)
}

// matchTotal sums the lengths of all matching blocks between a and b.
func matchTotal(a, b []rune) int {
	i, j, k := longestMatch(a, b)
	if k == 0 {
		return 0
	}
	return k + matchTotal(a[:i], b[:j]) + matchTotal(a[i+k:], b[j+k:])
}

// longestMatch finds the longest block where a[i:i+k] == b[j:j+k],
// preferring the earliest start in a and then in b among maximal blocks.
func longestMatch(a, b []rune) (besti, bestj, bestk int) {
	// Positions of each rune in b.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	// j2len[j] is the length of the match ending at a[i-1], b[j].
	j2len := make(map[int]int)
	for i, r := range a {
		next := make(map[int]int, len(b2j[r]))
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			next[j] = k
			if k > bestk {
				besti, bestj, bestk = i-k+1, j-k+1, k
			}
		}
		j2len = next
	}
	return besti, bestj, bestk
}
