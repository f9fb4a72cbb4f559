// Package levenshtein computes edit distances and ranks near matches.
package levenshtein

import "sort"

// Distance returns the number of single-rune insertions, deletions or
// substitutions needed to turn a into b. Memory is O(min(len(a), len(b))).
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		diag := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			up := row[j]
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			row[j] = min(row[j]+1, row[j-1]+1, diag+cost)
			diag = up
		}
	}
	return row[len(rb)]
}

// Match is a candidate with its distance from the target
type Match struct {
	Value    string
	Distance int
}

// Closest returns up to n candidates nearest to target, ordered by distance
// and then lexicographically. n <= 0 returns every candidate.
func Closest(target string, candidates []string, n int) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, c := range candidates {
		matches = append(matches, Match{Value: c, Distance: Distance(target, c)})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Value < matches[j].Value
	})
	if n > 0 && len(matches) > n {
		matches = matches[:n]
	}
	return matches
}
