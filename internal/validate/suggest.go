package validate

import "strings"

// suggest returns up to 3 registered names similar to the requested one.
// Ranking: exact (case difference only), then substring containment, then
// shared prefix, then Levenshtein distance up to 3. Suggestions are
// diagnostic hints for the corrective feedback loop, never auto-selected.
func suggest(name string, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	type scored struct {
		name  string
		score int
	}

	nameLower := strings.ToLower(name)
	scores := make([]scored, 0, len(candidates))

	for _, candidate := range candidates {
		candidateLower := strings.ToLower(candidate)

		var score int
		switch {
		case candidateLower == nameLower:
			score = 0
		case strings.Contains(candidateLower, nameLower) || strings.Contains(nameLower, candidateLower):
			score = 1
		case strings.HasPrefix(candidateLower, nameLower) || strings.HasPrefix(nameLower, candidateLower):
			score = 2
		default:
			distance := levenshtein(nameLower, candidateLower)
			if distance > 3 {
				continue
			}
			score = 10 + distance
		}

		scores = append(scores, scored{name: candidate, score: score})
	}

	for i := 0; i < len(scores); i++ {
		for j := i + 1; j < len(scores); j++ {
			if scores[j].score < scores[i].score {
				scores[i], scores[j] = scores[j], scores[i]
			}
		}
	}

	result := make([]string, 0, 3)
	for i := 0; i < len(scores) && i < 3; i++ {
		result = append(result, scores[i].name)
	}
	return result
}

// levenshtein computes edit distance with the usual single-row DP,
// iterating the shorter string as columns to keep memory at O(min(m,n)).
func levenshtein(a, b string) int {
	aRunes := []rune(a)
	bRunes := []rune(b)

	aLen := len(aRunes)
	bLen := len(bRunes)

	if aLen == 0 {
		return bLen
	}
	if bLen == 0 {
		return aLen
	}

	if aLen > bLen {
		aRunes, bRunes = bRunes, aRunes
		aLen, bLen = bLen, aLen
	}

	prevRow := make([]int, aLen+1)
	currRow := make([]int, aLen+1)

	for i := 0; i <= aLen; i++ {
		prevRow[i] = i
	}

	for i := 1; i <= bLen; i++ {
		currRow[0] = i

		for j := 1; j <= aLen; j++ {
			cost := 1
			if bRunes[i-1] == aRunes[j-1] {
				cost = 0
			}

			currRow[j] = min(
				currRow[j-1]+1,
				prevRow[j]+1,
				prevRow[j-1]+cost,
			)
		}

		prevRow, currRow = currRow, prevRow
	}

	return prevRow[aLen]
}
