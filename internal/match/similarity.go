package match

import "strings"

// Similarity computes the White similarity ("strike a match") coefficient
// between two strings: the Sørensen–Dice coefficient over the multisets of
// adjacent-letter pairs of each whitespace-separated word. Identical token
// composition scores 1, disjoint strings 0. Deterministic, and symmetric up
// to multiset intersection order.
func Similarity(a, b string) float64 {
	pairsA := wordLetterPairs(a)
	pairsB := wordLetterPairs(b)

	union := len(pairsA) + len(pairsB)
	if union == 0 {
		if a == b {
			return 1
		}
		return 0
	}

	intersection := 0
	for _, pair := range pairsA {
		for i, other := range pairsB {
			if pair == other {
				intersection++
				pairsB = append(pairsB[:i], pairsB[i+1:]...)
				break
			}
		}
	}

	return 2 * float64(intersection) / float64(union)
}

func wordLetterPairs(s string) []string {
	var pairs []string
	for _, word := range strings.Fields(strings.ToUpper(s)) {
		runes := []rune(word)
		for i := 0; i+1 < len(runes); i++ {
			pairs = append(pairs, string(runes[i:i+2]))
		}
	}
	return pairs
}
