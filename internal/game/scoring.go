package game

import "strconv"

const (
	hintPenalty = 100
	scoreFloor  = 100
)

// AdjustedPoints reduces a round's value by 100 per hint taken, never
// dropping below the 100-point floor.
func AdjustedPoints(baseValue, hintCount int) int {
	adjusted := baseValue - hintCount*hintPenalty
	if adjusted < scoreFloor {
		return scoreFloor
	}
	return adjusted
}

// CurrencyFormat renders a point total as signed, thousands-grouped dollars:
// 200 -> "$200", -10000 -> "-$10,000".
func CurrencyFormat(amount int) string {
	prefix := "$"
	if amount < 0 {
		prefix = "-$"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, d)
	}
	return prefix + string(grouped)
}
