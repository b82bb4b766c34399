package match

import "log/slog"

// Evaluator decides whether a guess is correct for a canonical answer.
// An exact match after normalization always wins; otherwise the White
// similarity score must reach the configured threshold, which absorbs
// typos and minor phrasing variance.
type Evaluator struct {
	threshold float64
}

func NewEvaluator(threshold float64) *Evaluator {
	return &Evaluator{threshold: threshold}
}

func (e *Evaluator) IsCorrect(canonicalAnswer, guess string) bool {
	answer := NormalizeAnswer(canonicalAnswer)
	normalized := NormalizeGuess(guess)

	similarity := Similarity(answer, normalized)
	slog.Debug("evaluated answer",
		"answer", answer,
		"guess", normalized,
		"similarity", similarity,
	)

	return answer == normalized || similarity >= e.threshold
}
