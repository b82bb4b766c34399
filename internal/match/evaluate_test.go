package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 0.5 is the shipped SIMILARITY_THRESHOLD default. Genuine White similarity
// scores abbreviations like "mt everest" around 0.71, so anything above that
// would reject them while still letting near-exact typos through.
const testThreshold = 0.5

func TestIsCorrect_QuestionFormatExactMatch(t *testing.T) {
	e := NewEvaluator(testThreshold)
	assert.True(t, e.IsCorrect("Mount Everest", "what is mount everest?"))
}

func TestIsCorrect_FuzzyAbbreviation(t *testing.T) {
	e := NewEvaluator(testThreshold)
	assert.True(t, e.IsCorrect("Mount Everest", "mt everest"))
}

func TestIsCorrect_WrongAnswer(t *testing.T) {
	e := NewEvaluator(testThreshold)
	assert.False(t, e.IsCorrect("Mount Everest", "Kilimanjaro"))
}

func TestIsCorrect_ExactShortCircuitsThreshold(t *testing.T) {
	// Even an impossible threshold accepts an exact normalized match.
	e := NewEvaluator(1.1)
	assert.True(t, e.IsCorrect("The Mona Lisa", "what is the mona lisa?"))
	assert.False(t, e.IsCorrect("The Mona Lisa", "mona lis"))
}

func TestIsCorrect_Typo(t *testing.T) {
	e := NewEvaluator(0.9)
	assert.True(t, e.IsCorrect("Mississippi", "missisippi"))
}

func TestIsCorrect_Ampersand(t *testing.T) {
	e := NewEvaluator(testThreshold)
	assert.True(t, e.IsCorrect("Bonnie and Clyde", "Bonnie & Clyde"))
}
