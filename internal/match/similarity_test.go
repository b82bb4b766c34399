package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identical(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("mount everest", "mount everest"))
}

func TestSimilarity_Disjoint(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("mount everest", "kilimanjaro"))
}

func TestSimilarity_Abbreviation(t *testing.T) {
	// "mount" contributes MO OU UN NT, "mt" only MT: 6 of the 17 pairs
	// match (all of "everest"), giving 12/17.
	assert.InDelta(t, 0.7059, Similarity("mount everest", "mt everest"), 0.001)
}

func TestSimilarity_Typo(t *testing.T) {
	got := Similarity("mississippi", "missisippi")
	assert.Greater(t, got, 0.85)
	assert.Less(t, got, 1.0)
}

func TestSimilarity_Symmetric(t *testing.T) {
	a, b := "the quick brown fox", "quick brown foxes"
	assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-9)
}

func TestSimilarity_MultisetNotSet(t *testing.T) {
	// Repeated pairs only match as often as they occur on both sides.
	assert.Less(t, Similarity("aaaa", "aa"), 1.0)
}

func TestSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("a", "b"))
}
