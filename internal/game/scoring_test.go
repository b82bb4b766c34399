package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAdjustedPoints(t *testing.T) {
	assert.Equal(t, 500, AdjustedPoints(500, 0))
	assert.Equal(t, 400, AdjustedPoints(500, 1))
	assert.Equal(t, 300, AdjustedPoints(500, 2))
	assert.Equal(t, 100, AdjustedPoints(500, 10))
	assert.Equal(t, 100, AdjustedPoints(200, 2))
}

func TestCurrencyFormat(t *testing.T) {
	assert.Equal(t, "$200", CurrencyFormat(200))
	assert.Equal(t, "$0", CurrencyFormat(0))
	assert.Equal(t, "$1,000", CurrencyFormat(1000))
	assert.Equal(t, "-$10,000", CurrencyFormat(-10000))
	assert.Equal(t, "$1,234,567", CurrencyFormat(1234567))
	assert.Equal(t, "-$100", CurrencyFormat(-100))
}
