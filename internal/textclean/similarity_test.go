package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	assert.Equal(t, 1.0, Ratio("одинаковые строки", "одинаковые строки"))
	assert.Equal(t, 0.0, Ratio("", "непустая"))
	assert.Equal(t, 0.0, Ratio("непустая", ""))
	assert.Equal(t, 1.0, Ratio("", ""))

	// One-character difference on a long line stays above the duplicate
	// threshold.
	high := Ratio(
		"Требования к качеству поставляемого товара",
		"Требования к качеству поставляемого товара.",
	)
	assert.Greater(t, high, 0.85)

	// Unrelated lines stay well below it.
	low := Ratio("Срок поставки товара", "Гарантийные обязательства")
	assert.Less(t, low, 0.5)
}
