package textclean

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncateUnderBudgetUnchanged(t *testing.T) {
	text := "короткий текст"
	assert.Equal(t, text, Truncate(text, 100))
	assert.Equal(t, text, Truncate(text, utf8.RuneCountInString(text)))
}

func TestTruncatePrefersWordBoundary(t *testing.T) {
	// The space falls inside the last 10% of the budget, so the cut moves
	// back to it.
	text := strings.Repeat("а", 26) + " " + strings.Repeat("б", 20)
	got := Truncate(text, 28)

	assert.Equal(t, strings.Repeat("а", 26), got)
}

func TestTruncateMidWordWhenBoundaryTooFar(t *testing.T) {
	// No space inside the last 10% of the budget: keep the mid-word cut.
	text := "сплошноесловобезпробеловвообщеникаких и хвост"
	got := Truncate(text, 20)
	assert.Equal(t, 20, utf8.RuneCountInString(got))
}

func TestTruncateNeverGrowsAndIdempotent(t *testing.T) {
	text := strings.Repeat("слово ", 100)

	once := Truncate(text, 50)
	assert.LessOrEqual(t, utf8.RuneCountInString(once), 50)

	twice := Truncate(once, 50)
	assert.Equal(t, once, twice)
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	// Cyrillic text is two bytes per rune; the budget is in runes.
	text := strings.Repeat("я", 30)
	got := Truncate(text, 10)
	assert.Equal(t, 10, utf8.RuneCountInString(got))
}
