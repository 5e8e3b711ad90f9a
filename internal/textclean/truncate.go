package textclean

// wordBoundarySlack is the fraction of the budget a whole-word cut may give
// up. A cut further back than this wastes too much of the budget, so the
// mid-word cut is kept instead.
const wordBoundarySlack = 0.9

// Truncate bounds text to maxChars runes, preferring a whole-word boundary
// when one exists within the last 10% of the budget. No ellipsis is added
// at this layer.
func Truncate(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}

	cut := runes[:maxChars]

	lastSpace := -1
	for i := len(cut) - 1; i >= 0; i-- {
		if cut[i] == ' ' {
			lastSpace = i
			break
		}
	}
	if lastSpace > int(float64(maxChars)*wordBoundarySlack) {
		cut = cut[:lastSpace]
	}

	return string(cut)
}
