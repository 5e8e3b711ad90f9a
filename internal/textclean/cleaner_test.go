package textclean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kamazuxa/tender/pkg/logger"
)

func newCleaner(t *testing.T) *Cleaner {
	t.Helper()
	return NewCleaner(DefaultConfig(), logger.NewTestLogger())
}

func TestCleanAndStructureEmptyInput(t *testing.T) {
	c := newCleaner(t)
	got, stats := c.CleanAndStructure("")
	assert.Empty(t, got)
	assert.Equal(t, Stats{}, stats)
}

func TestCleanAndStructureCounters(t *testing.T) {
	c := newCleaner(t)

	input := strings.Join([]string{
		"Поставка перчаток медицинских в количестве 500 упаковок",
		"ИКЗ: 241234567890123456789",
		"___________",
		"Идентификатор закупки 12345678901234567890 указан в извещении",
		"Поставка перчаток медицинских в количестве 500 упаковок",
		"Требования к качеству товара",
		"Перчатки должны быть стерильными и соответствовать заявленным характеристикам",
	}, "\n")

	got, stats := c.CleanAndStructure(input)

	assert.Equal(t, 1, stats.NoiseLinesRemoved)
	assert.Equal(t, 2, stats.LongNumbersRemoved)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 1, stats.KeyHeadersFound)
	assert.Greater(t, stats.OriginalLength, stats.CleanedLength)

	assert.Contains(t, got, "**Требования к качеству товара**")
	assert.NotContains(t, got, "12345678901234567890")
	assert.NotContains(t, got, "ИКЗ")
	assert.NotContains(t, got, "___________")
	assert.Equal(t, 1, strings.Count(got, "Поставка перчаток медицинских"))
}

func TestCleanAndStructureHeaderEmittedOnce(t *testing.T) {
	c := newCleaner(t)

	input := strings.Join([]string{
		"Гарантийный срок",
		"Поставка осуществляется партиями по заявкам заказчика",
		"Гарантийный срок составляет 24 месяца с даты поставки",
	}, "\n")

	got, stats := c.CleanAndStructure(input)

	assert.Equal(t, 1, stats.KeyHeadersFound)
	assert.Equal(t, 1, strings.Count(got, "**Гарантийный срок**"))
	assert.Contains(t, got, "Гарантийный срок составляет 24 месяца")
}

func TestCleanAndStructureBulletsLongMatchingLines(t *testing.T) {
	c := newCleaner(t)

	long := "Поставляемый товар должен иметь остаточный срок годности не менее двенадцати месяцев на момент передачи и сопровождаться инструкцией на русском языке"
	got, stats := c.CleanAndStructure(long)

	assert.Equal(t, 0, stats.KeyHeadersFound)
	assert.Contains(t, got, "• "+long)
}

func TestCleanAndStructureNearDuplicateWindow(t *testing.T) {
	c := newCleaner(t)

	// Slight punctuation variants of the same line are near-duplicates.
	input := strings.Join([]string{
		"Упаковка должна обеспечивать сохранность при транспортировке",
		"Упаковка должна обеспечивать сохранность при транспортировке.",
	}, "\n")

	got, stats := c.CleanAndStructure(input)
	assert.Equal(t, 1, stats.DuplicatesRemoved)
	assert.Equal(t, 1, strings.Count(got, "Упаковка должна"))
}

func TestCleanAndStructureCollapsesBlankRuns(t *testing.T) {
	c := newCleaner(t)

	input := "Первый абзац описания объекта закупки\n\n\n\n\nВторой абзац описания объекта закупки"
	got, _ := c.CleanAndStructure(input)
	assert.NotContains(t, got, "\n\n\n")
}
