package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamazuxa/tender/internal/models"
	"github.com/kamazuxa/tender/pkg/logger"
)

const infoBlob = `&lt;b&gt;Наименование товара, работы, услуги:&lt;/b&gt; Перчатки нитриловые&lt;br /&gt;` +
	`&lt;b&gt;Количество:&lt;/b&gt; 500&lt;br /&gt;` +
	`&lt;b&gt;Цена за ед.изм.:&lt;/b&gt; 61.45 рублей&lt;br /&gt;` +
	`&lt;b&gt;Стоимость:&lt;/b&gt; 30725.00 рублей&lt;br /&gt;` +
	`&lt;b&gt;Наименование товара, работы, услуги:&lt;/b&gt; Маски медицинские&lt;br /&gt;` +
	`&lt;b&gt;Количество:&lt;/b&gt; 1000&lt;br /&gt;` +
	`&lt;b&gt;Цена за ед.изм.:&lt;/b&gt; 2.50 рублей&lt;br /&gt;` +
	`&lt;b&gt;Стоимость:&lt;/b&gt; 2500.00 рублей`

func TestParseProductItems(t *testing.T) {
	items := ParseProductItems(infoBlob)
	require.Len(t, items, 2)

	assert.Equal(t, "Перчатки нитриловые", items[0].Name)
	assert.Equal(t, 500, items[0].Qty)
	assert.InDelta(t, 61.45, items[0].Price, 0.001)
	assert.InDelta(t, 30725.00, items[0].Total, 0.001)

	assert.Equal(t, "Маски медицинские", items[1].Name)
	assert.Equal(t, 1000, items[1].Qty)
}

func TestParseProductItemsNoRows(t *testing.T) {
	assert.Empty(t, ParseProductItems("обычный текст без позиций"))
	assert.Empty(t, ParseProductItems(""))
}

func TestBuildSummaryAndItems(t *testing.T) {
	b := NewBuilder(DefaultMaxChars, logger.NewTestLogger())

	info := models.TenderInfo{
		RegNumber: "0372200186425000005",
		Name:      "Поставка расходных материалов",
		Customer:  "ГБУЗ Городская больница",
		Region:    "Санкт-Петербург",
		Price:     "33225.00",
		Platform:  "zakupki.gov.ru",
		EndDate:   "11-07-2025",
		URL:       "https://zakupki.gov.ru/tender",
		Info:      infoBlob,
	}

	got := b.Build(info, "Текст документации по закупке")

	assert.Contains(t, got, "🔍 АНАЛИЗ ТЕНДЕРА")
	assert.Contains(t, got, "• Номер тендера: 0372200186425000005")
	assert.Contains(t, got, "• Заказчик: ГБУЗ Городская больница")
	assert.Contains(t, got, "• Площадка: zakupki.gov.ru")
	assert.Contains(t, got, "• Подача заявок до: 11-07-2025")
	assert.Contains(t, got, "📎 ПОЗИЦИИ ТОВАРОВ:")
	assert.Contains(t, got, "• Перчатки нитриловые — 500 шт × 61.45 ₽ = 30725.00 ₽")
	assert.Contains(t, got, "📊 Итого по позициям: 33225.00 ₽")
	assert.Contains(t, got, "<<<\nТекст документации по закупке\n>>>")
	assert.Contains(t, got, "1. Что требуется по техническому заданию?")
	assert.NotContains(t, got, truncationMarker)
}

func TestBuildFillsDefaults(t *testing.T) {
	b := NewBuilder(DefaultMaxChars, logger.NewTestLogger())

	got := b.Build(models.TenderInfo{}, "текст")

	assert.Contains(t, got, "• Номер тендера: Не указан")
	assert.Contains(t, got, "• Название: Не указано")
	assert.Contains(t, got, "• Начальная цена: 0 ₽")
	assert.NotContains(t, got, "• Подача заявок до:")
	assert.NotContains(t, got, "📎 ПОЗИЦИИ ТОВАРОВ:")
}

func TestBuildTruncatesOnlyDocumentation(t *testing.T) {
	const maxChars = 2500
	b := NewBuilder(maxChars, logger.NewTestLogger())

	docText := strings.TrimSpace(strings.Repeat("Требования к поставляемому товару изложены ниже. ", 200))
	got := b.Build(models.TenderInfo{Name: "Поставка бумаги"}, docText)

	assert.LessOrEqual(t, utf8.RuneCountInString(got), maxChars)
	assert.Contains(t, got, truncationMarker)
	// The fixed parts survive truncation intact.
	assert.Contains(t, got, "• Название: Поставка бумаги")
	assert.Contains(t, got, "7. Какие сроки поставки и условия оплаты?")
}

func TestBuildShortTextUntouched(t *testing.T) {
	b := NewBuilder(DefaultMaxChars, logger.NewTestLogger())
	got := b.Build(models.TenderInfo{}, "короткий текст")
	assert.Contains(t, got, "<<<\nкороткий текст\n>>>")
}
