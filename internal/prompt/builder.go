package prompt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kamazuxa/tender/internal/models"
	"github.com/kamazuxa/tender/internal/textclean"
	"github.com/kamazuxa/tender/pkg/logger"
)

// DefaultMaxChars bounds the assembled prompt. Only the documentation block
// is truncated to fit; the summary and instructions always survive intact.
const DefaultMaxChars = 16000

const truncationMarker = "[Текст обрезан для экономии токенов]"

// productItemRe matches one product row inside the provider's HTML-escaped
// Info blob.
var productItemRe = regexp.MustCompile(
	`(?s)&lt;b&gt;Наименование товара, работы, услуги:&lt;/b&gt; ([^&]+)&lt;br /&gt;.*?` +
		`&lt;b&gt;Количество:&lt;/b&gt; (\d+).*?` +
		`&lt;b&gt;Цена за ед\.изм\.:&lt;/b&gt; ([\d.]+) рублей.*?` +
		`&lt;b&gt;Стоимость:&lt;/b&gt; ([\d.]+) рублей`)

// Builder assembles the analysis prompt from the tender summary, the product
// table and the cleaned documentation text.
type Builder struct {
	maxChars int
	logger   logger.Logger
}

func NewBuilder(maxChars int, log logger.Logger) *Builder {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Builder{maxChars: maxChars, logger: log}
}

// ParseProductItems extracts the product rows from the Info HTML blob.
// A blob without recognizable rows yields an empty list.
func ParseProductItems(infoHTML string) []models.ProductItem {
	matches := productItemRe.FindAllStringSubmatch(infoHTML, -1)
	items := make([]models.ProductItem, 0, len(matches))
	for _, m := range matches {
		qty, _ := strconv.Atoi(m[2])
		price, _ := strconv.ParseFloat(m[3], 64)
		total, _ := strconv.ParseFloat(m[4], 64)
		items = append(items, models.ProductItem{
			Name:  strings.TrimSpace(m[1]),
			Qty:   qty,
			Price: price,
			Total: total,
		})
	}
	return items
}

// Build assembles the full prompt. The documentation text is truncated at a
// word boundary when the whole prompt would exceed the configured budget.
func (b *Builder) Build(info models.TenderInfo, docText string) string {
	items := ParseProductItems(info.Info)

	head := b.buildHead(info, items)
	tail := buildInstructions()

	// Fixed parts plus the <<< >>> fencing around the documentation.
	overhead := utf8.RuneCountInString(head) + utf8.RuneCountInString(tail) +
		utf8.RuneCountInString("📄 ДОКУМЕНТАЦИЯ ТЕНДЕРА:\n\n<<<\n\n>>>\n\n")

	budget := b.maxChars - overhead
	if budget < 0 {
		budget = 0
	}
	if utf8.RuneCountInString(docText) > budget {
		cutAt := budget - utf8.RuneCountInString(truncationMarker) - 2
		if cutAt < 0 {
			cutAt = 0
		}
		docText = textclean.Truncate(docText, cutAt) + "\n\n" + truncationMarker
		b.logger.Info("documentation block truncated",
			logger.Int("budget", budget),
		)
	}

	var sb strings.Builder
	sb.WriteString(head)
	sb.WriteString("📄 ДОКУМЕНТАЦИЯ ТЕНДЕРА:\n\n")
	sb.WriteString("<<<\n")
	sb.WriteString(docText)
	sb.WriteString("\n>>>\n\n")
	sb.WriteString(tail)
	return sb.String()
}

func (b *Builder) buildHead(info models.TenderInfo, items []models.ProductItem) string {
	var sb strings.Builder

	sb.WriteString("🔍 АНАЛИЗ ТЕНДЕРА\n")
	sb.WriteString(strings.Repeat("=", 60) + "\n\n")

	sb.WriteString("🧾 ОБЩАЯ ИНФОРМАЦИЯ О ТЕНДЕРЕ:\n\n")
	sb.WriteString(fmt.Sprintf("• Номер тендера: %s\n", orDefault(info.RegNumber, "Не указан")))
	sb.WriteString(fmt.Sprintf("• Название: %s\n", orDefault(info.Name, "Не указано")))
	sb.WriteString(fmt.Sprintf("• Заказчик: %s\n", orDefault(info.Customer, "Не указан")))
	sb.WriteString(fmt.Sprintf("• Регион: %s\n", orDefault(info.Region, "Не указан")))
	sb.WriteString(fmt.Sprintf("• Начальная цена: %s ₽\n", orDefault(info.Price, "0")))
	if info.Platform != "" {
		sb.WriteString(fmt.Sprintf("• Площадка: %s\n", info.Platform))
	}
	if info.EndDate != "" {
		sb.WriteString(fmt.Sprintf("• Подача заявок до: %s\n", info.EndDate))
	}
	if info.URL != "" {
		sb.WriteString(fmt.Sprintf("• Ссылка на тендер: %s\n", info.URL))
	}
	sb.WriteString("\n")

	if len(items) > 0 {
		sb.WriteString("📎 ПОЗИЦИИ ТОВАРОВ:\n\n")
		var total float64
		for _, item := range items {
			total += item.Total
			sb.WriteString(fmt.Sprintf("• %s — %d шт × %.2f ₽ = %.2f ₽\n",
				item.Name, item.Qty, item.Price, item.Total))
		}
		sb.WriteString(fmt.Sprintf("\n📊 Итого по позициям: %.2f ₽\n\n", total))
	}

	return sb.String()
}

func buildInstructions() string {
	return strings.Join([]string{
		"🔍 ПРОАНАЛИЗИРУЙ:",
		"",
		"1. Что требуется по техническому заданию?",
		"2. Какие обязательные параметры товара, упаковки, страны происхождения?",
		"3. Есть ли ограничения для СМП/СОНО?",
		"4. Какие риски и неочевидные нюансы присутствуют?",
		"5. Какие документы необходимо подготовить для участия?",
		"6. Есть ли особые требования к поставщику?",
		"7. Какие сроки поставки и условия оплаты?",
		"",
		"💡 Предоставь структурированный анализ с выделением ключевых моментов и рекомендаций.",
	}, "\n")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
