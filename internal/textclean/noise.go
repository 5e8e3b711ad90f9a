package textclean

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kamazuxa/tender/pkg/logger"
)

// boilerplateMarkers are case-folded substrings that mark a line as
// procedural, legal or otherwise content-free. A line containing any of
// them is dropped whole.
var boilerplateMarkers = []string{
	// participants and applications
	"участник закупки", "оформление заявки", "подача заявки",
	"сведения о заказчике", "данные заказчика", "информация о заказчике",
	"участника закупки", "участников закупки", "заявка на участие",

	// contractual obligations
	"контракт вступает в силу", "права и обязанности сторон",
	"порядок расчетов", "оплата осуществляется", "срок оплаты",
	"гарантийное обязательство", "ответственность сторон",
	"реквизиты сторон", "расторжение контракта", "форс-мажор",
	"конфиденциальность", "порядок приемки", "акт выполненных работ",

	// legal phrasing
	"в соответствии со статьей", "на основании приказа",
	"в случае", "при нарушении", "в установленном порядке",
	"согласно требованиям", "в порядке", "в соответствии с",
	"настоящий контракт", "настоящий договор", "стороны договорились",

	// submission procedure
	"порядок подачи", "срок подачи", "место подачи", "способ подачи",
	"требования к оформлению", "состав заявки", "форма заявки",
	"критерии оценки", "методика оценки", "баллы", "оценка заявок",

	// generic bureaucratic acknowledgements
	"приложение к контракту", "приложение к договору",
	"неотъемлемая часть", "является неотъемлемой частью",
	"вступает в силу", "действует до", "действует с",
	"утверждено", "согласовано", "одобрено", "принято",

	// appendices
	"приложение", "приложения",

	// signature and approval metadata
	"лист согласования", "виза", "подпись", "дата", "номер",
	"регистрационный номер", "инвентарный номер", "код",
	"форма", "бланк", "шаблон", "образец", "реквизиты",

	// non-informative blocks
	"дополнительная информация", "примечания", "примечание",
	"особые условия", "дополнительные условия", "иные условия",
	"прочие условия", "прочее", "другое", "иное",
}

// contentFreeShapes match lines that carry no content on their own: bare
// document-number markers, lone list markers, single punctuation.
var contentFreeShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\s*№\s*\d+.*$`),
	regexp.MustCompile(`^\s*\d+\.\s*$`),
	regexp.MustCompile(`^\s*[а-я]\.\s*$`),
	regexp.MustCompile(`^\s*-\s*$`),
	regexp.MustCompile(`^\s*\.\s*$`),
	regexp.MustCompile(`^\s*,\s*$`),
	regexp.MustCompile(`^\s*;\s*$`),
}

// minShortLineRunes is the floor below which a line without a single digit
// is considered residual noise. Short numeric codes survive.
const minShortLineRunes = 10

// NoiseFilter strips boilerplate and content-free lines from raw extracted
// text.
type NoiseFilter struct {
	logger logger.Logger
}

func NewNoiseFilter(log logger.Logger) *NoiseFilter {
	if log == nil {
		log = logger.Nop()
	}
	return &NoiseFilter{logger: log}
}

// Filter returns the retained lines (in original, untrimmed form and order,
// joined with newlines) and the number of lines removed.
func (f *NoiseFilter) Filter(rawText string) (string, int) {
	lines := strings.Split(rawText, "\n")
	kept := make([]string, 0, len(lines))
	removed := 0

	for _, original := range lines {
		line := strings.TrimSpace(original)
		if line == "" {
			continue
		}
		if isNoiseLine(line) {
			removed++
			continue
		}
		kept = append(kept, original)
	}

	cleaned := strings.Join(kept, "\n")
	f.logger.Info("noise filter done",
		logger.Int("linesRemoved", removed),
		logger.Int("linesTotal", len(lines)),
		logger.Int("charsBefore", len(rawText)),
		logger.Int("charsAfter", len(cleaned)),
	)
	return cleaned, removed
}

func isNoiseLine(trimmed string) bool {
	lower := strings.ToLower(trimmed)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	for _, shape := range contentFreeShapes {
		if shape.MatchString(trimmed) {
			return true
		}
	}

	if utf8.RuneCountInString(trimmed) < minShortLineRunes && !containsDigit(trimmed) {
		return true
	}

	return false
}

func containsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
