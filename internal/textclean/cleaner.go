package textclean

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kamazuxa/tender/pkg/logger"
)

// Config holds the structural cleaner's tunables. The duplicate windows and
// thresholds are deliberately asymmetric: canonical headers recur more
// locally than ordinary lines.
type Config struct {
	// DuplicateWindow is how many previously accepted lines a candidate is
	// compared against.
	DuplicateWindow int
	// DuplicateThreshold is the similarity ratio above which a line is
	// dropped as a near-duplicate.
	DuplicateThreshold float64
	// HeaderWindow is the lookback for duplicate header-like lines.
	HeaderWindow int
	// HeaderThreshold is the similarity ratio above which a header-like
	// line is dropped.
	HeaderThreshold float64
	// LongNumberMinDigits is the minimum digit count of a standalone
	// numeric token treated as an internal tracking code and removed.
	LongNumberMinDigits int
	// HeaderMaxRunes bounds how long a trimmed line may be to still count
	// as a section header; longer matching lines are content.
	HeaderMaxRunes int
}

func DefaultConfig() Config {
	return Config{
		DuplicateWindow:     10,
		DuplicateThreshold:  0.85,
		HeaderWindow:        5,
		HeaderThreshold:     0.70,
		LongNumberMinDigits: 15,
		HeaderMaxRunes:      80,
	}
}

// keySection pairs a trigger pattern with the canonical header emitted for
// that topic. Patterns are tested in order; first match wins.
type keySection struct {
	pattern *regexp.Regexp
	header  string
}

var keySections = []keySection{
	{regexp.MustCompile(`требования.*качеств`), "**Требования к качеству товара**"},
	{regexp.MustCompile(`гарантийный\s+срок`), "**Гарантийный срок**"},
	{regexp.MustCompile(`требования.*упаковк`), "**Требования к упаковке**"},
	{regexp.MustCompile(`срок\s+поставк`), "**Срок поставки**"},
	{regexp.MustCompile(`место\s+поставк`), "**Место поставки**"},
	{regexp.MustCompile(`поставляемый\s+товар`), "**Поставляемый товар**"},
	{regexp.MustCompile(`товар\s+должен`), "**Требования к товару**"},
	{regexp.MustCompile(`технические\s+характеристик`), "**Технические характеристики**"},
	{regexp.MustCompile(`условия\s+поставк`), "**Условия поставки**"},
	{regexp.MustCompile(`условия\s+оплат`), "**Условия оплаты**"},
	{regexp.MustCompile(`ответственность`), "**Ответственность сторон**"},
	{regexp.MustCompile(`форс-мажор`), "**Форс-мажор**"},
	{regexp.MustCompile(`расторжение\s+контракт`), "**Расторжение контракта**"},
	{regexp.MustCompile(`приёмка\s+товар`), "**Приёмка товара**"},
	{regexp.MustCompile(`документация`), "**Документация**"},
	{regexp.MustCompile(`энергетическая\s+эффективность`), "**Энергетическая эффективность**"},
}

// fillerShapes match pure punctuation/underscore/quote filler, blank
// signature templates and similar layout debris.
var fillerShapes = []*regexp.Regexp{
	regexp.MustCompile(`^\s*[«"»№@_\-\s\.]+$`),
	regexp.MustCompile(`^\s*[_\-\s]+[«"»№@\s]+[_\-\s]+$`),
	regexp.MustCompile(`^\s*[«"]?_+["»]?\s*$`),
	regexp.MustCompile(`^\s*[«"]?\s*_{2,}\s+[_.]+$`),
	regexp.MustCompile(`^\s*[._]+\s*$`),
}

var (
	symbolOnlyShape  = regexp.MustCompile(`^\s*[«"»\s_\.]+\s*$`)
	appendixOnly     = regexp.MustCompile(`(?i)^\s*(приложение|приложения)\s*$`)
	appendixNumbered = regexp.MustCompile(`(?i)^\s*приложение\s*№\s*\d*\s*[«"»№@_\-\s\.]*$`)
	multiBlank       = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// Cleaner removes templated filler, strips long tracking codes, collapses
// near-duplicate lines and tags recognized key sections with canonical
// headers.
type Cleaner struct {
	cfg        Config
	longNumber *regexp.Regexp
	ikzLine    *regexp.Regexp
	logger     logger.Logger
}

func NewCleaner(cfg Config, log logger.Logger) *Cleaner {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.DuplicateWindow == 0 {
		cfg = DefaultConfig()
	}
	return &Cleaner{
		cfg:        cfg,
		longNumber: regexp.MustCompile(fmt.Sprintf(`\b\d{%d,}\b`, cfg.LongNumberMinDigits)),
		ikzLine:    regexp.MustCompile(fmt.Sprintf(`^\s*ИКЗ\s*:\s*\d{%d,}\s*$`, cfg.LongNumberMinDigits)),
		logger:     log,
	}
}

// CleanAndStructure runs the full structural pass over raw text and returns
// the cleaned text with per-file statistics.
func (c *Cleaner) CleanAndStructure(text string) (string, Stats) {
	stats := Stats{OriginalLength: utf8.RuneCountInString(text)}
	if text == "" {
		return "", stats
	}

	lines := strings.Split(text, "\n")

	lines = c.removeTemplateNoise(lines, &stats)
	lines = c.stripLongNumbers(lines, &stats)
	lines = c.suppressNearDuplicates(lines, &stats)
	lines = c.tagKeySections(lines, &stats)

	final := c.finalSweep(strings.Join(lines, "\n"))
	stats.CleanedLength = utf8.RuneCountInString(final)

	c.logger.Info("structural cleaning done",
		logger.Int("charsBefore", stats.OriginalLength),
		logger.Int("charsAfter", stats.CleanedLength),
		logger.Int("noiseLines", stats.NoiseLinesRemoved),
		logger.Int("longNumbers", stats.LongNumbersRemoved),
		logger.Int("duplicates", stats.DuplicatesRemoved),
		logger.Int("keyHeaders", stats.KeyHeadersFound),
	)
	return final, stats
}

// removeTemplateNoise drops filler lines, empty signature templates,
// tracking-code lines and appendix markers without content.
func (c *Cleaner) removeTemplateNoise(lines []string, stats *Stats) []string {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if matchesAny(fillerShapes, line) {
			stats.NoiseLinesRemoved++
			continue
		}
		if c.ikzLine.MatchString(line) {
			stats.LongNumbersRemoved++
			continue
		}
		if symbolOnlyShape.MatchString(line) || appendixOnly.MatchString(line) || appendixNumbered.MatchString(line) {
			stats.NoiseLinesRemoved++
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// stripLongNumbers removes every standalone numeric token of the configured
// digit count or more from the joined text.
func (c *Cleaner) stripLongNumbers(lines []string, stats *Stats) []string {
	joined := strings.Join(lines, "\n")
	stats.LongNumbersRemoved += len(c.longNumber.FindAllString(joined, -1))
	return strings.Split(c.longNumber.ReplaceAllString(joined, ""), "\n")
}

// suppressNearDuplicates drops a line when it is close to one of the
// recently accepted lines; header-like lines use the shorter window with
// the looser threshold.
func (c *Cleaner) suppressNearDuplicates(lines []string, stats *Stats) []string {
	accepted := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			accepted = append(accepted, line)
			continue
		}

		if c.isRecentDuplicate(accepted, trimmed) || c.isRecentDuplicateHeader(accepted, trimmed) {
			stats.DuplicatesRemoved++
			continue
		}
		accepted = append(accepted, line)
	}
	return accepted
}

func (c *Cleaner) isRecentDuplicate(accepted []string, trimmed string) bool {
	start := len(accepted) - c.cfg.DuplicateWindow
	if start < 0 {
		start = 0
	}
	for _, prev := range accepted[start:] {
		prevTrimmed := strings.TrimSpace(prev)
		if prevTrimmed == "" {
			continue
		}
		if Ratio(trimmed, prevTrimmed) > c.cfg.DuplicateThreshold {
			return true
		}
	}
	return false
}

func (c *Cleaner) isRecentDuplicateHeader(accepted []string, trimmed string) bool {
	lower := strings.ToLower(trimmed)
	if !matchesKeySection(lower) {
		return false
	}
	start := len(accepted) - c.cfg.HeaderWindow
	if start < 0 {
		start = 0
	}
	for _, prev := range accepted[start:] {
		prevLower := strings.ToLower(strings.TrimSpace(prev))
		if prevLower == "" || !matchesKeySection(prevLower) {
			continue
		}
		if Ratio(lower, prevLower) > c.cfg.HeaderThreshold {
			return true
		}
	}
	return false
}

// tagKeySections emits the canonical bolded header the first time a section
// trigger is seen; later lines of the same topic pass through as content.
// Long lines that mention key vocabulary without being a header get a
// bullet marker.
func (c *Cleaner) tagKeySections(lines []string, stats *Stats) []string {
	structured := make([]string, 0, len(lines)+2*len(keySections))
	emitted := make(map[string]bool, len(keySections))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		section, matched := findKeySection(lower)
		if !matched {
			structured = append(structured, line)
			continue
		}

		headerLike := utf8.RuneCountInString(trimmed) <= c.cfg.HeaderMaxRunes
		switch {
		case headerLike && !emitted[section.header]:
			structured = append(structured, "", section.header)
			emitted[section.header] = true
			stats.KeyHeadersFound++
		case headerLike:
			structured = append(structured, line)
		case trimmed != "" && !strings.HasPrefix(trimmed, "**"):
			structured = append(structured, "• "+line)
		default:
			structured = append(structured, line)
		}
	}
	return structured
}

// finalSweep collapses runs of blank lines, reapplies the filler patterns
// once more (tagging can expose filler between inserted headers) and trims
// the result.
func (c *Cleaner) finalSweep(text string) string {
	text = multiBlank.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if fillerShapes[0].MatchString(line) || fillerShapes[1].MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func findKeySection(lower string) (keySection, bool) {
	for _, ks := range keySections {
		if ks.pattern.MatchString(lower) {
			return ks, true
		}
	}
	return keySection{}, false
}

func matchesKeySection(lower string) bool {
	_, ok := findKeySection(lower)
	return ok
}

func matchesAny(shapes []*regexp.Regexp, line string) bool {
	for _, shape := range shapes {
		if shape.MatchString(line) {
			return true
		}
	}
	return false
}
