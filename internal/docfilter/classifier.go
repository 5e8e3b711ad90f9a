package docfilter

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/kamazuxa/tender/pkg/logger"
)

// Reason categorizes a classification verdict.
type Reason string

const (
	ReasonDisallowedExtension Reason = "disallowed_extension"
	ReasonExcludeMarker       Reason = "exclude_marker"
	ReasonIncludeMarker       Reason = "include_marker"
	ReasonNeutralName         Reason = "neutral_name"
	ReasonUninformativeName   Reason = "uninformative_name"
)

// Verdict is the outcome of classifying a single filename.
type Verdict struct {
	Keep           bool
	Reason         Reason
	NormalizedName string
}

// Classifier decides from a filename alone whether a document is worth
// analyzing. It is a pure function of the name; rule tables are fixed at
// construction.
type Classifier struct {
	rules  Rules
	logger logger.Logger
}

func NewClassifier(rules Rules, log logger.Logger) *Classifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Classifier{
		rules:  rules,
		logger: log,
	}
}

var (
	extensionRe  = regexp.MustCompile(`\.[\pL\pN]+$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// NormalizeFilename reduces a filename to its canonical comparison form:
// extension stripped, underscores and dashes replaced with spaces, runs of
// whitespace collapsed, lowercased.
func NormalizeFilename(filename string) string {
	name := extensionRe.ReplaceAllString(filename, "")
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}

// Classify returns the verdict for one filename (not a path).
//
// Order matters: disallowed extension first, then exclude markers, then
// include markers, then the short-neutral-name rule. Exclude markers win
// over include markers even when both are present.
func (c *Classifier) Classify(filename string) Verdict {
	ext := strings.ToLower(extensionRe.FindString(filename))
	for _, bad := range c.rules.DisallowedExtensions {
		if ext == bad {
			c.logger.Debug("file rejected by extension",
				logger.String("filename", filename),
				logger.String("extension", ext),
			)
			return Verdict{Keep: false, Reason: ReasonDisallowedExtension, NormalizedName: NormalizeFilename(filename)}
		}
	}

	name := NormalizeFilename(filename)

	for _, marker := range c.rules.Exclude {
		if strings.Contains(name, marker) {
			c.logger.Debug("file rejected by exclude marker",
				logger.String("filename", filename),
				logger.String("marker", marker),
			)
			return Verdict{Keep: false, Reason: ReasonExcludeMarker, NormalizedName: name}
		}
	}

	for _, marker := range c.rules.Include {
		if strings.Contains(name, marker) {
			c.logger.Debug("file kept by include marker",
				logger.String("filename", filename),
				logger.String("marker", marker),
			)
			return Verdict{Keep: true, Reason: ReasonIncludeMarker, NormalizedName: name}
		}
	}

	if isNeutralName(name, c.rules.MaxNeutralNameLength) {
		c.logger.Debug("file kept as short neutral name",
			logger.String("filename", filename),
			logger.String("normalized", name),
		)
		return Verdict{Keep: true, Reason: ReasonNeutralName, NormalizedName: name}
	}

	c.logger.Debug("file rejected as long uninformative name",
		logger.String("filename", filename),
		logger.String("normalized", name),
	)
	return Verdict{Keep: false, Reason: ReasonUninformativeName, NormalizedName: name}
}

// Keep is a convenience wrapper returning only the boolean decision.
func (c *Classifier) Keep(filename string) bool {
	return c.Classify(filename).Keep
}

// isNeutralName reports whether a normalized name is short and composed only
// of letters, digits and spaces.
func isNeutralName(name string, maxLen int) bool {
	if name == "" {
		return false
	}
	runes := []rune(name)
	if len(runes) > maxLen {
		return false
	}
	for _, r := range runes {
		if r == ' ' {
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
