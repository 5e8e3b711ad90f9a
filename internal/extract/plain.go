package extract

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/kamazuxa/tender/pkg/logger"
)

var (
	rtfControlWord = regexp.MustCompile(`\\[a-zA-Z0-9-]+\d?\s?`)
	rtfGroup       = regexp.MustCompile(`\{[^{}]*\}`)
)

// PlainExtractor handles text files directly and RTF by stripping control
// words and groups.
type PlainExtractor struct {
	logger logger.Logger
}

func NewPlainExtractor(log logger.Logger) *PlainExtractor {
	return &PlainExtractor{logger: log}
}

func (p *PlainExtractor) CanExtract(ext string) bool {
	return ext == ".txt" || ext == ".rtf"
}

func (p *PlainExtractor) Extract(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	text := string(data)
	if strings.HasSuffix(strings.ToLower(path), ".rtf") {
		text = stripRTF(text)
	}
	return text, nil
}

// stripRTF removes control words and nested groups, leaving the document's
// plain text. Markup-heavy files can legitimately strip down to nothing;
// the pipeline records those as skipped.
func stripRTF(text string) string {
	// Groups nest; strip innermost-first until stable.
	for {
		stripped := rtfGroup.ReplaceAllString(text, "")
		if stripped == text {
			break
		}
		text = stripped
	}
	text = rtfControlWord.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "{", "")
	text = strings.ReplaceAll(text, "}", "")
	return strings.TrimSpace(text)
}
