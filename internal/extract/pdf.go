package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kamazuxa/tender/pkg/logger"
)

// PDFExtractor pulls plain text out of PDF files page by page. Pages are
// read in order; image-only pages contribute nothing (OCR is out of scope).
type PDFExtractor struct {
	logger logger.Logger
}

func NewPDFExtractor(log logger.Logger) *PDFExtractor {
	return &PDFExtractor{logger: log}
}

func (p *PDFExtractor) CanExtract(ext string) bool {
	return ext == ".pdf"
}

func (p *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("failed to read pdf page",
				logger.String("path", path),
				logger.Int("page", i),
				logger.Error(err),
			)
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return b.String(), nil
}
