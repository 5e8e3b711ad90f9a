package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/kamazuxa/tender/pkg/logger"
)

// Extractor converts a file of one format family into plain text.
type Extractor interface {
	// CanExtract checks whether the extractor handles the extension.
	CanExtract(ext string) bool

	// Extract returns the plain text of the file. Formats the pipeline
	// should treat as skippable yield empty text, not an error.
	Extract(ctx context.Context, path string) (string, error)
}

// Registry routes a file to the extractor registered for its extension.
// Unknown extensions degrade to empty text so the pipeline records a skip
// instead of failing the batch.
type Registry struct {
	extractors []Extractor
	logger     logger.Logger
}

// NewRegistry builds the default registry: PDF, DOCX and plain-text/RTF
// extractors. Legacy .doc is accepted but yields empty text.
func NewRegistry(log logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		extractors: []Extractor{
			NewPDFExtractor(log),
			NewDocxExtractor(log),
			NewPlainExtractor(log),
		},
		logger: log,
	}
}

// Extract dispatches on the file's extension.
func (r *Registry) Extract(ctx context.Context, path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range r.extractors {
		if e.CanExtract(ext) {
			return e.Extract(ctx, path)
		}
	}

	r.logger.Debug("no extractor for extension, yielding empty text",
		logger.String("path", path),
		logger.String("extension", ext),
	)
	return "", nil
}
