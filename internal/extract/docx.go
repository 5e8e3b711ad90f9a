package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/kamazuxa/tender/pkg/logger"
)

// DocxExtractor reads the main document part of a DOCX container and
// returns paragraph text. Legacy binary .doc is accepted but degrades to
// empty text.
type DocxExtractor struct {
	logger logger.Logger
}

func NewDocxExtractor(log logger.Logger) *DocxExtractor {
	return &DocxExtractor{logger: log}
}

func (d *DocxExtractor) CanExtract(ext string) bool {
	return ext == ".docx" || ext == ".doc"
}

func (d *DocxExtractor) Extract(ctx context.Context, path string) (string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".doc") {
		d.logger.Debug("legacy .doc format, yielding empty text",
			logger.String("path", path),
		)
		return "", nil
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx container: %w", err)
	}
	defer r.Close()

	for _, member := range r.File {
		if member.Name != "word/document.xml" {
			continue
		}
		part, err := member.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document part: %w", err)
		}
		defer part.Close()
		return readDocumentXML(part)
	}

	return "", fmt.Errorf("docx has no word/document.xml part")
}

// readDocumentXML collects the character data of <w:t> runs, inserting a
// newline at every paragraph end.
func readDocumentXML(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)

	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}
