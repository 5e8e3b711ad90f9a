package docfilter

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/kamazuxa/tender/pkg/logger"
)

// Deduper removes files that are byte-identical or name-equivalent to an
// already-accepted file. State is scoped to a single Dedupe call; ordering
// of the input decides which of two duplicates survives (first-seen wins).
type Deduper struct {
	logger logger.Logger
}

func NewDeduper(log logger.Logger) *Deduper {
	if log == nil {
		log = logger.Nop()
	}
	return &Deduper{logger: log}
}

// Dedupe filters paths down to content- and name-unique files, preserving
// input order. Unreadable files are skipped with a warning, never fatal.
func (d *Deduper) Dedupe(paths []string) []string {
	seenHashes := make(map[string]struct{}, len(paths))
	seenNames := make(map[string]struct{}, len(paths))
	unique := make([]string, 0, len(paths))

	for _, path := range paths {
		fingerprint, err := Fingerprint(path)
		if err != nil {
			d.logger.Warn("failed to hash file, skipping",
				logger.String("path", path),
				logger.Error(err),
			)
			continue
		}

		// Fingerprint match is checked before the name match so the
		// duplicate counter logs the stronger signal.
		if _, ok := seenHashes[fingerprint]; ok {
			d.logger.Info("duplicate by content",
				logger.String("filename", filepath.Base(path)),
			)
			continue
		}

		normName := NormalizeFilename(filepath.Base(path))
		if _, ok := seenNames[normName]; ok {
			d.logger.Info("duplicate by name",
				logger.String("filename", filepath.Base(path)),
			)
			continue
		}

		seenHashes[fingerprint] = struct{}{}
		seenNames[normName] = struct{}{}
		unique = append(unique, path)
	}

	return unique
}

// Fingerprint returns the hex-encoded SHA-256 digest of a file's content.
func Fingerprint(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
