package docfilter

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nwaples/rardecode/v2"

	"github.com/kamazuxa/tender/pkg/logger"
)

// Expander opens zip and rar containers and yields member file paths with
// sanitized names. Members are run through the Classifier; only kept files
// are returned. Any extraction failure for one archive is absorbed and
// yields an empty list, never an error for the batch.
type Expander struct {
	classifier *Classifier
	logger     logger.Logger
}

func NewExpander(classifier *Classifier, log logger.Logger) *Expander {
	if log == nil {
		log = logger.Nop()
	}
	return &Expander{
		classifier: classifier,
		logger:     log,
	}
}

// Supports reports whether the path looks like a container the expander
// can open.
func (e *Expander) Supports(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip", ".rar":
		return true
	}
	return false
}

// Expand extracts an archive into destDir and returns the sanitized,
// classified member paths.
func (e *Expander) Expand(archivePath, destDir string) []string {
	var err error
	switch strings.ToLower(filepath.Ext(archivePath)) {
	case ".zip":
		e.logger.Info("extracting zip archive", logger.String("archive", archivePath))
		err = extractZip(archivePath, destDir)
	case ".rar":
		e.logger.Info("extracting rar archive", logger.String("archive", archivePath))
		err = extractRAR(archivePath, destDir)
	default:
		e.logger.Warn("unsupported archive format", logger.String("archive", archivePath))
		return nil
	}
	if err != nil {
		e.logger.Error("failed to extract archive",
			logger.String("archive", archivePath),
			logger.Error(err),
		)
		return nil
	}

	return e.collectMembers(destDir)
}

// collectMembers walks an extraction directory, sanitizes member filenames
// (renaming on disk when the name changes), and returns the paths that pass
// classification.
func (e *Expander) collectMembers(destDir string) []string {
	var kept []string

	walkErr := filepath.Walk(destDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			e.logger.Warn("walk error in extraction dir",
				logger.String("path", path),
				logger.Error(err),
			)
			return nil
		}
		if info.IsDir() {
			return nil
		}

		name := info.Name()
		clean := SanitizeFilename(name)
		if clean != name {
			cleanPath := filepath.Join(filepath.Dir(path), clean)
			if renameErr := os.Rename(path, cleanPath); renameErr != nil {
				e.logger.Warn("failed to rename archive member",
					logger.String("filename", name),
					logger.Error(renameErr),
				)
			} else {
				e.logger.Info("renamed archive member",
					logger.String("from", name),
					logger.String("to", clean),
				)
				path = cleanPath
			}
		}

		if e.classifier.Keep(clean) {
			kept = append(kept, path)
			e.logger.Info("useful file found in archive", logger.String("filename", clean))
		} else {
			e.logger.Debug("archive member filtered out", logger.String("filename", clean))
		}
		return nil
	})
	if walkErr != nil {
		e.logger.Error("failed to walk extraction dir",
			logger.String("dir", destDir),
			logger.Error(walkErr),
		)
	}

	e.logger.Info("archive members classified",
		logger.String("dir", destDir),
		logger.Int("kept", len(kept)),
	)
	return kept
}

// SanitizeFilename replaces line breaks and control characters embedded in
// a filename with spaces and collapses repeated whitespace.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '\n' || r == '\r' || r < 0x20 {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return whitespaceRe.ReplaceAllString(strings.TrimSpace(b.String()), " ")
}

func extractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open zip: %w", err)
	}
	defer r.Close()

	for _, member := range r.File {
		if err := extractZipMember(member, destDir); err != nil {
			return err
		}
	}
	return nil
}

func extractZipMember(member *zip.File, destDir string) error {
	target, err := secureJoin(destDir, member.Name)
	if err != nil {
		return err
	}

	if member.FileInfo().IsDir() {
		return os.MkdirAll(target, 0755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	src, err := member.Open()
	if err != nil {
		return fmt.Errorf("failed to open zip member %s: %w", member.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", member.Name, err)
	}
	return nil
}

func extractRAR(archivePath, destDir string) error {
	r, err := rardecode.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open rar: %w", err)
	}
	defer r.Close()

	for {
		hdr, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read rar member: %w", err)
		}

		target, err := secureJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}
		if hdr.IsDir {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		dst, err := os.Create(target)
		if err != nil {
			return err
		}
		if _, err := io.Copy(dst, r); err != nil {
			dst.Close()
			return fmt.Errorf("failed to extract %s: %w", hdr.Name, err)
		}
		dst.Close()
	}
}

// secureJoin joins an archive member name onto the destination directory,
// rejecting traversal outside it.
func secureJoin(destDir, memberName string) (string, error) {
	target := filepath.Join(destDir, filepath.FromSlash(memberName))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member escapes destination dir: %s", memberName)
	}
	return target, nil
}
