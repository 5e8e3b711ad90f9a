package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kamazuxa/tender/internal/docfilter"
	"github.com/kamazuxa/tender/internal/textclean"
	"github.com/kamazuxa/tender/pkg/logger"
)

// allowedExtensions is the fixed set of textual document formats the
// pipeline processes. Everything else is recorded as rejected.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
	".rtf":  {},
}

// TextExtractor converts a file into raw text. Skippable formats yield
// empty text, not an error.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Orchestrator runs the whole document-preparation pass for one batch of
// downloaded files: archive expansion, filename classification, dedup,
// extraction and cleaning, producing a single combined text with
// provenance. Files are processed strictly in collection order so dedup
// keeps the first occurrence deterministically.
type Orchestrator struct {
	workRoot   string
	classifier *docfilter.Classifier
	expander   *docfilter.Expander
	deduper    *docfilter.Deduper
	extractor  TextExtractor
	noise      *textclean.NoiseFilter
	cleaner    *textclean.Cleaner
	logger     logger.Logger
}

func NewOrchestrator(workRoot string, extractor TextExtractor, rules docfilter.Rules, cfg textclean.Config, log logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	classifier := docfilter.NewClassifier(rules, log)
	return &Orchestrator{
		workRoot:   workRoot,
		classifier: classifier,
		expander:   docfilter.NewExpander(classifier, log),
		deduper:    docfilter.NewDeduper(log),
		extractor:  extractor,
		noise:      textclean.NewNoiseFilter(log),
		cleaner:    textclean.NewCleaner(cfg, log),
		logger:     log,
	}
}

// Run processes the batch under a run-scoped working directory. The
// directory is recreated fresh on every call with the same runID; the
// caller releases it with Cleanup. The returned error covers only the
// working-directory lifecycle; per-file trouble is absorbed into the
// Result.
func (o *Orchestrator) Run(ctx context.Context, runID string, paths []string) (*Result, error) {
	if len(paths) == 0 {
		return failure(ReasonNoDocuments, textclean.Stats{}), nil
	}

	workDir := o.runDir(runID)
	if err := os.RemoveAll(workDir); err != nil {
		return nil, fmt.Errorf("failed to reset run dir: %w", err)
	}
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run dir: %w", err)
	}

	collected := o.collectFiles(paths, workDir)
	usable := o.filterUsable(collected)
	usable = o.deduper.Dedupe(usable)

	if len(usable) == 0 {
		o.logger.Warn("no usable documents in batch", logger.String("runId", runID))
		return failure(ReasonNoUsableFiles, textclean.Stats{}), nil
	}

	var (
		parts   []string
		sources []Source
		total   textclean.Stats
	)
	for _, path := range usable {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		filename := filepath.Base(path)
		raw, err := o.extractor.Extract(ctx, path)
		if err != nil {
			o.logger.Warn("extraction failed, skipping file",
				logger.String("filename", filename),
				logger.Error(err),
			)
			continue
		}
		if strings.TrimSpace(raw) == "" {
			o.logger.Info("file yielded no text, skipping",
				logger.String("filename", filename),
			)
			continue
		}

		filtered, noiseRemoved := o.noise.Filter(raw)
		cleaned, stats := o.cleaner.CleanAndStructure(filtered)
		stats.NoiseLinesRemoved += noiseRemoved
		stats.OriginalLength = utf8.RuneCountInString(raw)
		total.Merge(stats)

		if cleaned == "" {
			o.logger.Info("file cleaned down to nothing, skipping",
				logger.String("filename", filename),
			)
			continue
		}

		parts = append(parts, cleaned)
		sources = append(sources, Source{
			Filename:       filename,
			Length:         utf8.RuneCountInString(cleaned),
			OriginalLength: stats.OriginalLength,
		})
		o.logger.Info("file processed",
			logger.String("filename", filename),
			logger.Int("chars", utf8.RuneCountInString(cleaned)),
		)
	}

	combined := strings.Join(parts, "\n\n")
	if combined == "" {
		return failure(ReasonEmptyText, total), nil
	}

	o.logger.Info("pipeline run finished",
		logger.String("runId", runID),
		logger.Int("files", len(sources)),
		logger.Int("chars", utf8.RuneCountInString(combined)),
	)
	return &Result{
		Success: true,
		Text:    combined,
		Length:  utf8.RuneCountInString(combined),
		Sources: sources,
		Stats:   total,
	}, nil
}

// Cleanup removes the run's working directory.
func (o *Orchestrator) Cleanup(runID string) error {
	if err := os.RemoveAll(o.runDir(runID)); err != nil {
		return fmt.Errorf("failed to remove run dir: %w", err)
	}
	return nil
}

func (o *Orchestrator) runDir(runID string) string {
	return filepath.Join(o.workRoot, runID)
}

// collectFiles expands every archive into the run dir and returns member
// paths followed by the plain top-level files. Archive members come first
// so dedup prefers them over a top-level copy of the same document.
func (o *Orchestrator) collectFiles(paths []string, workDir string) []string {
	var members, plain []string

	archiveIdx := 0
	for _, path := range paths {
		if !o.expander.Supports(path) {
			plain = append(plain, path)
			continue
		}
		destDir := filepath.Join(workDir, fmt.Sprintf("extracted_%d", archiveIdx))
		archiveIdx++
		members = append(members, o.expander.Expand(path, destDir)...)
	}

	return append(members, plain...)
}

// filterUsable applies the extension allow-list and the filename classifier.
// Rejects are logged and dropped.
func (o *Orchestrator) filterUsable(paths []string) []string {
	kept := make([]string, 0, len(paths))
	for _, path := range paths {
		filename := filepath.Base(path)
		ext := strings.ToLower(filepath.Ext(filename))
		if _, ok := allowedExtensions[ext]; !ok {
			o.logger.Debug("file rejected by extension allow-list",
				logger.String("filename", filename),
				logger.String("extension", ext),
			)
			continue
		}

		verdict := o.classifier.Classify(filename)
		if !verdict.Keep {
			o.logger.Info("file rejected by classifier",
				logger.String("filename", filename),
				logger.String("reason", string(verdict.Reason)),
			)
			continue
		}
		kept = append(kept, path)
	}
	return kept
}
