package pipeline

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamazuxa/tender/internal/docfilter"
	"github.com/kamazuxa/tender/internal/textclean"
	"github.com/kamazuxa/tender/pkg/logger"
)

// fakeExtractor returns canned text keyed by base filename.
type fakeExtractor struct {
	texts map[string]string
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (string, error) {
	return f.texts[filepath.Base(path)], nil
}

const techText = "Поставка перчаток медицинских нитриловых в количестве 500 упаковок\n" +
	"Размер перчаток M и L, толщина стенки 0.1 мм"

func newOrchestrator(t *testing.T, texts map[string]string) *Orchestrator {
	t.Helper()
	return NewOrchestrator(
		filepath.Join(t.TempDir(), "runs"),
		&fakeExtractor{texts: texts},
		docfilter.DefaultRules(),
		textclean.DefaultConfig(),
		logger.NewTestLogger(),
	)
}

func buildZip(t *testing.T, path string, members map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range members {
		member, err := w.Create(name)
		require.NoError(t, err)
		_, err = member.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()

	archive := filepath.Join(dir, "docs.zip")
	buildZip(t, archive, map[string]string{
		"Техническое задание.docx": "tech bytes",
		"Проект договора.docx":     "contract bytes",
	})
	// Top-level byte-for-byte duplicate of the archived file.
	duplicate := filepath.Join(dir, "Техническое задание.docx")
	require.NoError(t, os.WriteFile(duplicate, []byte("tech bytes"), 0644))

	o := newOrchestrator(t, map[string]string{
		"Техническое задание.docx": techText,
		"Проект договора.docx":     "Настоящий договор заключается между сторонами",
	})

	result, err := o.Run(context.Background(), "run-1", []string{archive, duplicate})
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "Техническое задание.docx", result.Sources[0].Filename)
	assert.Contains(t, result.Text, "Поставка перчаток медицинских")
	assert.Equal(t, result.Length, len([]rune(result.Text)))
	assert.Greater(t, result.Sources[0].OriginalLength, 0)
}

func TestRunNoDocuments(t *testing.T) {
	o := newOrchestrator(t, nil)

	result, err := o.Run(context.Background(), "run-empty", nil)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, ReasonNoDocuments, result.Reason)
}

func TestRunNoUsableFiles(t *testing.T) {
	dir := t.TempDir()
	contract := filepath.Join(dir, "Проект контракта.docx")
	require.NoError(t, os.WriteFile(contract, []byte("contract"), 0644))
	sheet := filepath.Join(dir, "Спецификация.xlsx")
	require.NoError(t, os.WriteFile(sheet, []byte("sheet"), 0644))

	o := newOrchestrator(t, nil)
	result, err := o.Run(context.Background(), "run-2", []string{contract, sheet})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, ReasonNoUsableFiles, result.Reason)
}

func TestRunEmptyText(t *testing.T) {
	dir := t.TempDir()
	scan := filepath.Join(dir, "Техническое задание.pdf")
	require.NoError(t, os.WriteFile(scan, []byte("scanned image pdf"), 0644))

	// Extractor yields nothing, as for an image-only scan.
	o := newOrchestrator(t, map[string]string{})
	result, err := o.Run(context.Background(), "run-3", []string{scan})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, ReasonEmptyText, result.Reason)
}

func TestRunRecreatesWorkDir(t *testing.T) {
	dir := t.TempDir()
	workRoot := filepath.Join(dir, "runs")
	o := NewOrchestrator(workRoot, &fakeExtractor{}, docfilter.DefaultRules(),
		textclean.DefaultConfig(), logger.NewTestLogger())

	// A stale file from a previous run with the same id must not survive.
	stale := filepath.Join(workRoot, "run-4", "stale.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	doc := filepath.Join(dir, "Техническое задание.txt")
	require.NoError(t, os.WriteFile(doc, []byte("doc"), 0644))

	_, err := o.Run(context.Background(), "run-4", []string{doc})
	require.NoError(t, err)

	_, statErr := os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCleanupRemovesRunDir(t *testing.T) {
	dir := t.TempDir()
	workRoot := filepath.Join(dir, "runs")
	o := NewOrchestrator(workRoot, &fakeExtractor{}, docfilter.DefaultRules(),
		textclean.DefaultConfig(), logger.NewTestLogger())

	doc := filepath.Join(dir, "Техническое задание.txt")
	require.NoError(t, os.WriteFile(doc, []byte("doc"), 0644))

	_, err := o.Run(context.Background(), "run-5", []string{doc})
	require.NoError(t, err)

	require.NoError(t, o.Cleanup("run-5"))
	_, statErr := os.Stat(filepath.Join(workRoot, "run-5"))
	assert.True(t, os.IsNotExist(statErr))

	// Cleaning an already-released run is not an error.
	assert.NoError(t, o.Cleanup("run-5"))
}

func TestRunSkipsDisallowedExtensions(t *testing.T) {
	dir := t.TempDir()
	image := filepath.Join(dir, "Спецификация товара.png")
	require.NoError(t, os.WriteFile(image, []byte("png"), 0644))
	doc := filepath.Join(dir, "Спецификация товара.txt")
	require.NoError(t, os.WriteFile(doc, []byte("txt"), 0644))

	o := newOrchestrator(t, map[string]string{
		"Спецификация товара.png": techText,
		"Спецификация товара.txt": techText,
	})

	result, err := o.Run(context.Background(), "run-6", []string{image, doc})
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Len(t, result.Sources, 1)
	assert.Equal(t, "Спецификация товара.txt", result.Sources[0].Filename)
}

func TestRunJoinsPartsWithBlankLine(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "Техническое задание.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))
	b := filepath.Join(dir, "Спецификация.txt")
	require.NoError(t, os.WriteFile(b, []byte("b"), 0644))

	o := newOrchestrator(t, map[string]string{
		"Техническое задание.txt": "Поставка перчаток медицинских в количестве 500 упаковок",
		"Спецификация.txt":        "Размер перчаток M и L, толщина стенки 0.1 мм",
	})

	result, err := o.Run(context.Background(), "run-7", []string{a, b})
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Len(t, result.Sources, 2)
	assert.True(t, strings.Contains(result.Text, "\n\n"), "parts should be joined with a blank line")
}
