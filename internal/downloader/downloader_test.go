package downloader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kamazuxa/tender/internal/models"
	"github.com/kamazuxa/tender/pkg/logger"
)

func TestDownloadAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tz":
			w.Write([]byte("tech assignment bytes"))
		case "/spec":
			w.Write([]byte("specification bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	dir := t.TempDir()
	d := New(logger.NewTestLogger())

	docs := []models.DocumentLink{
		{Name: "Техническое задание.docx", URL: srv.URL + "/tz"},
		{Name: "Отсутствующий файл.pdf", URL: srv.URL + "/missing"},
		{Name: "Спецификация.pdf", URL: srv.URL + "/spec"},
	}

	paths, errs := d.DownloadAll(context.Background(), docs, dir)

	// Successful downloads keep input order even with the failure in between.
	require.Len(t, paths, 2)
	assert.Equal(t, filepath.Join(dir, "Техническое задание.docx"), paths[0])
	assert.Equal(t, filepath.Join(dir, "Спецификация.pdf"), paths[1])

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Отсутствующий файл.pdf")

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	assert.Equal(t, "tech assignment bytes", string(data))
}

func TestDownloadAllEmptyList(t *testing.T) {
	d := New(logger.NewTestLogger())
	paths, errs := d.DownloadAll(context.Background(), nil, t.TempDir())

	assert.Empty(t, paths)
	require.Len(t, errs, 1)
}

func TestDownloadAllMissingURL(t *testing.T) {
	d := New(logger.NewTestLogger())
	paths, errs := d.DownloadAll(context.Background(),
		[]models.DocumentLink{{Name: "Документ.pdf"}}, t.TempDir())

	assert.Empty(t, paths)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Документ.pdf")
}

func TestCleanFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Техническое задание.docx", "Техническое задание.docx"},
		{"html tags", "<b>Спецификация</b>.pdf", "Спецификация.pdf"},
		{"forbidden chars", `отчет/2025:итог?.pdf`, "отчет_2025_итог_.pdf"},
		{"space runs", "Проект   контракта \t v2.docx", "Проект контракта v2.docx"},
		{"empty", "", "document.pdf"},
		{"tags only", "<br /><hr>", "document.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanFilename(tt.in))
		})
	}
}
