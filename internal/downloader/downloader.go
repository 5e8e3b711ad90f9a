package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kamazuxa/tender/internal/models"
	"github.com/kamazuxa/tender/pkg/logger"
)

const defaultConcurrency = 4

var (
	htmlTagRe       = regexp.MustCompile(`<[^>]+>`)
	forbiddenCharRe = regexp.MustCompile(`[<>:"/\\|?*]`)
	spaceRunRe      = regexp.MustCompile(`\s+`)
)

// Downloader fetches tender attachments concurrently. Per-file failures are
// collected as messages and never fail the batch.
type Downloader struct {
	http        *http.Client
	concurrency int
	logger      logger.Logger
}

func New(log logger.Logger) *Downloader {
	if log == nil {
		log = logger.Nop()
	}
	return &Downloader{
		http:        &http.Client{Timeout: 60 * time.Second},
		concurrency: defaultConcurrency,
		logger:      log,
	}
}

// DownloadAll fetches every document into destDir and returns the paths of
// the successful downloads (in input order) plus failure messages.
func (d *Downloader) DownloadAll(ctx context.Context, docs []models.DocumentLink, destDir string) ([]string, []string) {
	if len(docs) == 0 {
		return nil, []string{"no documents listed for tender"}
	}

	results := make([]string, len(docs))
	failures := make([]string, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			path, err := d.downloadOne(ctx, doc, destDir)
			if err != nil {
				d.logger.Warn("document download failed",
					logger.String("name", doc.Name),
					logger.String("url", doc.URL),
					logger.Error(err),
				)
				failures[i] = fmt.Sprintf("failed to download %s: %v", doc.Name, err)
				return nil
			}
			results[i] = path
			return nil
		})
	}
	// Workers never return errors; Wait only observes context cancellation.
	_ = g.Wait()

	var paths, errs []string
	for i := range docs {
		if results[i] != "" {
			paths = append(paths, results[i])
		}
		if failures[i] != "" {
			errs = append(errs, failures[i])
		}
	}

	d.logger.Info("attachment downloads finished",
		logger.Int("requested", len(docs)),
		logger.Int("downloaded", len(paths)),
		logger.Int("failed", len(errs)),
	)
	return paths, errs
}

func (d *Downloader) downloadOne(ctx context.Context, doc models.DocumentLink, destDir string) (string, error) {
	if doc.URL == "" {
		return "", fmt.Errorf("document has no url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doc.URL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := d.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	name := CleanFilename(doc.Name)
	path := filepath.Join(destDir, name)

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	d.logger.Info("document downloaded",
		logger.String("filename", name),
		logger.Int64("bytes", n),
	)
	return path, nil
}

// CleanFilename strips HTML tags and path-hostile characters from an
// attachment name coming off the wire.
func CleanFilename(name string) string {
	clean := htmlTagRe.ReplaceAllString(name, "")
	clean = forbiddenCharRe.ReplaceAllString(clean, "_")
	clean = spaceRunRe.ReplaceAllString(clean, " ")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "document.pdf"
	}
	return clean
}
