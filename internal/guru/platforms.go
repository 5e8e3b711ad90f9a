package guru

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/kamazuxa/tender/pkg/logger"
)

// Platform is one trading platform known to the procurement API.
type Platform struct {
	ID   string `json:"ID"`
	Name string `json:"Name"`
	URL  string `json:"Url"`
}

// platformModes are the directory query modes covering state and commercial
// platforms.
var platformModes = []string{"eauc", "eauc_rgi"}

// regNumberQueryKeys are tried in order against a tender URL's query string.
var regNumberQueryKeys = []string{
	"regNumber", "tenderid", "procedureId", "id", "lot", "purchase", "auction", "number",
}

var regNumberFallback = regexp.MustCompile(`(\d{6,})`)

// knownHostPatterns resolve registry numbers for platforms whose URLs encode
// the number in the path rather than the query string.
var knownHostPatterns = []struct {
	host    string
	pattern *regexp.Regexp
}{
	{"sberbank-ast.ru", regexp.MustCompile(`/procedure-view/(\d+)`)},
	{"roseltorg.ru", regexp.MustCompile(`/procedure-cards/(\d+)`)},
	{"torgi.gov.ru", regexp.MustCompile(`/lot/view/(\d+)`)},
	{"zakazrf.ru", regexp.MustCompile(`/tender/view/(\d+)`)},
}

// PlatformDirectory is a populate-once, read-many lookup of trading
// platforms. It is explicitly injected into whoever needs URL resolution;
// the first call that needs data loads it through the API client.
type PlatformDirectory struct {
	client *Client
	logger logger.Logger

	mu        sync.RWMutex
	platforms []Platform
	loaded    bool
}

func NewPlatformDirectory(client *Client, log logger.Logger) *PlatformDirectory {
	if log == nil {
		log = logger.Nop()
	}
	return &PlatformDirectory{client: client, logger: log}
}

// Platforms returns the directory contents, loading them on first use.
func (d *PlatformDirectory) Platforms(ctx context.Context) ([]Platform, error) {
	d.mu.RLock()
	if d.loaded {
		defer d.mu.RUnlock()
		return d.platforms, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		return d.platforms, nil
	}

	var platforms []Platform
	for _, mode := range platformModes {
		body, err := d.client.export(ctx, url.Values{"mode": {mode}})
		if err != nil {
			return nil, fmt.Errorf("failed to load platform directory (mode %s): %w", mode, err)
		}
		var env struct {
			Items []Platform `json:"Items"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("failed to decode platform directory (mode %s): %w", mode, err)
		}
		platforms = append(platforms, env.Items...)
	}

	d.platforms = platforms
	d.loaded = true
	d.logger.Info("platform directory loaded", logger.Int("platforms", len(platforms)))
	return d.platforms, nil
}

// Resolve extracts the registry number and platform name from a tender URL.
func (d *PlatformDirectory) Resolve(ctx context.Context, rawURL string) (regNumber, platform string, err error) {
	if rawURL == "" {
		return "", "", fmt.Errorf("empty tender url")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", fmt.Errorf("failed to parse tender url: %w", err)
	}
	host := strings.ToLower(parsed.Hostname())

	platforms, err := d.Platforms(ctx)
	if err != nil {
		// The directory being unavailable should not block resolution of
		// well-known hosts.
		d.logger.Warn("platform directory unavailable, using host patterns",
			logger.Error(err),
		)
		platforms = nil
	}

	for _, p := range platforms {
		if p.URL == "" {
			continue
		}
		if hostMatches(host, p.URL) {
			if num := regNumberFromURL(parsed, rawURL); num != "" {
				d.logger.Info("tender url resolved",
					logger.String("regNumber", num),
					logger.String("platform", p.Name),
				)
				return num, p.Name, nil
			}
			break
		}
	}

	// Path-encoded registry numbers of well-known hosts.
	for _, kp := range knownHostPatterns {
		if !strings.Contains(host, kp.host) {
			continue
		}
		if m := kp.pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1], kp.host, nil
		}
	}

	if strings.Contains(host, "zakupki.gov.ru") {
		if num := regNumberFromURL(parsed, rawURL); num != "" {
			return num, "zakupki.gov.ru", nil
		}
	}

	return "", "", fmt.Errorf("could not resolve tender url %s", rawURL)
}

func hostMatches(host, platformURL string) bool {
	p := strings.ToLower(strings.TrimPrefix(platformURL, "www."))
	h := strings.TrimPrefix(host, "www.")
	return p != "" && strings.Contains(h, p)
}

func regNumberFromURL(parsed *url.URL, rawURL string) string {
	qs := parsed.Query()
	for _, key := range regNumberQueryKeys {
		if v := qs.Get(key); v != "" {
			return v
		}
	}
	if m := regNumberFallback.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}
