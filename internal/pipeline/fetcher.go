package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/net/html"

	"github.com/docintel/reckon/internal/model"
)

// Fetcher downloads a document and normalizes it into plain text with
// quality metadata. Fetched documents are cached by URL so a batch retry
// does not re-download.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	cache      *gocache.Cache
}

// NewFetcher creates a new Fetcher with the given configuration. A nil
// robots checker disables robots.txt enforcement.
func NewFetcher(cfg model.HTTPConfig) *Fetcher {
	var robots *RobotsChecker
	if cfg.RespectRobots {
		robots = NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    robots,
		cache:     gocache.New(ttl, 2*ttl),
	}
}

const fetchMaxRetries = 3

// fetchSleepFunc is the sleep function used between retries (injectable for tests)
var fetchSleepFunc = time.Sleep

// Fetch retrieves a document and returns its normalized form, retrying
// transient failures with backoff
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.NormalizedDocument, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchMaxRetries; attempt++ {
		doc, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		if !isRetryable(err) || attempt == fetchMaxRetries {
			return nil, err
		}
		fetchSleepFunc(time.Duration(attempt) * time.Second)
	}
	return nil, lastErr
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*model.NormalizedDocument, error) {
	if cached, found := f.cache.Get(rawURL); found {
		doc := cached.(model.NormalizedDocument)
		return &doc, nil
	}

	if f.robots != nil {
		allowed, crawlDelay, err := f.robots.CanFetch(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("robots check: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("fetch disallowed by robots.txt: %s", rawURL)
		}
		if crawlDelay > 0 {
			select {
			case <-time.After(crawlDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/pdf,text/html,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{code: resp.StatusCode, status: resp.Status}
	}

	// Read body with size limit
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	doc := Normalize(rawURL, contentType, body)

	f.cache.Set(rawURL, *doc, gocache.DefaultExpiration)

	return doc, nil
}

// statusError carries the HTTP status so retry logic can classify it
type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.code, e.status)
}

// isRetryable reports whether a fetch error is worth retrying. Server errors
// and rate limits are transient; client errors are not.
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

// Normalize turns a raw fetched payload into a quality-assessed document
func Normalize(rawURL, contentType string, body []byte) *model.NormalizedDocument {
	var text string
	if strings.Contains(contentType, "text/html") {
		text = htmlToText(string(body))
	} else {
		text = string(body)
	}

	return &model.NormalizedDocument{
		URL:                  rawURL,
		ContentType:          contentType,
		RawText:              text,
		PageCount:            pageCount(text),
		OCRQuality:           model.OCRQualityFromRatio(readableRatio(text)),
		HasEncodingArtifacts: hasEncodingArtifacts(text),
		FileSizeKB:           len(body) / 1024,
		FetchedAt:            time.Now().UTC(),
	}
}

// htmlToText extracts visible text from HTML, skipping scripts and styles
func htmlToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String())
}

// readableRatio measures the share of printable ASCII plus common whitespace.
// OCR damage and binary payloads both drive this ratio down.
func readableRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}

	readable := 0
	for _, r := range text {
		if (r >= 32 && r < 127) || r == '\n' || r == '\t' || r == '\r' {
			readable++
		}
	}
	return float64(readable) / float64(len([]rune(text)))
}

// hasEncodingArtifacts looks for quoted-printable residue and replacement
// characters, both common in OCR dumps of scanned releases
func hasEncodingArtifacts(text string) bool {
	if strings.Count(text, "�") > 2 {
		return true
	}
	// Quoted-printable soft breaks and hex escapes
	return strings.Count(text, "=\n") > 3 || strings.Count(text, "=20") > 3
}

// pageCount estimates pages from form feed separators
func pageCount(text string) int {
	return strings.Count(text, "\f") + 1
}
