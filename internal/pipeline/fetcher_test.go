package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/docintel/reckon/internal/model"
)

func testHTTPConfig() model.HTTPConfig {
	return model.HTTPConfig{
		Timeout:      5 * time.Second,
		UserAgent:    "test-agent",
		MaxBodyBytes: 1 << 20,
		CacheTTL:     time.Minute,
	}
}

func TestFetchNormalizesHTML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, "<html><head><script>var x=1;</script></head><body><p>Flight manifest</p><p>SMITH, JOHN</p></body></html>")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if strings.Contains(doc.RawText, "var x=1") {
		t.Error("Expected script content to be stripped")
	}
	if !strings.Contains(doc.RawText, "SMITH, JOHN") {
		t.Errorf("Expected body text, got %q", doc.RawText)
	}
	if doc.OCRQuality != model.OCRClean {
		t.Errorf("Expected clean quality for plain HTML, got %s", doc.OCRQuality)
	}
}

func TestFetchCachesByURL(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "manifest text")
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())
	for i := 0; i < 3; i++ {
		if _, err := fetcher.Fetch(context.Background(), server.URL); err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
	}

	if hits.Load() != 1 {
		t.Errorf("Expected 1 origin hit with caching, got %d", hits.Load())
	}
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "recovered")
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig())
	doc, err := fetcher.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if doc.RawText != "recovered" {
		t.Errorf("Unexpected text: %q", doc.RawText)
	}
	if attempts.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts.Load())
	}
}

func TestFetchDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	origSleep := fetchSleepFunc
	fetchSleepFunc = func(d time.Duration) {}
	defer func() { fetchSleepFunc = origSleep }()

	fetcher := NewFetcher(testHTTPConfig())
	if _, err := fetcher.Fetch(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 404, got nil")
	}
	if attempts.Load() != 1 {
		t.Errorf("Expected a single attempt for 404, got %d", attempts.Load())
	}
}

func TestNormalizeQualityTiers(t *testing.T) {
	tests := []struct {
		name string
		text string
		want model.OCRQuality
	}{
		{"clean ascii", strings.Repeat("clean manifest text ", 50), model.OCRClean},
		{"heavy damage", strings.Repeat("\x01\x02\x03", 100), model.OCRPoor},
	}

	for _, tt := range tests {
		doc := Normalize("https://example.gov/doc", "text/plain", []byte(tt.text))
		if doc.OCRQuality != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, doc.OCRQuality)
		}
	}
}

func TestNormalizeDetectsEncodingArtifacts(t *testing.T) {
	text := "line one=\nline two=\nline three=\nline four=\nmore"
	doc := Normalize("https://example.gov/doc", "text/plain", []byte(text))
	if !doc.HasEncodingArtifacts {
		t.Error("Expected quoted-printable residue to flag encoding artifacts")
	}

	clean := Normalize("https://example.gov/doc", "text/plain", []byte("perfectly ordinary text"))
	if clean.HasEncodingArtifacts {
		t.Error("Did not expect artifacts in clean text")
	}
}

func TestNormalizeCountsPages(t *testing.T) {
	doc := Normalize("https://example.gov/doc", "text/plain", []byte("page one\fpage two\fpage three"))
	if doc.PageCount != 3 {
		t.Errorf("Expected 3 pages, got %d", doc.PageCount)
	}
}
