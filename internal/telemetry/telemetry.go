// Package telemetry sends anonymous usage events. It is disabled unless an
// endpoint is configured, and failures are never surfaced to callers.
package telemetry

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

// Tracker sends fire-and-forget usage events
type Tracker struct {
	endpoint   string
	domain     string
	httpClient *http.Client
}

// New creates a tracker; an empty endpoint disables tracking
func New(endpoint, domain string) *Tracker {
	return &Tracker{
		endpoint: endpoint,
		domain:   domain,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Enabled reports whether events will be sent
func (t *Tracker) Enabled() bool {
	return t != nil && t.endpoint != ""
}

type event struct {
	Name   string            `json:"name"`
	URL    string            `json:"url"`
	Domain string            `json:"domain"`
	Props  map[string]string `json:"props,omitempty"`
}

// Track sends one event asynchronously. Errors are swallowed: telemetry must
// never affect a pipeline run.
func (t *Tracker) Track(name string, props map[string]string) {
	if !t.Enabled() {
		return
	}

	payload, err := json.Marshal(event{
		Name:   name,
		URL:    "app://" + t.domain + "/" + name,
		Domain: t.domain,
		Props:  props,
	})
	if err != nil {
		return
	}

	go func() {
		req, err := http.NewRequest(http.MethodPost, t.endpoint, bytes.NewReader(payload))
		if err != nil {
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "reckon-telemetry")

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return
		}
		_ = resp.Body.Close()
	}()
}
