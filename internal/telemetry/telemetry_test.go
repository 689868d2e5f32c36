package telemetry

import "testing"

func TestDisabledWithoutEndpoint(t *testing.T) {
	tracker := New("", "reckon.local")
	if tracker.Enabled() {
		t.Error("Expected empty endpoint to disable telemetry")
	}

	// Must be a no-op, not a panic or a network call.
	tracker.Track("document_processed", map[string]string{"value": "high"})
}

func TestEnabledWithEndpoint(t *testing.T) {
	tracker := New("https://plausible.example/api/event", "reckon.local")
	if !tracker.Enabled() {
		t.Error("Expected configured endpoint to enable telemetry")
	}
}
