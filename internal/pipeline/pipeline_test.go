package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/llm"
	"github.com/docintel/reckon/internal/model"
	"github.com/docintel/reckon/internal/store"
	"github.com/docintel/reckon/internal/telemetry"
)

const scriptedExtraction = `{
	"document_type": "flight_manifest",
	"document_date": "2002-03-01",
	"date_precision": "exact",
	"persons_found": [
		{"name": "John Smith", "name_as_written": "SMITH, JOHN", "is_redacted": false, "possible_victim": false},
		{"name": "Jane Doe", "name_as_written": "DOE, JANE", "is_redacted": false, "possible_victim": true}
	],
	"locations_found": [{"name": "Palm Beach", "location_type": "city"}],
	"events_found": [
		{"event_type": "flight", "date": "2002-03-01", "date_precision": "exact", "persons_involved": ["John Smith"], "location": "Palm Beach"}
	],
	"organizations_found": [],
	"requires_human_review": true
}`

const scriptedVerification = `{
	"verification_summary": "Manifest places John Smith on the 2002-03-01 flight.",
	"document_confidence": "corroborated",
	"verified_persons": [
		{"name": "John Smith", "confidence": "corroborated"},
		{"name": "Jane Doe", "confidence": "indicated"}
	],
	"verified_locations": [{"name": "Palm Beach", "location_type": "city", "confidence": "indicated"}],
	"verified_events": [
		{"event_type": "flight", "date": "2002-03-01", "date_precision": "exact", "confidence": "corroborated", "persons_present": ["John Smith"], "location": "Palm Beach"}
	],
	"conflicts_detected": [],
	"requires_human_review": false
}`

const scriptedDecision = `{
	"intelligence_value": "high",
	"intelligence_summary": "Corroborated travel record.",
	"persons_intelligence": [
		{
			"name": "John Smith",
			"final_confidence": "corroborated",
			"power_index": {"public_profile": 65, "institutional": 40, "network_centrality": 40, "corroboration": 5},
			"category_inference": "finance"
		}
	],
	"relationship_determinations": [],
	"pattern_flags": [],
	"decision_log": ["Step 1: reviewed manifest"],
	"evidence_chain": "Manifest entry places John Smith on the flight."
}`

func TestProcessDocumentEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = fmt.Fprint(w, "N908JE 2002-03-01 SMITH, JOHN / DOE, JANE PBI-TEB")
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.RespectRobots = false

	s := store.NewMemoryStore()
	provider := &llm.ScriptedProvider{
		Responses: []string{scriptedExtraction, scriptedVerification, scriptedDecision},
		Tokens:    500,
	}

	p := New(cfg, s, provider, telemetry.New("", ""), zap.NewNop())

	result, err := p.ProcessDocument(context.Background(), server.URL, "batch-e2e")
	if err != nil {
		t.Fatalf("ProcessDocument failed: %v", err)
	}

	if result.DocRef != model.DocRef(server.URL) {
		t.Errorf("Expected derived doc ref, got %s", result.DocRef)
	}
	if result.IntelligenceValue != string(model.IntelHigh) {
		t.Errorf("Expected high intelligence value, got %s", result.IntelligenceValue)
	}
	if result.TokensUsed != 1500 {
		t.Errorf("Expected 1500 tokens across three stages, got %d", result.TokensUsed)
	}

	// The clear passenger is persisted with its corroboration sub-score
	// forced to match the confidence level.
	smith := s.Persons["john smith"]
	if smith == nil {
		t.Fatal("Expected john smith to be persisted")
	}
	if smith.Confidence != model.ConfidenceCorroborated {
		t.Errorf("Expected corroborated confidence, got %s", smith.Confidence)
	}
	if smith.Power == nil || smith.Power.Corroboration != model.CorroborationScore(model.ConfidenceCorroborated) {
		t.Errorf("Expected corroboration score %d, got %+v", model.CorroborationScore(model.ConfidenceCorroborated), smith.Power)
	}

	// The flagged passenger is diverted, never written.
	if _, ok := s.Persons["jane doe"]; ok {
		t.Error("Protected name must never be persisted")
	}
	diversions := 0
	for _, c := range s.Conflicts {
		if c.Field == "victim_flag" {
			diversions++
		}
	}
	if diversions != 1 {
		t.Errorf("Expected exactly 1 diversion record, got %d", diversions)
	}

	if len(s.Documents) != 1 {
		t.Errorf("Expected 1 document row, got %d", len(s.Documents))
	}
	if len(s.Log) != 1 {
		t.Fatalf("Expected 1 audit entry, got %d", len(s.Log))
	}
	if s.Log[0].TokensUsed != 1500 {
		t.Errorf("Expected audit entry to record 1500 tokens, got %d", s.Log[0].TokensUsed)
	}
	if result.Write.VictimFlags != 1 {
		t.Errorf("Expected 1 victim flag in write result, got %d", result.Write.VictimFlags)
	}
}

func TestProcessDocumentSurfacesFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = 5 * time.Second
	cfg.HTTP.RespectRobots = false

	p := New(cfg, store.NewMemoryStore(), &llm.ScriptedProvider{}, telemetry.New("", ""), zap.NewNop())

	if _, err := p.ProcessDocument(context.Background(), server.URL, "batch-e2e"); err == nil {
		t.Error("Expected fetch failure to surface as an error")
	}
}
