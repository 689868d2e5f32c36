package extract

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/llm"
	"github.com/docintel/reckon/internal/model"
)

const manifestResponse = `{
	"document_type": "flight_manifest",
	"document_date": "2002-03-01",
	"date_precision": "exact",
	"persons_found": [
		{"name": "John Smith", "name_as_written": "SMITH, JOHN", "is_redacted": false, "possible_victim": false},
		{"name": "Jane Doe", "name_as_written": "DOE, JANE", "is_redacted": false, "possible_victim": true}
	],
	"locations_found": [
		{"name": "Palm Beach", "location_type": "city"}
	],
	"events_found": [
		{"event_type": "flight", "date": "2002-03-01", "date_precision": "exact", "persons_involved": ["John Smith"], "location": "Palm Beach"}
	],
	"organizations_found": [],
	"notes": "",
	"requires_human_review": true
}`

func testDoc(text string) *model.NormalizedDocument {
	return &model.NormalizedDocument{
		URL:        "https://example.gov/manifest.pdf",
		RawText:    text,
		PageCount:  1,
		OCRQuality: model.OCRClean,
	}
}

func TestRunParsesOracleOutput(t *testing.T) {
	provider := &llm.ScriptedProvider{Responses: []string{manifestResponse}, Tokens: 850}
	e := NewExtractor(provider, "fast-model", 0, zap.NewNop())

	got, err := e.Run(context.Background(), testDoc("N908JE 2002-03-01 SMITH, JOHN / DOE, JANE PBI-TEB"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got.DocumentType != string(model.DocTypeFlightManifest) {
		t.Errorf("Expected document type flight_manifest, got %s", got.DocumentType)
	}
	if len(got.Persons) != 2 {
		t.Fatalf("Expected 2 persons, got %d", len(got.Persons))
	}
	if !got.Persons[1].PossibleVictim {
		t.Error("Expected second person to carry the possible_victim flag")
	}
	if got.Stats.TokensUsed != 850 {
		t.Errorf("Expected 850 tokens recorded, got %d", got.Stats.TokensUsed)
	}
	if got.TruncatedInput {
		t.Error("Did not expect short input to be marked truncated")
	}
}

func TestRunStripsMarkdownFences(t *testing.T) {
	provider := &llm.ScriptedProvider{Responses: []string{"```json\n" + manifestResponse + "\n```"}}
	e := NewExtractor(provider, "fast-model", 0, zap.NewNop())

	got, err := e.Run(context.Background(), testDoc("manifest text"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(got.Persons) != 2 {
		t.Errorf("Expected fenced output to parse, got %d persons", len(got.Persons))
	}
}

func TestRunDegradesOnMalformedOutput(t *testing.T) {
	provider := &llm.ScriptedProvider{Responses: []string{"I could not read this document, sorry."}}
	e := NewExtractor(provider, "fast-model", 0, zap.NewNop())

	got, err := e.Run(context.Background(), testDoc("manifest text"))
	if err != nil {
		t.Fatalf("Expected degraded extraction, not error: %v", err)
	}

	if !got.RequiresHumanReview {
		t.Error("Expected malformed output to require human review")
	}
	if got.DocumentType != string(model.DocTypeOther) {
		t.Errorf("Expected fallback document type other, got %s", got.DocumentType)
	}
	if len(got.Persons) != 0 {
		t.Errorf("Expected no persons in fallback, got %d", len(got.Persons))
	}
	if !strings.Contains(got.Notes, "JSON parse failed") {
		t.Errorf("Expected parse failure note, got %q", got.Notes)
	}
}

func TestRunTruncatesLongInput(t *testing.T) {
	provider := &llm.ScriptedProvider{Responses: []string{manifestResponse}}
	e := NewExtractor(provider, "fast-model", 100, zap.NewNop())

	got, err := e.Run(context.Background(), testDoc(strings.Repeat("x", 500)))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !got.TruncatedInput {
		t.Error("Expected long input to be marked truncated")
	}
}

func TestRunNormalizesUnknownEnums(t *testing.T) {
	provider := &llm.ScriptedProvider{Responses: []string{`{
		"document_type": "mystery_scroll",
		"date_precision": "vibes",
		"persons_found": [], "locations_found": [], "events_found": [], "organizations_found": [],
		"requires_human_review": false
	}`}}
	e := NewExtractor(provider, "fast-model", 0, zap.NewNop())

	got, err := e.Run(context.Background(), testDoc("text"))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if got.DocumentType != string(model.DocTypeOther) {
		t.Errorf("Expected unknown type to normalize to other, got %s", got.DocumentType)
	}
	if got.DatePrecision != string(model.PrecisionUnknown) {
		t.Errorf("Expected unknown precision to normalize, got %s", got.DatePrecision)
	}
}
