package decide

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/llm"
	"github.com/docintel/reckon/internal/model"
)

const decisionResponse = `{
	"intelligence_value": "HIGH",
	"intelligence_summary": "Manifest corroborates travel on 2002-03-01.",
	"persons_intelligence": [
		{
			"name": "John Smith",
			"final_confidence": "corroborated",
			"power_index": {"public_profile": 65, "institutional": 140, "network_centrality": -5, "corroboration": 99},
			"category_inference": "finance"
		},
		{
			"name": "Unknown Figure",
			"final_confidence": "nonsense",
			"power_index": {"public_profile": 20, "institutional": 10, "network_centrality": 10, "corroboration": 90}
		}
	],
	"relationship_determinations": [
		{"person_a": "John Smith", "person_b": "Unknown Figure", "relationship_type": "co_traveler", "evidence_strength": "overwhelming", "co_occurrence_count": 0}
	],
	"pattern_flags": [],
	"decision_log": ["Step 1: reviewed manifest"],
	"evidence_chain": "Manifest entry places both passengers on the flight."
}`

func testInput() (*model.Verification, *model.Extraction, *model.NormalizedDocument) {
	ver := &model.Verification{
		DocumentConfidence: string(model.ConfidenceCorroborated),
		Persons: []model.VerifiedPerson{
			{Name: "John Smith", Confidence: string(model.ConfidenceCorroborated)},
		},
	}
	ext := &model.Extraction{DocumentType: "flight_manifest", DocumentDate: "2002-03-01"}
	doc := &model.NormalizedDocument{URL: "https://example.gov/manifest.pdf"}
	return ver, ext, doc
}

func TestRunClampsScoresAndOverridesCorroboration(t *testing.T) {
	provider := &llm.ScriptedProvider{Responses: []string{decisionResponse}, Tokens: 1500}
	d := NewDecider(provider, "careful-model", zap.NewNop())

	ver, ext, doc := testInput()
	got, err := d.Run(context.Background(), ver, ext, doc)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got.IntelligenceValue != string(model.IntelHigh) {
		t.Errorf("Expected intelligence value high, got %s", got.IntelligenceValue)
	}

	smith := got.Persons[0]
	if smith.PowerIndex.Corroboration != 70 {
		t.Errorf("Expected corroboration forced to 70 for corroborated, got %d", smith.PowerIndex.Corroboration)
	}
	if smith.PowerIndex.Institutional != 100 {
		t.Errorf("Expected institutional clamped to 100, got %d", smith.PowerIndex.Institutional)
	}
	if smith.PowerIndex.NetworkCentrality != 0 {
		t.Errorf("Expected network centrality clamped to 0, got %d", smith.PowerIndex.NetworkCentrality)
	}

	unknown := got.Persons[1]
	if unknown.FinalConfidence != string(model.ConfidenceUnverified) {
		t.Errorf("Expected unknown confidence to degrade, got %s", unknown.FinalConfidence)
	}
	if unknown.PowerIndex.Corroboration != 15 {
		t.Errorf("Expected corroboration 15 for unverified, got %d", unknown.PowerIndex.Corroboration)
	}
}

func TestRunNormalizesRelationships(t *testing.T) {
	provider := &llm.ScriptedProvider{Responses: []string{decisionResponse}}
	d := NewDecider(provider, "careful-model", zap.NewNop())

	ver, ext, doc := testInput()
	got, err := d.Run(context.Background(), ver, ext, doc)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	rel := got.Relationships[0]
	if rel.EvidenceStrength != string(model.StrengthWeak) {
		t.Errorf("Expected unknown strength to default to weak, got %s", rel.EvidenceStrength)
	}
	if rel.CoOccurrenceCount != 1 {
		t.Errorf("Expected co-occurrence count floored at 1, got %d", rel.CoOccurrenceCount)
	}
}

func TestRunDegradesOnMalformedOutput(t *testing.T) {
	provider := &llm.ScriptedProvider{Responses: []string{"no structured verdict here"}}
	d := NewDecider(provider, "careful-model", zap.NewNop())

	ver, ext, doc := testInput()
	got, err := d.Run(context.Background(), ver, ext, doc)
	if err != nil {
		t.Fatalf("Expected degraded decision, not error: %v", err)
	}

	if got.IntelligenceValue != string(model.IntelLow) {
		t.Errorf("Expected fallback intelligence value low, got %s", got.IntelligenceValue)
	}
	if len(got.Persons) != 0 {
		t.Errorf("Expected no persons in fallback, got %d", len(got.Persons))
	}
	if got.EvidenceChain == "" {
		t.Error("Expected fallback evidence chain narrative")
	}
}
