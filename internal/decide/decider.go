// Package decide runs the decision stage: final confidence, prominence
// scoring, relationship determinations, and the evidence chain.
package decide

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/llm"
	"github.com/docintel/reckon/internal/model"
)

// Decider is the decision stage, run on the careful model
type Decider struct {
	provider llm.Provider
	model    string
	logger   *zap.Logger
}

// NewDecider creates a decision stage bound to a provider and model
func NewDecider(provider llm.Provider, modelName string, logger *zap.Logger) *Decider {
	return &Decider{
		provider: provider,
		model:    modelName,
		logger:   logger.Named("decide"),
	}
}

// Run produces the final intelligence determination for a document. A
// transport failure is returned as an error; a malformed oracle response
// degrades to a low-value verdict flagged for human review.
func (d *Decider) Run(ctx context.Context, verification *model.Verification, extraction *model.Extraction, doc *model.NormalizedDocument) (*model.Decision, error) {
	verificationJSON, err := json.MarshalIndent(verification, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal verification: %w", err)
	}
	extractionJSON, err := json.MarshalIndent(extraction, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal extraction: %w", err)
	}

	prompt := fmt.Sprintf(`VERIFICATION OUTPUT:
%s

ORIGINAL FIRST-PASS EXTRACTIONS:
%s

DOCUMENT: %s
TYPE: %s
DATE: %s

Generate final intelligence determinations including power index scores,
relationship strengths, pattern flags, and an evidence chain summary
suitable for use in a legal brief or investigative article.`,
		verificationJSON, extractionJSON, doc.URL, extraction.DocumentType, extraction.DocumentDate)

	start := time.Now()
	result, err := d.provider.Infer(ctx, llm.InferRequest{
		System:      systemPrompt,
		Prompt:      prompt,
		Model:       d.model,
		MaxTokens:   4096,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("decision inference: %w", err)
	}
	elapsed := time.Since(start)

	decision, parseErr := llm.ParseJSONResponse[model.Decision](result.Text)
	if parseErr != nil {
		d.logger.Warn("decision output unparseable, degrading to human review",
			zap.String("url", doc.URL),
			zap.Error(parseErr))
		decision = model.Decision{
			IntelligenceValue: string(model.IntelLow),
			Summary:           "Processing error — human review required",
			DecisionLog:       []string{fmt.Sprintf("JSON parse failed. Raw: %s", llm.Snippet(result.Text, 200))},
			EvidenceChain:     "Unable to generate — human review required",
		}
	}

	decision.IntelligenceValue = string(model.ParseIntelligenceValue(decision.IntelligenceValue))
	for i := range decision.Persons {
		p := &decision.Persons[i]
		p.FinalConfidence = string(model.ParseConfidence(p.FinalConfidence))
		// The corroboration sub-score is a deterministic projection of the
		// confidence level, not the oracle's to invent.
		p.PowerIndex.Corroboration = model.CorroborationScore(model.Confidence(p.FinalConfidence))
		p.PowerIndex.PublicProfile = clampScore(p.PowerIndex.PublicProfile)
		p.PowerIndex.Institutional = clampScore(p.PowerIndex.Institutional)
		p.PowerIndex.NetworkCentrality = clampScore(p.PowerIndex.NetworkCentrality)
	}
	for i := range decision.Relationships {
		decision.Relationships[i].EvidenceStrength = string(model.ParseEvidenceStrength(decision.Relationships[i].EvidenceStrength))
		if decision.Relationships[i].CoOccurrenceCount < 1 {
			decision.Relationships[i].CoOccurrenceCount = 1
		}
	}

	decision.Stats = model.StageStats{
		Model:      result.Model,
		TokensUsed: result.TokensUsed,
		Elapsed:    elapsed,
	}

	d.logger.Debug("decision complete",
		zap.String("url", doc.URL),
		zap.String("intelligence_value", decision.IntelligenceValue),
		zap.Int("persons", len(decision.Persons)),
		zap.Int("relationships", len(decision.Relationships)),
		zap.Int("tokens", result.TokensUsed))

	return &decision, nil
}

// clampScore bounds a power sub-score to the 0-100 scale
func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
