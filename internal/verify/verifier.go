// Package verify runs the verification stage: it cross-references first-pass
// extractions against prior records and assigns confidence levels.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/llm"
	"github.com/docintel/reckon/internal/model"
)

// Verifier is the verification stage. It runs on the careful model and is
// the only stage that sees the prior-records context.
type Verifier struct {
	provider llm.Provider
	model    string
	logger   *zap.Logger
}

// NewVerifier creates a verification stage bound to a provider and model
func NewVerifier(provider llm.Provider, modelName string, logger *zap.Logger) *Verifier {
	return &Verifier{
		provider: provider,
		model:    modelName,
		logger:   logger.Named("verify"),
	}
}

// Run verifies an extraction against the prior-records context. A transport
// failure is returned as an error; a malformed oracle response degrades to an
// unverified result flagged for human review.
func (v *Verifier) Run(ctx context.Context, extraction *model.Extraction, doc *model.NormalizedDocument, priorContext string) (*model.Verification, error) {
	extractionJSON, err := json.MarshalIndent(extraction, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal extraction: %w", err)
	}

	prompt := fmt.Sprintf(`FIRST-PASS EXTRACTIONS:
%s

DOCUMENT METADATA:
- OCR Quality: %s
- Has Encoding Artifacts: %t
- Content Type: %s
- Page Count: %d

EXISTING RECORD CONTEXT (persons/locations already known):
%s

Verify all extractions, assign confidence levels, and identify any conflicts
with existing records. Apply court-quality evidence standards.`,
		extractionJSON, doc.OCRQuality, doc.HasEncodingArtifacts, doc.ContentType, doc.PageCount, priorContext)

	start := time.Now()
	result, err := v.provider.Infer(ctx, llm.InferRequest{
		System:      systemPrompt,
		Prompt:      prompt,
		Model:       v.model,
		MaxTokens:   4096,
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("verification inference: %w", err)
	}
	elapsed := time.Since(start)

	verification, parseErr := llm.ParseJSONResponse[model.Verification](result.Text)
	if parseErr != nil {
		v.logger.Warn("verification output unparseable, degrading to human review",
			zap.String("url", doc.URL),
			zap.Error(parseErr))
		verification = model.Verification{
			DocumentConfidence:  string(model.ConfidenceUnverified),
			Anomalies:           []string{fmt.Sprintf("JSON parse failed. Raw: %s", llm.Snippet(result.Text, 200))},
			RequiresHumanReview: true,
			HumanReviewReason:   "verification output unparseable",
		}
	}

	verification.DocumentConfidence = string(model.ParseConfidence(verification.DocumentConfidence))
	for i := range verification.Persons {
		verification.Persons[i].Confidence = string(model.ParseConfidence(verification.Persons[i].Confidence))
	}
	for i := range verification.Locations {
		verification.Locations[i].Confidence = string(model.ParseConfidence(verification.Locations[i].Confidence))
	}
	for i := range verification.Events {
		verification.Events[i].Confidence = string(model.ParseConfidence(verification.Events[i].Confidence))
		verification.Events[i].DatePrecision = string(model.ParseDatePrecision(verification.Events[i].DatePrecision))
	}

	verification.Stats = model.StageStats{
		Model:      result.Model,
		TokensUsed: result.TokensUsed,
		Elapsed:    elapsed,
	}

	v.logger.Debug("verification complete",
		zap.String("url", doc.URL),
		zap.String("document_confidence", verification.DocumentConfidence),
		zap.Int("persons", len(verification.Persons)),
		zap.Int("conflicts", len(verification.Conflicts)),
		zap.Int("tokens", result.TokensUsed))

	return &verification, nil
}
