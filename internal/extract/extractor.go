// Package extract runs the first-pass entity extraction stage over a
// normalized document.
package extract

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/llm"
	"github.com/docintel/reckon/internal/model"
)

// Extractor is the first-pass extraction stage. It favors the fast model:
// recall over precision, with verification downstream.
type Extractor struct {
	provider llm.Provider
	model    string
	maxChars int
	logger   *zap.Logger
}

// NewExtractor creates an extraction stage bound to a provider and model
func NewExtractor(provider llm.Provider, modelName string, maxChars int, logger *zap.Logger) *Extractor {
	if maxChars <= 0 {
		maxChars = 80_000
	}
	return &Extractor{
		provider: provider,
		model:    modelName,
		maxChars: maxChars,
		logger:   logger.Named("extract"),
	}
}

// Run extracts entity mentions from a normalized document. A transport
// failure is returned as an error; a malformed oracle response degrades to an
// empty extraction flagged for human review.
func (e *Extractor) Run(ctx context.Context, doc *model.NormalizedDocument) (*model.Extraction, error) {
	text := doc.RawText
	truncated := false
	if len(text) > e.maxChars {
		text = text[:e.maxChars]
		truncated = true
	}

	prompt := fmt.Sprintf(`Document URL: %s
Document OCR Quality: %s
Has Encoding Artifacts: %t
Page Count: %d

DOCUMENT TEXT:
%s

Extract all entities following the JSON format specified.`,
		doc.URL, doc.OCRQuality, doc.HasEncodingArtifacts, doc.PageCount, text)

	start := time.Now()
	result, err := e.provider.Infer(ctx, llm.InferRequest{
		System:      systemPrompt,
		Prompt:      prompt,
		Model:       e.model,
		MaxTokens:   4096,
		Temperature: 0.2,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction inference: %w", err)
	}
	elapsed := time.Since(start)

	extraction, parseErr := llm.ParseJSONResponse[model.Extraction](result.Text)
	if parseErr != nil {
		e.logger.Warn("extraction output unparseable, degrading to human review",
			zap.String("url", doc.URL),
			zap.Error(parseErr))
		extraction = model.Extraction{
			DocumentType:        string(model.DocTypeOther),
			Notes:               fmt.Sprintf("JSON parse failed. Raw: %s", llm.Snippet(result.Text, 200)),
			RequiresHumanReview: true,
		}
	}

	extraction.DocumentType = string(model.ParseDocumentType(extraction.DocumentType))
	extraction.DatePrecision = string(model.ParseDatePrecision(extraction.DatePrecision))
	extraction.TruncatedInput = truncated
	extraction.Stats = model.StageStats{
		Model:      result.Model,
		TokensUsed: result.TokensUsed,
		Elapsed:    elapsed,
	}

	e.logger.Debug("extraction complete",
		zap.String("url", doc.URL),
		zap.String("document_type", extraction.DocumentType),
		zap.Int("persons", len(extraction.Persons)),
		zap.Int("locations", len(extraction.Locations)),
		zap.Int("events", len(extraction.Events)),
		zap.Int("tokens", result.TokensUsed),
		zap.Bool("truncated", truncated))

	return &extraction, nil
}
