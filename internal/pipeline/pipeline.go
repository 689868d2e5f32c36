// Package pipeline wires the full document run: fetch and normalize, three
// oracle stages, then the record write.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/decide"
	"github.com/docintel/reckon/internal/extract"
	"github.com/docintel/reckon/internal/llm"
	"github.com/docintel/reckon/internal/model"
	"github.com/docintel/reckon/internal/store"
	"github.com/docintel/reckon/internal/telemetry"
	"github.com/docintel/reckon/internal/verify"
	"github.com/docintel/reckon/internal/writer"
)

// Pipeline orchestrates the complete processing of one document
type Pipeline struct {
	fetcher   *Fetcher
	assembler *ContextAssembler
	extractor *extract.Extractor
	verifier  *verify.Verifier
	decider   *decide.Decider
	writer    *writer.Writer
	tracker   *telemetry.Tracker
	logger    *zap.Logger
}

// New creates a pipeline from configuration, an open store, and a provider
func New(cfg *model.Config, s store.Store, provider llm.Provider, tracker *telemetry.Tracker, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		fetcher:   NewFetcher(cfg.HTTP),
		assembler: NewContextAssembler(s),
		extractor: extract.NewExtractor(provider, cfg.Oracle.ExtractionModel, cfg.Oracle.MaxDocumentChars, logger),
		verifier:  verify.NewVerifier(provider, cfg.Oracle.VerificationModel, logger),
		decider:   decide.NewDecider(provider, cfg.Oracle.DecisionModel, logger),
		writer:    writer.NewWriter(s, logger),
		tracker:   tracker,
		logger:    logger.Named("pipeline"),
	}
}

// DocumentResult is the outcome of one full document run
type DocumentResult struct {
	DocRef            string
	IntelligenceValue string
	EvidenceChain     string
	Write             *writer.Result
	TokensUsed        int
	Elapsed           time.Duration
}

// ProcessDocument runs the full sequence on one URL: fetch, extract, verify
// against prior records, decide, and persist.
func (p *Pipeline) ProcessDocument(ctx context.Context, url, batchID string) (*DocumentResult, error) {
	start := time.Now()

	doc, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	p.logger.Info("document fetched",
		zap.String("url", url),
		zap.String("ocr_quality", string(doc.OCRQuality)),
		zap.Int("pages", doc.PageCount),
		zap.Int("size_kb", doc.FileSizeKB))

	extraction, err := p.extractor.Run(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	priorContext, err := p.assembler.Assemble(ctx, extraction)
	if err != nil {
		return nil, fmt.Errorf("assemble context: %w", err)
	}

	verification, err := p.verifier.Run(ctx, extraction, doc, priorContext)
	if err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}

	decision, err := p.decider.Run(ctx, verification, extraction, doc)
	if err != nil {
		return nil, fmt.Errorf("decide: %w", err)
	}

	writeResult, err := p.writer.Write(ctx, doc, extraction, verification, decision, batchID)
	if err != nil {
		return nil, fmt.Errorf("write records: %w", err)
	}

	result := &DocumentResult{
		DocRef:            writeResult.DocRef,
		IntelligenceValue: decision.IntelligenceValue,
		EvidenceChain:     decision.EvidenceChain,
		Write:             writeResult,
		TokensUsed:        model.TotalTokens(extraction, verification, decision),
		Elapsed:           time.Since(start),
	}

	p.tracker.Track("document_processed", map[string]string{
		"document_type":      extraction.DocumentType,
		"intelligence_value": decision.IntelligenceValue,
	})

	p.logger.Info("document complete",
		zap.String("doc_ref", result.DocRef),
		zap.String("intelligence_value", result.IntelligenceValue),
		zap.Int("tokens", result.TokensUsed),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}
