package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/docintel/reckon/internal/pipeline"
)

// DocumentProcessor runs the full pipeline on one URL
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, url, batchID string) (*pipeline.DocumentResult, error)
}

// DocumentOutcome is the per-URL result of a batch run
type DocumentOutcome struct {
	URL    string
	Result *pipeline.DocumentResult
	Err    error
}

// BatchResult summarizes a batch run
type BatchResult struct {
	BatchID   string
	Total     int
	Succeeded int
	Failed    int
	Outcomes  []DocumentOutcome
	Elapsed   time.Duration
}

// Orchestrator runs documents strictly one at a time. Processing is
// sequential so that each document's verification sees the records written
// by the documents before it.
type Orchestrator struct {
	processor DocumentProcessor
	limiter   *Limiter
	delay     time.Duration
	logger    *zap.Logger
}

// NewOrchestrator creates a sequential batch orchestrator
func NewOrchestrator(processor DocumentProcessor, limiter *Limiter, delay time.Duration, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		processor: processor,
		limiter:   limiter,
		delay:     delay,
		logger:    logger.Named("batch"),
	}
}

// Run processes the URLs in order. A document failure is recorded and the
// batch moves on; only context cancellation stops the run early.
func (o *Orchestrator) Run(ctx context.Context, batchID string, urls []string) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{
		BatchID: batchID,
		Total:   len(urls),
	}

	for i, url := range urls {
		if i > 0 {
			if err := o.limiter.WaitWithDelay(ctx, o.delay); err != nil {
				return result, err
			}
		} else if err := o.limiter.Wait(ctx); err != nil {
			return result, err
		}

		o.logger.Info("processing document",
			zap.String("batch_id", batchID),
			zap.Int("position", i+1),
			zap.Int("total", len(urls)),
			zap.String("url", url))

		docResult, err := o.processor.ProcessDocument(ctx, url, batchID)
		outcome := DocumentOutcome{URL: url, Result: docResult, Err: err}
		result.Outcomes = append(result.Outcomes, outcome)

		if err != nil {
			if ctx.Err() != nil {
				result.Failed++
				result.Elapsed = time.Since(start)
				return result, ctx.Err()
			}
			result.Failed++
			o.logger.Error("document failed",
				zap.String("batch_id", batchID),
				zap.String("url", url),
				zap.Error(err))
			continue
		}
		result.Succeeded++
	}

	result.Elapsed = time.Since(start)
	o.logger.Info("batch complete",
		zap.String("batch_id", batchID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
		zap.Duration("elapsed", result.Elapsed))

	return result, nil
}
