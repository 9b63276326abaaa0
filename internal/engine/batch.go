// =============================
// File: internal/engine/batch.go
// =============================
package engine

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// swapExecutor is the per-item submission surface the batch driver needs.
type swapExecutor interface {
	Execute(ctx context.Context, instructions []solana.Instruction) (*SubmissionResult, error)
}

// BatchProcessor drives independent swap instruction sets through the
// orchestrator strictly sequentially, never fanned out, so per-account
// ordering stays predictable and request rate stays bounded.
type BatchProcessor struct {
	executor swapExecutor
	delay    time.Duration
	logger   *zap.Logger
}

// NewBatchProcessor creates a sequential batch driver. A zero delay takes
// the 100 ms default.
func NewBatchProcessor(executor swapExecutor, delay time.Duration, logger *zap.Logger) *BatchProcessor {
	if delay == 0 {
		delay = DefaultBatchDelay
	}
	return &BatchProcessor{
		executor: executor,
		delay:    delay,
		logger:   logger.Named("batch"),
	}
}

// Process submits each instruction set in order with a fixed inter-item
// delay. On the first failure it stops immediately and returns the results
// collected so far plus a BatchError; later items are never attempted.
func (p *BatchProcessor) Process(ctx context.Context, batches [][]solana.Instruction) ([]*SubmissionResult, error) {
	results := make([]*SubmissionResult, 0, len(batches))

	for i, instructions := range batches {
		p.logger.Info("Processing batch item",
			zap.Int("item", i+1),
			zap.Int("total", len(batches)))

		result, err := p.executor.Execute(ctx, instructions)
		if err != nil {
			p.logger.Error("Batch item failed, aborting remainder",
				zap.Int("item", i+1),
				zap.Error(err))
			return results, &BatchError{Index: i, Err: err}
		}
		results = append(results, result)

		if i < len(batches)-1 {
			select {
			case <-ctx.Done():
				return results, &BatchError{Index: i + 1, Err: ctx.Err()}
			case <-time.After(p.delay):
			}
		}
	}

	return results, nil
}
