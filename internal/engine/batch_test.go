// =============================
// File: internal/engine/batch_test.go
// =============================
package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeExecutor struct {
	failAt int // 1-based call number to fail on; 0 never fails
	calls  int
}

func (f *fakeExecutor) Execute(_ context.Context, _ []solana.Instruction) (*SubmissionResult, error) {
	f.calls++
	if f.failAt != 0 && f.calls == f.failAt {
		return nil, errors.New("submission failed")
	}
	return &SubmissionResult{Kind: ResultSignature, Value: "sig"}, nil
}

func threeBatches() [][]solana.Instruction {
	ix := solana.NewInstruction(solana.SystemProgramID, []*solana.AccountMeta{}, []byte{0})
	return [][]solana.Instruction{
		{ix}, {ix}, {ix},
	}
}

func TestBatchProcessAllSucceed(t *testing.T) {
	executor := &fakeExecutor{}
	p := NewBatchProcessor(executor, time.Millisecond, zap.NewNop())

	results, err := p.Process(context.Background(), threeBatches())
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, 3, executor.calls)
}

func TestBatchProcessAbortsOnFirstFailure(t *testing.T) {
	executor := &fakeExecutor{failAt: 2}
	p := NewBatchProcessor(executor, time.Millisecond, zap.NewNop())

	results, err := p.Process(context.Background(), threeBatches())
	require.Error(t, err)

	// The item before the failure kept its result; the one after never ran.
	assert.Len(t, results, 1)
	assert.Equal(t, 2, executor.calls)

	var batchErr *BatchError
	require.ErrorAs(t, err, &batchErr)
	assert.Equal(t, 1, batchErr.Index)
}

func TestBatchProcessEmptyInput(t *testing.T) {
	p := NewBatchProcessor(&fakeExecutor{}, time.Millisecond, zap.NewNop())

	results, err := p.Process(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestBatchProcessHonorsContextCancel(t *testing.T) {
	executor := &fakeExecutor{}
	p := NewBatchProcessor(executor, 50*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The first item runs before the inter-item delay notices cancellation.
	results, err := p.Process(ctx, threeBatches())
	require.Error(t, err)
	assert.Len(t, results, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
