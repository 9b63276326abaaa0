// =============================
// File: internal/engine/broadcast.go
// =============================
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// BroadcastSubmitter sends an already-signed transaction directly to the
// network and polls for confirmation, retrying on a fixed cadence.
type BroadcastSubmitter struct {
	client     SolanaClient
	maxRetries uint
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewBroadcastSubmitter creates a submitter with a bounded retry budget.
func NewBroadcastSubmitter(client SolanaClient, maxRetries uint, retryDelay time.Duration, logger *zap.Logger) *BroadcastSubmitter {
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	if retryDelay == 0 {
		retryDelay = DefaultRetryDelay
	}
	return &BroadcastSubmitter{
		client:     client,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger.Named("broadcast"),
	}
}

// Submit sends the transaction and waits for confirmed commitment. On any
// send or confirmation error it waits the fixed delay and retries, up to
// maxRetries attempts total; the last error is the one returned.
//
// Retries resend the transaction exactly as signed. The retry window (three
// attempts at a one-second cadence by default) stays well inside blockhash
// validity, so the signature is kept stable rather than re-signing per try.
func (b *BroadcastSubmitter) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	attempt := 0
	op := func() (solana.Signature, error) {
		attempt++

		sig, err := b.client.SendTransaction(ctx, tx)
		if err != nil {
			b.logger.Warn("Broadcast send failed",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
		}

		if err := b.client.ConfirmTransaction(ctx, sig, rpc.CommitmentConfirmed); err != nil {
			b.logger.Warn("Broadcast confirmation failed",
				zap.Int("attempt", attempt),
				zap.String("signature", sig.String()),
				zap.Error(err))
			return solana.Signature{}, fmt.Errorf("failed to confirm transaction: %w", err)
		}

		b.logger.Debug("Broadcast confirmed",
			zap.Int("attempt", attempt),
			zap.String("signature", sig.String()))
		return sig, nil
	}

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(b.retryDelay)),
		backoff.WithMaxTries(b.maxRetries),
	)
}
