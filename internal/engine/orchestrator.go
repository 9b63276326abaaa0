// =============================
// File: internal/engine/orchestrator.go
// =============================

// Package engine orchestrates swap submission: compute-budget attachment,
// signing, Jito bundle submission with RPC broadcast fallback, and
// sequential batch processing.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/solanaops/pumpfun-executor/internal/wallet"
)

// Submission timing defaults.
const (
	DefaultConfirmTimeout = 60 * time.Second
	DefaultRetryDelay     = 1000 * time.Millisecond
	DefaultBatchDelay     = 100 * time.Millisecond
)

// SolanaClient is the slice of the RPC client the engine needs.
type SolanaClient interface {
	GetLatestBlockhash(ctx context.Context) (solana.Hash, error)
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	ConfirmTransaction(ctx context.Context, sig solana.Signature, commitment rpc.CommitmentType) error
}

// BundleRelay submits ordered transaction bundles to a priority relay.
type BundleRelay interface {
	SendBundle(ctx context.Context, txs []*solana.Transaction) (string, error)
	WaitForBundleConfirmation(ctx context.Context, bundleID string) error
}

// TipSource resolves the relay tip destination and amount. Init must be
// idempotent and safe to invoke from concurrent callers.
type TipSource interface {
	Init(ctx context.Context) error
	TipAccount() (solana.PublicKey, error)
	TipValue() uint64
}

// ResultKind tags how a swap landed.
type ResultKind int

const (
	ResultBundle ResultKind = iota
	ResultSignature
)

// String implements fmt.Stringer.
func (k ResultKind) String() string {
	if k == ResultBundle {
		return "bundle"
	}
	return "signature"
}

// SubmissionResult reports the landed identifier: a relay bundle id or a
// transaction signature, plus how long submission took.
type SubmissionResult struct {
	Kind    ResultKind
	Value   string
	Elapsed time.Duration
}

// Config tunes the orchestrator. Zero values take the package defaults.
type Config struct {
	Tx             TxConfig
	ConfirmTimeout time.Duration
	RetryDelay     time.Duration
}

// Orchestrator runs the submission state machine for one swap at a time:
// build, sign, try the bundle relay, fall back to direct broadcast.
type Orchestrator struct {
	client    SolanaClient
	relay     BundleRelay
	tips      TipSource
	wallet    *wallet.Wallet
	cfg       Config
	broadcast *BroadcastSubmitter
	logger    *zap.Logger
}

// NewOrchestrator wires the submission pipeline. relay and tips may be nil,
// in which case every swap goes straight to broadcast.
func NewOrchestrator(client SolanaClient, relay BundleRelay, tips TipSource, w *wallet.Wallet, cfg Config, logger *zap.Logger) *Orchestrator {
	if cfg.Tx.UnitLimit == 0 {
		cfg.Tx = DefaultTxConfig()
	}
	if cfg.ConfirmTimeout == 0 {
		cfg.ConfirmTimeout = DefaultConfirmTimeout
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	return &Orchestrator{
		client:    client,
		relay:     relay,
		tips:      tips,
		wallet:    w,
		cfg:       cfg,
		broadcast: NewBroadcastSubmitter(client, cfg.Tx.MaxRetries, cfg.RetryDelay, logger),
		logger:    logger.Named("orchestrator"),
	}
}

// Execute signs and submits one swap. The bundle path is attempted first
// when enabled; any bundle failure is demoted to a fallback trigger and the
// broadcast submitter's error is the one surfaced.
func (o *Orchestrator) Execute(ctx context.Context, instructions []solana.Instruction) (*SubmissionResult, error) {
	start := time.Now()

	o.logger.Info("Processing transaction",
		zap.Int("num_instructions", len(instructions)),
		zap.Uint64("priority_fee_microlamports", PriorityFee(o.cfg.Tx.UnitPrice, o.cfg.Tx.UnitLimit)))

	instructions = PrependComputeBudget(instructions, o.cfg.Tx)

	blockhash, err := o.client.GetLatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	tx, err := o.signTransaction(instructions, blockhash)
	if err != nil {
		return nil, err
	}

	if o.cfg.Tx.UseJito && o.relay != nil && o.tips != nil {
		bundleID, err := o.submitBundle(ctx, tx, blockhash)
		if err == nil {
			o.logger.Info("Transaction landed via bundle relay",
				zap.String("bundle_id", bundleID),
				zap.Duration("elapsed", time.Since(start)))
			return &SubmissionResult{Kind: ResultBundle, Value: bundleID, Elapsed: time.Since(start)}, nil
		}
		o.logger.Warn("Bundle submission failed, falling back to RPC broadcast", zap.Error(err))
	}

	sig, err := o.broadcast.Submit(ctx, tx)
	if err != nil {
		return nil, err
	}

	o.logger.Info("Transaction landed via RPC broadcast",
		zap.String("signature", sig.String()),
		zap.Duration("elapsed", time.Since(start)))
	return &SubmissionResult{Kind: ResultSignature, Value: sig.String(), Elapsed: time.Since(start)}, nil
}

// signTransaction assembles and signs the final transaction.
func (o *Orchestrator) signTransaction(instructions []solana.Instruction, blockhash solana.Hash) (*solana.Transaction, error) {
	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(o.wallet.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	if err := o.wallet.SignTransaction(tx); err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

// submitBundle forms the two-transaction bundle (swap, then tip) and waits
// for relay confirmation under the configured timeout.
func (o *Orchestrator) submitBundle(ctx context.Context, swapTx *solana.Transaction, blockhash solana.Hash) (string, error) {
	// Tip account and tip value are independent reads; resolve them
	// concurrently. Registry initialization is idempotent.
	var (
		tipAccount solana.PublicKey
		tipValue   uint64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := o.tips.Init(gctx); err != nil {
			return err
		}
		account, err := o.tips.TipAccount()
		if err != nil {
			return fmt.Errorf("failed to get tip account: %w", err)
		}
		tipAccount = account
		return nil
	})
	g.Go(func() error {
		tipValue = o.tips.TipValue()
		return nil
	})
	if err := g.Wait(); err != nil {
		return "", err
	}

	tipIx := system.NewTransferInstruction(tipValue, o.wallet.PublicKey, tipAccount).Build()
	tipTx, err := o.signTransaction([]solana.Instruction{tipIx}, blockhash)
	if err != nil {
		return "", fmt.Errorf("failed to build tip transaction: %w", err)
	}

	// Tip transaction always rides last.
	bundleID, err := o.relay.SendBundle(ctx, []*solana.Transaction{swapTx, tipTx})
	if err != nil {
		return "", fmt.Errorf("failed to send bundle: %w", err)
	}

	o.logger.Debug("Bundle sent",
		zap.String("bundle_id", bundleID),
		zap.Uint64("tip_lamports", tipValue),
		zap.String("tip_account", tipAccount.String()))

	confirmCtx, cancel := context.WithTimeout(ctx, o.cfg.ConfirmTimeout)
	defer cancel()
	if err := o.relay.WaitForBundleConfirmation(confirmCtx, bundleID); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBundleConfirmation, err)
	}

	return bundleID, nil
}
