// ====================================
// File: cmd/executor/main.go
// ====================================
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	solbc "github.com/solanaops/pumpfun-executor/internal/blockchain/solana"
	"github.com/solanaops/pumpfun-executor/internal/config"
	"github.com/solanaops/pumpfun-executor/internal/dex/pumpfun"
	"github.com/solanaops/pumpfun-executor/internal/engine"
	"github.com/solanaops/pumpfun-executor/internal/jito"
	"github.com/solanaops/pumpfun-executor/internal/logger"
	"github.com/solanaops/pumpfun-executor/internal/task"
	"github.com/solanaops/pumpfun-executor/internal/wallet"
)

func main() {
	configPath := flag.String("config", "configs/config.json", "path to configuration file")
	mint := flag.String("mint", "", "token mint address")
	amount := flag.Uint64("amount", 0, "amount in base units (lamports for buys, token units for sells)")
	side := flag.String("side", "buy", "swap direction: buy or sell")
	slippage := flag.Uint64("slippage", pumpfun.DefaultSlippageBPS, "slippage tolerance in basis points")
	walletName := flag.String("wallet", "", "wallet name from the wallet file (default: PRIVATE_KEY env)")
	tasksPath := flag.String("tasks", "", "path to a YAML task file for batch execution")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		LogFile:     cfg.LogFile,
		MaxSize:     100,
		MaxBackups:  3,
		MaxAge:      7,
		Compress:    true,
		Development: cfg.DebugLogging,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := runOptions{
		mint:        *mint,
		amount:      *amount,
		side:        *side,
		slippageBPS: *slippage,
		walletName:  *walletName,
		tasksPath:   *tasksPath,
	}
	if err := run(ctx, cfg, log, opts); err != nil {
		log.Error("Execution failed", zap.Error(err))
		os.Exit(1)
	}
}

type runOptions struct {
	mint        string
	amount      uint64
	side        string
	slippageBPS uint64
	walletName  string
	tasksPath   string
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, opts runOptions) error {
	w, err := loadWallet(cfg, opts.walletName)
	if err != nil {
		return err
	}
	log.WithComponent("executor").Info("Wallet loaded", zap.String("pubkey", w.String()))

	client, err := solbc.NewClient(cfg.RPCList, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to RPC: %w", err)
	}

	var relay engine.BundleRelay
	var tips engine.TipSource
	if cfg.UseJito {
		relay = jito.NewClient(cfg.JitoURL, log.Logger)
		tips = jito.NewTipRegistry(cfg.JitoTip, time.Now().UnixNano())
	}

	txCfg := engine.DefaultTxConfig()
	txCfg.UseJito = cfg.UseJito
	txCfg.MaxRetries = uint(cfg.Retries)

	orchestrator := engine.NewOrchestrator(client, relay, tips, w, engine.Config{
		Tx:         txCfg,
		RetryDelay: time.Duration(cfg.RetryDelay) * time.Millisecond,
	}, log.Logger)

	dex := pumpfun.NewDEX(client, w, log.Logger)

	if opts.tasksPath != "" {
		return runBatch(ctx, cfg, log, dex, orchestrator, w, opts.tasksPath)
	}
	return runSingle(ctx, log, dex, orchestrator, opts)
}

func runSingle(ctx context.Context, log *logger.Logger, dex *pumpfun.DEX, orchestrator *engine.Orchestrator, opts runOptions) error {
	direction, err := pumpfun.ParseDirection(opts.side)
	if err != nil {
		return err
	}

	defer log.TrackPerformance("swap")()

	instructions, plan, err := dex.BuildSwapInstructions(ctx, pumpfun.SwapRequest{
		Mint:        opts.mint,
		AmountIn:    opts.amount,
		Direction:   direction,
		SlippageBPS: opts.slippageBPS,
	})
	if err != nil {
		return err
	}
	log.Info("Swap plan ready",
		zap.Uint64("min_amount_out", plan.MinAmountOut),
		zap.Uint64("max_amount_in", plan.MaxAmountIn))

	result, err := orchestrator.Execute(ctx, instructions)
	if err != nil {
		return err
	}

	resultLog := log.Logger
	if result.Kind == engine.ResultSignature {
		resultLog = log.WithTransaction(result.Value)
	}
	resultLog.Info("Swap completed",
		zap.String("kind", result.Kind.String()),
		zap.String("value", result.Value),
		zap.Duration("elapsed", result.Elapsed))
	return nil
}

// runBatch executes every task from the file strictly in order, stopping at
// the first failure.
func runBatch(ctx context.Context, cfg *config.Config, log *logger.Logger, dex *pumpfun.DEX, orchestrator *engine.Orchestrator, w *wallet.Wallet, tasksPath string) error {
	tasks, err := task.NewManager(log.Logger).LoadTasks(tasksPath)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	defer log.TrackPerformance("batch")()

	mints := make([]solana.PublicKey, 0, len(tasks))
	for _, tk := range tasks {
		mint, err := solana.PublicKeyFromBase58(tk.Mint)
		if err != nil {
			return fmt.Errorf("task %q: invalid mint %q: %w", tk.Name, tk.Mint, err)
		}
		mints = append(mints, mint)
	}
	if err := w.PrecomputeATAs(mints); err != nil {
		return err
	}

	batches := make([][]solana.Instruction, 0, len(tasks))
	for _, tk := range tasks {
		direction, err := pumpfun.ParseDirection(string(tk.Operation))
		if err != nil {
			return fmt.Errorf("task %q: %w", tk.Name, err)
		}
		instructions, _, err := dex.BuildSwapInstructions(ctx, pumpfun.SwapRequest{
			Mint:        tk.Mint,
			AmountIn:    tk.AmountIn,
			Direction:   direction,
			SlippageBPS: tk.SlippageBPS,
		})
		if err != nil {
			return fmt.Errorf("task %q: %w", tk.Name, err)
		}
		batches = append(batches, instructions)
	}

	processor := engine.NewBatchProcessor(orchestrator, time.Duration(cfg.BatchDelay)*time.Millisecond, log.Logger)
	results, err := processor.Process(ctx, batches)
	for i, result := range results {
		log.Info("Task completed",
			zap.String("task", tasks[i].Name),
			zap.String("kind", result.Kind.String()),
			zap.String("value", result.Value))
	}
	return err
}

// loadWallet resolves the signing wallet: a named entry from the CSV wallet
// file when requested, otherwise the PRIVATE_KEY environment variable.
func loadWallet(cfg *config.Config, walletName string) (*wallet.Wallet, error) {
	if walletName != "" {
		wallets, err := wallet.LoadWallets(cfg.WalletFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load wallet file: %w", err)
		}
		w, ok := wallets[walletName]
		if !ok {
			return nil, fmt.Errorf("wallet %q not found in %s", walletName, cfg.WalletFile)
		}
		return w, nil
	}

	key := os.Getenv("PRIVATE_KEY")
	if key == "" {
		return nil, fmt.Errorf("PRIVATE_KEY environment variable is not set")
	}
	return wallet.New(key)
}
