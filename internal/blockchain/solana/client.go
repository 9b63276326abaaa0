// =============================
// File: internal/blockchain/solana/client.go
// =============================

// Package solana provides the round-robin RPC pool client used by the
// execution engine: blockhash and account reads, transaction broadcast, and
// signature-status confirmation polling.
package solana

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// NewClient creates a pool client over the given RPC endpoints and verifies
// connectivity before returning.
func NewClient(rpcURLs []string, logger *zap.Logger) (*Client, error) {
	if len(rpcURLs) == 0 {
		return nil, errors.New("empty RPC URL list")
	}

	var clients []*RPCClient
	for _, urlStr := range rpcURLs {
		if _, err := url.Parse(urlStr); err != nil {
			logger.Warn("Invalid RPC URL", zap.String("url", urlStr), zap.Error(err))
			continue
		}
		clients = append(clients, &RPCClient{
			Client:  rpc.New(urlStr),
			URL:     urlStr,
			active:  true,
			metrics: &RPCMetrics{},
		})
	}
	if len(clients) == 0 {
		return nil, errors.New("no valid RPC URLs provided")
	}

	c := &Client{
		rpcClients: clients,
		logger:     logger.Named("rpc"),
	}
	if err := c.validateConnections(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to validate connections: %w", err)
	}
	return c, nil
}

func (c *Client) testConnection(ctx context.Context, rpcClient *RPCClient) error {
	version, err := rpcClient.Client.GetVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}

	if _, err = rpcClient.Client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized); err != nil {
		return fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	c.logger.Debug("Successfully connected to RPC",
		zap.String("url", rpcClient.URL),
		zap.String("solana_core", version.SolanaCore))
	return nil
}

func (c *Client) validateConnections(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var wg sync.WaitGroup
	errChan := make(chan error, len(c.rpcClients))

	for _, client := range c.rpcClients {
		wg.Add(1)
		go func(rpcClient *RPCClient) {
			defer wg.Done()

			var lastErr error
			for attempt := 0; attempt < maxRetries; attempt++ {
				start := time.Now()
				if err := c.testConnection(ctx, rpcClient); err != nil {
					lastErr = err
					rpcClient.updateMetrics(false, time.Since(start))
					time.Sleep(retryDelay)
					continue
				}
				rpcClient.updateMetrics(true, time.Since(start))
				return
			}
			if lastErr != nil {
				errChan <- fmt.Errorf("failed to connect to %s: %w", rpcClient.URL, lastErr)
				rpcClient.setActive(false)
			}
		}(client)
	}

	wg.Wait()
	close(errChan)

	if !c.hasActiveClients() {
		return errors.New("no active RPC connections available")
	}
	return nil
}

// GetAccountInfo fetches raw account data at confirmed commitment.
// rpc.ErrNotFound is a definitive answer about the account, not an endpoint
// failure; it passes through without touching endpoint health.
func (c *Client) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (*rpc.GetAccountInfoResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		client := c.getNextClient()
		if client == nil {
			return nil, errors.New("no active RPC clients available")
		}

		start := time.Now()
		result, err := client.Client.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
			Encoding:   solana.EncodingBase64,
			Commitment: rpc.CommitmentConfirmed,
		})
		if errors.Is(err, rpc.ErrNotFound) {
			client.updateMetrics(true, time.Since(start))
			return nil, err
		}
		client.updateMetrics(err == nil, time.Since(start))

		if err != nil {
			lastErr = err
			client.setActive(false)
			continue
		}
		return result, nil
	}
	return nil, fmt.Errorf("failed to get account info after %d attempts: %w", maxRetries, lastErr)
}

// GetBalance returns an account's lamport balance at confirmed commitment.
func (c *Client) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		client := c.getNextClient()
		if client == nil {
			return 0, errors.New("no active RPC clients available")
		}

		start := time.Now()
		result, err := client.Client.GetBalance(ctx, pubkey, rpc.CommitmentConfirmed)
		client.updateMetrics(err == nil, time.Since(start))

		if err != nil {
			lastErr = err
			client.setActive(false)
			continue
		}
		return result.Value, nil
	}
	return 0, fmt.Errorf("failed to get balance after %d attempts: %w", maxRetries, lastErr)
}

// GetLatestBlockhash returns the most recent finalized blockhash.
func (c *Client) GetLatestBlockhash(ctx context.Context) (solana.Hash, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		client := c.getNextClient()
		if client == nil {
			return solana.Hash{}, errors.New("no active RPC clients available")
		}

		start := time.Now()
		result, err := client.Client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
		client.updateMetrics(err == nil, time.Since(start))

		if err != nil {
			lastErr = err
			client.setActive(false)
			continue
		}
		return result.Value.Blockhash, nil
	}
	return solana.Hash{}, fmt.Errorf("failed to get latest blockhash after %d attempts: %w", maxRetries, lastErr)
}

// SendTransaction broadcasts a signed transaction with preflight skipped.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		client := c.getNextClient()
		if client == nil {
			return solana.Signature{}, errors.New("no active RPC clients available")
		}

		start := time.Now()
		sig, err := client.Client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
			SkipPreflight:       true,
			PreflightCommitment: rpc.CommitmentFinalized,
		})
		client.updateMetrics(err == nil, time.Since(start))

		if err != nil {
			lastErr = err
			client.setActive(false)
			continue
		}
		return sig, nil
	}
	return solana.Signature{}, fmt.Errorf("failed to send transaction after %d attempts: %w", maxRetries, lastErr)
}

// ConfirmTransaction polls signature statuses until the requested commitment
// is reached. The wait is bounded by the caller's context.
func (c *Client) ConfirmTransaction(ctx context.Context, sig solana.Signature, commitment rpc.CommitmentType) error {
	ticker := time.NewTicker(confirmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			client := c.getNextClient()
			if client == nil {
				return errors.New("no active RPC clients available")
			}

			statuses, err := client.Client.GetSignatureStatuses(ctx, false, sig)
			if err != nil {
				c.logger.Warn("Error getting signature statuses", zap.Error(err))
				continue
			}
			if statuses == nil || len(statuses.Value) == 0 || statuses.Value[0] == nil {
				continue
			}

			status := statuses.Value[0]
			if status.Err != nil {
				return fmt.Errorf("transaction failed on chain: %v", status.Err)
			}
			if status.ConfirmationStatus == rpc.ConfirmationStatusFinalized ||
				(commitment == rpc.CommitmentConfirmed && status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed) {
				return nil
			}
		}
	}
}

func (c *Client) hasActiveClients() bool {
	for _, client := range c.rpcClients {
		if client.isActive() {
			return true
		}
	}
	return false
}

func (c *Client) getNextClient() *RPCClient {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	initialIndex := c.currIndex
	for {
		c.currIndex = (c.currIndex + 1) % len(c.rpcClients)
		if c.rpcClients[c.currIndex].isActive() {
			return c.rpcClients[c.currIndex]
		}
		if c.currIndex == initialIndex {
			return nil
		}
	}
}
