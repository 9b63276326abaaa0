// =============================
// File: internal/jito/client.go
// =============================

// Package jito implements the bundle relay client: JSON-RPC bundle
// submission, status polling, and the tip-account registry.
package jito

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

const (
	maxBundleTransactions = 5
	statusPollInterval    = 2 * time.Second
	httpTimeout           = 30 * time.Second
)

// ErrBundleDropped reports a bundle the relay accepted but never landed.
var ErrBundleDropped = errors.New("bundle dropped by relay")

// ErrBundleFailed reports a bundle that landed on chain but reverted.
var ErrBundleFailed = errors.New("bundle failed on chain")

// Client talks JSON-RPC to a Jito block-engine endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a relay client for the given block-engine URL.
func NewClient(endpoint string, logger *zap.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: httpTimeout},
		logger:     logger.Named("jito"),
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("relay error %d: %s", e.Code, e.Message)
}

// call performs one JSON-RPC round trip and unmarshals the result field.
func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
		Error  *rpcError       `json:"error"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if result != nil {
		if err := json.Unmarshal(envelope.Result, result); err != nil {
			return fmt.Errorf("failed to decode result: %w", err)
		}
	}
	return nil
}

// SendBundle submits an ordered group of signed transactions as one atomic
// bundle and returns the relay-assigned bundle id.
func (c *Client) SendBundle(ctx context.Context, txs []*solana.Transaction) (string, error) {
	if len(txs) == 0 {
		return "", errors.New("no transactions to bundle")
	}
	if len(txs) > maxBundleTransactions {
		return "", fmt.Errorf("bundle exceeds maximum of %d transactions", maxBundleTransactions)
	}

	encoded := make([]string, len(txs))
	for i, tx := range txs {
		if len(tx.Signatures) == 0 {
			return "", fmt.Errorf("transaction %d is not signed", i)
		}
		raw, err := tx.MarshalBinary()
		if err != nil {
			return "", fmt.Errorf("failed to serialize transaction %d: %w", i, err)
		}
		encoded[i] = base64.StdEncoding.EncodeToString(raw)
	}

	var bundleID string
	params := []interface{}{encoded, map[string]string{"encoding": "base64"}}
	if err := c.call(ctx, "sendBundle", params, &bundleID); err != nil {
		return "", fmt.Errorf("failed to send bundle: %w", err)
	}

	c.logger.Debug("Bundle submitted",
		zap.String("bundle_id", bundleID),
		zap.Int("num_transactions", len(txs)))
	return bundleID, nil
}

type bundleStatus struct {
	BundleID           string          `json:"bundle_id"`
	ConfirmationStatus string          `json:"confirmation_status"`
	Err                json.RawMessage `json:"err"`
}

// failed reports whether the status carries a transaction error. The relay
// encodes success as {"Ok":null}; anything else in the err field is a
// definitive on-chain failure.
func (s bundleStatus) failed() bool {
	if len(s.Err) == 0 || string(s.Err) == "null" {
		return false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(s.Err, &fields); err != nil {
		return true
	}
	for key, val := range fields {
		if key == "Ok" && (len(val) == 0 || string(val) == "null") {
			continue
		}
		return true
	}
	return false
}

// WaitForBundleConfirmation polls bundle statuses until the bundle reaches
// confirmed or finalized commitment. The wait is bounded by the caller's
// context; a deadline expiry means the bundle never landed.
func (c *Client) WaitForBundleConfirmation(ctx context.Context, bundleID string) error {
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrBundleDropped, bundleID)
		case <-ticker.C:
			var result struct {
				Value []bundleStatus `json:"value"`
			}
			params := []interface{}{[]string{bundleID}}
			if err := c.call(ctx, "getBundleStatuses", params, &result); err != nil {
				c.logger.Warn("Bundle status check failed", zap.Error(err))
				continue
			}
			if len(result.Value) == 0 {
				continue
			}

			entry := result.Value[0]
			c.logger.Debug("Bundle status",
				zap.String("bundle_id", bundleID),
				zap.String("status", entry.ConfirmationStatus))
			// An on-chain failure is final; do not wait out the deadline.
			if entry.failed() {
				return fmt.Errorf("%w: %s: %s", ErrBundleFailed, bundleID, string(entry.Err))
			}
			if entry.ConfirmationStatus == "confirmed" || entry.ConfirmationStatus == "finalized" {
				return nil
			}
		}
	}
}
