// =============================
// File: internal/jito/client_test.go
// =============================
package jito

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func signedTestTransaction(t *testing.T) *solana.Transaction {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	ix := solana.NewInstruction(solana.SystemProgramID, []*solana.AccountMeta{}, []byte{0})
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{1}, solana.TransactionPayer(key.PublicKey()))
	require.NoError(t, err)

	_, err = tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if pub.Equals(key.PublicKey()) {
			return &key
		}
		return nil
	})
	require.NoError(t, err)
	return tx
}

func TestSendBundle(t *testing.T) {
	var captured struct {
		Method string        `json:"method"`
		Params []interface{} `json:"params"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"test-bundle-id"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	bundleID, err := client.SendBundle(context.Background(), []*solana.Transaction{signedTestTransaction(t)})
	require.NoError(t, err)

	assert.Equal(t, "test-bundle-id", bundleID)
	assert.Equal(t, "sendBundle", captured.Method)
	require.Len(t, captured.Params, 2)

	txs, ok := captured.Params[0].([]interface{})
	require.True(t, ok)
	assert.Len(t, txs, 1)

	opts, ok := captured.Params[1].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "base64", opts["encoding"])
}

func TestSendBundleRejectsEmpty(t *testing.T) {
	client := NewClient("http://localhost", zap.NewNop())
	_, err := client.SendBundle(context.Background(), nil)
	require.Error(t, err)
}

func TestSendBundleRejectsOversized(t *testing.T) {
	client := NewClient("http://localhost", zap.NewNop())

	txs := make([]*solana.Transaction, maxBundleTransactions+1)
	for i := range txs {
		txs[i] = signedTestTransaction(t)
	}
	_, err := client.SendBundle(context.Background(), txs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum")
}

func TestSendBundleRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.SendBundle(context.Background(), []*solana.Transaction{signedTestTransaction(t)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestWaitForBundleConfirmation(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		status := "processed"
		if calls >= 2 {
			status = "confirmed"
		}
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result": map[string]interface{}{
				"value": []map[string]interface{}{
					{"bundle_id": "b1", "confirmation_status": status},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	client.httpClient.Timeout = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, client.WaitForBundleConfirmation(ctx, "b1"))
	assert.GreaterOrEqual(t, calls, 2)
}

func TestWaitForBundleConfirmationFailsFastOnChainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result": map[string]interface{}{
				"value": []map[string]interface{}{
					{
						"bundle_id":           "b1",
						"confirmation_status": "processed",
						"err":                 map[string]interface{}{"InstructionError": []interface{}{0, map[string]interface{}{"Custom": 6002}}},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	err := client.WaitForBundleConfirmation(ctx, "b1")
	require.ErrorIs(t, err, ErrBundleFailed)
	assert.Contains(t, err.Error(), "InstructionError")
	// The failure surfaces on the first status poll, not at the deadline.
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestBundleStatusFailed(t *testing.T) {
	tests := []struct {
		name   string
		err    string
		failed bool
	}{
		{name: "absent", err: "", failed: false},
		{name: "null", err: "null", failed: false},
		{name: "ok null", err: `{"Ok":null}`, failed: false},
		{name: "instruction error", err: `{"InstructionError":[0,{"Custom":6002}]}`, failed: true},
		{name: "ok with payload", err: `{"Ok":{"slot":1}}`, failed: true},
		{name: "unstructured", err: `"dropped"`, failed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := bundleStatus{Err: json.RawMessage(tt.err)}
			assert.Equal(t, tt.failed, status.failed())
		})
	}
}

func TestWaitForBundleConfirmationTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      1,
			"result":  map[string]interface{}{"value": []interface{}{}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	err := client.WaitForBundleConfirmation(ctx, "b1")
	require.ErrorIs(t, err, ErrBundleDropped)
}
