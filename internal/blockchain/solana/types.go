// =============================
// File: internal/blockchain/solana/types.go
// =============================
package solana

import (
	"sync"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	defaultTimeout  = 10 * time.Second
	maxRetries      = 3
	retryDelay      = 500 * time.Millisecond
	confirmInterval = 500 * time.Millisecond
)

// RPCMetrics tracks per-endpoint health.
type RPCMetrics struct {
	mu          sync.Mutex
	requests    uint64
	failures    uint64
	lastLatency time.Duration
}

// RPCClient wraps a single RPC endpoint with its activity flag and metrics.
type RPCClient struct {
	Client *rpc.Client
	URL    string

	mu      sync.Mutex
	active  bool
	metrics *RPCMetrics
}

// Client is a round-robin pool over one or more RPC endpoints.
type Client struct {
	rpcClients []*RPCClient
	currIndex  int
	mutex      sync.Mutex
	logger     *zap.Logger
}

func (rc *RPCClient) isActive() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.active
}

func (rc *RPCClient) setActive(active bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.active = active
}

func (rc *RPCClient) updateMetrics(success bool, latency time.Duration) {
	rc.metrics.mu.Lock()
	defer rc.metrics.mu.Unlock()
	rc.metrics.requests++
	if !success {
		rc.metrics.failures++
	}
	rc.metrics.lastLatency = latency
}
