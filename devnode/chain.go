package devnode

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Default delays for how quickly a seeded transaction moves through its
// lifecycle.
const (
	DefaultCommitDelay   = 2 * time.Second
	DefaultFinalizeDelay = 4 * time.Second
)

// Raw status strings in the node wire format.
const (
	statusReceived  = "received"
	statusCommitted = "committed"
	statusFinalized = "finalized"
)

// SeedRequest plants a transaction on the simulated chain. A non-empty
// RejectReason produces a transaction that is included and finalized but
// rejected, the way real nodes report execution failures.
type SeedRequest struct {
	Sender          string `json:"sender"`
	Recipient       string `json:"recipient"`
	Amount          string `json:"amount"`
	Token           string `json:"token,omitempty"`
	RejectReason    string `json:"reject_reason,omitempty"`
	CommitAfterMS   int64  `json:"commit_after_ms,omitempty"`
	FinalizeAfterMS int64  `json:"finalize_after_ms,omitempty"`
}

// StatusResponse is the grid_transactionStatus wire shape.
type StatusResponse struct {
	Hash      string          `json:"hash"`
	Status    string          `json:"status"`
	BlockHash string          `json:"block_hash,omitempty"`
	Outcome   *OutcomeDetails `json:"outcome,omitempty"`
}

// OutcomeDetails is populated once a transaction is included in a block.
type OutcomeDetails struct {
	Sender       string `json:"sender,omitempty"`
	Recipient    string `json:"recipient,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Token        string `json:"token,omitempty"`
	RejectReason string `json:"reject_reason,omitempty"`
}

// ChainInfo is the grid_chainInfo wire shape.
type ChainInfo struct {
	Network string `json:"network"`
	Height  uint64 `json:"height"`
}

type txState struct {
	status    string
	blockHash string
	outcome   *OutcomeDetails
	seed      SeedRequest
}

// Chain is an in-memory ledger that walks seeded transactions through
// received, committed and finalized on timers. It exists so the engine and
// its node client can be exercised end to end without a real network.
type Chain struct {
	network       string
	commitDelay   time.Duration
	finalizeDelay time.Duration
	logger        *logrus.Entry

	mu          sync.Mutex
	txs         map[string]*txState
	height      uint64
	subscribers map[string][]chan StatusResponse
	timers      []*time.Timer
	closed      bool
}

func NewChain(network string, logger *logrus.Entry) *Chain {
	if logger == nil {
		logger = logrus.WithField("service", "devnode")
	}
	return &Chain{
		network:       network,
		commitDelay:   DefaultCommitDelay,
		finalizeDelay: DefaultFinalizeDelay,
		logger:        logger,
		txs:           make(map[string]*txState),
		subscribers:   make(map[string][]chan StatusResponse),
	}
}

// Seed registers a transaction in the received state and schedules its
// commit and finalization. It returns the generated transaction hash.
func (c *Chain) Seed(req SeedRequest) string {
	hash := newTxHash()
	commitDelay := delayOrDefault(req.CommitAfterMS, c.commitDelay)
	finalizeDelay := delayOrDefault(req.FinalizeAfterMS, c.finalizeDelay)

	c.mu.Lock()
	c.txs[hash] = &txState{status: statusReceived, seed: req}
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{
		"hash":   hash,
		"sender": req.Sender,
		"amount": req.Amount,
	}).Info("transaction seeded")

	c.schedule(commitDelay, func() { c.commit(hash) })
	c.schedule(commitDelay+finalizeDelay, func() { c.finalize(hash) })
	return hash
}

// Status returns the wire-format status for a hash, if known.
func (c *Chain) Status(hash string) (StatusResponse, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tx, ok := c.txs[hash]
	if !ok {
		return StatusResponse{}, false
	}
	return statusOf(hash, tx), true
}

// Info reports the chain identity and current height.
func (c *Chain) Info() ChainInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChainInfo{Network: c.network, Height: c.height}
}

// Subscribe registers for status updates on a known hash. The current status
// is delivered immediately; cancel must be called when the caller is done.
func (c *Chain) Subscribe(hash string) (<-chan StatusResponse, func(), bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tx, ok := c.txs[hash]
	if !ok {
		return nil, nil, false
	}

	ch := make(chan StatusResponse, 8)
	ch <- statusOf(hash, tx)
	c.subscribers[hash] = append(c.subscribers[hash], ch)

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		subs := c.subscribers[hash]
		for i, sub := range subs {
			if sub == ch {
				c.subscribers[hash] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	return ch, cancel, true
}

// Close stops all pending lifecycle timers.
func (c *Chain) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
}

func (c *Chain) schedule(d time.Duration, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.timers = append(c.timers, time.AfterFunc(d, fn))
}

func (c *Chain) commit(hash string) {
	c.mu.Lock()
	tx, ok := c.txs[hash]
	if !ok || c.closed || tx.status != statusReceived {
		c.mu.Unlock()
		return
	}
	c.height++
	tx.status = statusCommitted
	tx.blockHash = blockHashAt(c.height)
	tx.outcome = &OutcomeDetails{
		Sender:       tx.seed.Sender,
		Recipient:    tx.seed.Recipient,
		Amount:       tx.seed.Amount,
		Token:        tx.seed.Token,
		RejectReason: tx.seed.RejectReason,
	}
	resp := statusOf(hash, tx)
	subs := snapshotSubscribers(c.subscribers[hash])
	c.mu.Unlock()

	c.logger.WithFields(logrus.Fields{"hash": hash, "block": resp.BlockHash}).Info("transaction committed")
	broadcast(subs, resp)
}

func (c *Chain) finalize(hash string) {
	c.mu.Lock()
	tx, ok := c.txs[hash]
	if !ok || c.closed || tx.status != statusCommitted {
		c.mu.Unlock()
		return
	}
	tx.status = statusFinalized
	resp := statusOf(hash, tx)
	subs := snapshotSubscribers(c.subscribers[hash])
	c.mu.Unlock()

	c.logger.WithField("hash", hash).Info("transaction finalized")
	broadcast(subs, resp)
}

func statusOf(hash string, tx *txState) StatusResponse {
	resp := StatusResponse{Hash: hash, Status: tx.status, BlockHash: tx.blockHash}
	if tx.outcome != nil {
		outcome := *tx.outcome
		resp.Outcome = &outcome
	}
	return resp
}

func snapshotSubscribers(subs []chan StatusResponse) []chan StatusResponse {
	out := make([]chan StatusResponse, len(subs))
	copy(out, subs)
	return out
}

func broadcast(subs []chan StatusResponse, resp StatusResponse) {
	for _, ch := range subs {
		// A subscriber that stopped draining loses updates rather than
		// stalling the chain.
		select {
		case ch <- resp:
		default:
		}
	}
}

func delayOrDefault(ms int64, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func newTxHash() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])
}

func blockHashAt(height uint64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("block-%d", height)))
	return hex.EncodeToString(sum[:])
}
