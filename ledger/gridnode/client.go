package gridnode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/clearlane/paysettle/ledger"
	"github.com/clearlane/paysettle/models"
)

const (
	// codeTxNotFound is the JSON-RPC error a grid node returns for a hash it
	// has no record of. It is an answer about the ledger, not a transport
	// failure, so the client maps it to an absent snapshot.
	codeTxNotFound = -32001

	defaultTimeout = 10 * time.Second
)

type Config struct {
	// RPCURL is the node's JSON-RPC endpoint.
	RPCURL string
	// WSURL, when set, enables push status subscriptions over WebSocket.
	WSURL   string
	Timeout time.Duration
	Logger  *logrus.Entry
}

// New builds a status source for the node at cfg.RPCURL. When cfg.WSURL is
// set, the returned source additionally offers the push subscription
// capability; callers discover that with the usual type assertion.
func New(cfg Config) ledger.StatusSource {
	client := NewClient(cfg)
	if cfg.WSURL == "" {
		return client
	}
	return &StreamingClient{Client: client, wsURL: cfg.WSURL, dialer: websocket.DefaultDialer}
}

// Client talks to a grid node over JSON-RPC 2.0.
type Client struct {
	rpcURL string
	http   *http.Client
	logger *logrus.Entry
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.WithField("service", "gridnode-client")
	}
	return &Client{
		rpcURL: cfg.RPCURL,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// NodeError is a JSON-RPC error object returned by the node itself, as
// opposed to a failure to reach the node at all.
type NodeError struct {
	Code    int
	Message string
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type statusParams struct {
	Hash string `json:"hash"`
}

// statusResult mirrors the node's grid_transactionStatus payload.
type statusResult struct {
	Hash      string     `json:"hash"`
	Status    string     `json:"status"`
	BlockHash string     `json:"block_hash,omitempty"`
	Outcome   *txOutcome `json:"outcome,omitempty"`
}

type txOutcome struct {
	Sender       string `json:"sender,omitempty"`
	Recipient    string `json:"recipient,omitempty"`
	Amount       string `json:"amount,omitempty"`
	Token        string `json:"token,omitempty"`
	RejectReason string `json:"reject_reason,omitempty"`
}

// ChainInfo describes the node's view of its chain.
type ChainInfo struct {
	Network string `json:"network"`
	Height  uint64 `json:"height"`
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	payload, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach node: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read node response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("failed to parse node response: %w", err)
	}
	if rpcResp.Error != nil {
		return &NodeError{Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to parse %s result: %w", method, err)
		}
	}
	return nil
}

func (c *Client) GetStatus(ctx context.Context, txID string) (*models.TransactionSnapshot, error) {
	var result statusResult
	err := c.call(ctx, "grid_transactionStatus", statusParams{Hash: txID}, &result)
	if err != nil {
		var nodeErr *NodeError
		if errors.As(err, &nodeErr) && nodeErr.Code == codeTxNotFound {
			return nil, nil
		}
		return nil, err
	}
	return snapshotFromStatus(txID, result), nil
}

func (c *Client) ChainInfo(ctx context.Context) (*ChainInfo, error) {
	var info ChainInfo
	if err := c.call(ctx, "grid_chainInfo", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func snapshotFromStatus(txID string, st statusResult) *models.TransactionSnapshot {
	snap := &models.TransactionSnapshot{
		TransactionID: txID,
		BlockID:       st.BlockHash,
	}
	var reject string
	if st.Outcome != nil {
		snap.Sender = st.Outcome.Sender
		snap.Recipient = st.Outcome.Recipient
		snap.Amount = st.Outcome.Amount
		snap.Asset = st.Outcome.Token
		reject = st.Outcome.RejectReason
		snap.ErrorDetail = reject
	}
	snap.State = ledger.MapStatus(st.Status, reject)
	return snap
}
