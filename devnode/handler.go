package devnode

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// JSON-RPC error codes served by the node. The transaction-not-found code is
// part of the client contract; engines translate it into an absent snapshot.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeTxNotFound     = -32001
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type statusParams struct {
	Hash string `json:"hash"`
}

func rpcResult(id int, result interface{}) gin.H {
	return gin.H{"jsonrpc": "2.0", "id": id, "result": result}
}

func rpcFailure(id, code int, message string) gin.H {
	return gin.H{"jsonrpc": "2.0", "id": id, "error": rpcErrorBody{Code: code, Message: message}}
}

// Handler exposes a Chain over HTTP in the grid node wire format.
type Handler struct {
	chain  *Chain
	logger *logrus.Entry
}

func NewHandler(chain *Chain, logger *logrus.Entry) *Handler {
	if logger == nil {
		logger = logrus.WithField("service", "devnode")
	}
	return &Handler{chain: chain, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)
	r.POST("/", h.RPC)
	r.GET("/ws/status/:hash", h.StatusStream)

	admin := r.Group("/admin")
	{
		admin.POST("/transactions", h.SeedTransaction)
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	info := h.chain.Info()
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"network": info.Network,
		"height":  info.Height,
	})
}

// RPC dispatches the node's JSON-RPC methods. Per JSON-RPC 2.0 the transport
// answers 200 even for method-level errors.
func (h *Handler) RPC(c *gin.Context) {
	var req rpcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rpcFailure(0, codeParseError, "invalid JSON-RPC request"))
		return
	}

	switch req.Method {
	case "grid_transactionStatus":
		var params statusParams
		if err := json.Unmarshal(req.Params, &params); err != nil || params.Hash == "" {
			c.JSON(http.StatusOK, rpcFailure(req.ID, codeInvalidParams, "missing transaction hash"))
			return
		}
		status, ok := h.chain.Status(params.Hash)
		if !ok {
			c.JSON(http.StatusOK, rpcFailure(req.ID, codeTxNotFound, "transaction not found"))
			return
		}
		c.JSON(http.StatusOK, rpcResult(req.ID, status))
	case "grid_chainInfo":
		c.JSON(http.StatusOK, rpcResult(req.ID, h.chain.Info()))
	default:
		h.logger.WithField("method", req.Method).Warn("unknown RPC method")
		c.JSON(http.StatusOK, rpcFailure(req.ID, codeMethodNotFound, "method not found"))
	}
}

// SeedTransaction plants a transaction on the chain and returns its hash.
func (h *Handler) SeedTransaction(c *gin.Context) {
	var req SeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid seed request"})
		return
	}

	hash := h.chain.Seed(req)
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": gin.H{"hash": hash}})
}
