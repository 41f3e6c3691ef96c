package devnode

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The devnode is a local development tool; it accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// StatusStream upgrades to a WebSocket and pushes one status message per
// lifecycle transition, starting with the current state. The node closes the
// stream after sending a terminal status.
func (h *Handler) StatusStream(c *gin.Context) {
	hash := c.Param("hash")
	updates, cancel, ok := h.chain.Subscribe(hash)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "transaction not found"})
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		select {
		case resp := <-updates:
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
			if h.terminal(resp) {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				conn.WriteMessage(websocket.CloseMessage, msg)
				return
			}
		case <-c.Request.Context().Done():
			return
		}
	}
}

func (h *Handler) terminal(resp StatusResponse) bool {
	if resp.Status == statusFinalized {
		return true
	}
	return resp.Outcome != nil && resp.Outcome.RejectReason != ""
}
