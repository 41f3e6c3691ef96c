package gridnode

import (
	"context"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/clearlane/paysettle/models"
)

// StreamingClient is a Client whose node also serves per-transaction status
// streams over WebSocket.
type StreamingClient struct {
	*Client
	wsURL  string
	dialer *websocket.Dialer
}

// SubscribeStatus opens the node's status stream for one transaction. The
// node sends the current snapshot first, then one message per transition, and
// closes the stream after a terminal snapshot. Cancelling ctx closes the
// connection and ends the stream.
func (c *StreamingClient) SubscribeStatus(ctx context.Context, txID string) (<-chan models.TransactionSnapshot, <-chan error, error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.streamURL(txID), nil)
	if err != nil {
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		return nil, nil, fmt.Errorf("failed to open status stream: %w", err)
	}

	updates := make(chan models.TransactionSnapshot)
	errs := make(chan error, 1)
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	go func() {
		defer close(updates)
		defer close(done)
		for {
			var msg statusResult
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					errs <- fmt.Errorf("status stream closed: %w", err)
				}
				return
			}
			snap := snapshotFromStatus(txID, msg)
			select {
			case updates <- *snap:
			case <-ctx.Done():
				return
			}
			if snap.State.Terminal() {
				return
			}
		}
	}()

	return updates, errs, nil
}

func (c *StreamingClient) streamURL(txID string) string {
	return strings.TrimRight(c.wsURL, "/") + "/ws/status/" + txID
}
