package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// clientConn serialises writes to one websocket connection. Broadcasts and
// handler replies come from different goroutines, so every write goes through
// the mutex.
type clientConn struct {
	rawConn *websocket.Conn
	mu      sync.Mutex
}

func (c *clientConn) write(mt int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteMessage(mt, data)
}

func (c *clientConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.rawConn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.rawConn.WriteJSON(v)
}

// writeEvent unicasts one enveloped event to this connection.
func (c *clientConn) writeEvent(event string, body any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.writeJSON(Envelope{Event: event, Body: raw})
}

func (c *clientConn) ping() error {
	return c.write(websocket.PingMessage, nil)
}
