package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// room is the set of live connections sharing one room ID. Membership by user
// name lives in the rooms service; this layer only knows sockets.
type room struct {
	mu    sync.RWMutex
	conns map[*clientConn]struct{}
}

func newRoom() *room { return &room{conns: map[*clientConn]struct{}{}} }

func (r *room) add(c *clientConn) {
	r.mu.Lock()
	r.conns[c] = struct{}{}
	r.mu.Unlock()
}

// remove drops the connection from the fan-out set. It does not close the
// socket: a connection switching rooms keeps its transport alive.
func (r *room) remove(c *clientConn) {
	r.mu.Lock()
	delete(r.conns, c)
	r.mu.Unlock()
}

// broadcast pushes msg to every connection in the room, minus skip when it is
// non-nil. Best-effort: connections whose write fails are dropped from the
// room.
func (r *room) broadcast(msg []byte, skip *clientConn) {
	// Take a quick snapshot of the current connections
	r.mu.RLock()
	conns := make([]*clientConn, 0, len(r.conns))
	for c := range r.conns {
		if c == skip {
			continue
		}
		conns = append(conns, c)
	}
	r.mu.RUnlock()

	// Do the I/O outside the lock
	for _, c := range conns {
		if err := c.write(websocket.TextMessage, msg); err != nil {
			r.remove(c)
		}
	}
}
