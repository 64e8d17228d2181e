package ws

import (
	"sync"
)

// Hub keeps connection sets per room ID. Rooms are created on first join and
// never torn down, mirroring the registry's lifetime.
type Hub struct {
	rooms sync.Map // roomID -> *room
}

func NewHub() *Hub { return &Hub{} }

func (h *Hub) Join(roomID string, c *clientConn) {
	r, _ := h.rooms.LoadOrStore(roomID, newRoom())
	r.(*room).add(c)
}

func (h *Hub) Leave(roomID string, c *clientConn) {
	if v, ok := h.rooms.Load(roomID); ok {
		v.(*room).remove(c)
	}
}

// Broadcast fans msg out to every connection in the room.
func (h *Hub) Broadcast(roomID string, msg []byte) {
	if v, ok := h.rooms.Load(roomID); ok {
		v.(*room).broadcast(msg, nil)
	}
}

// BroadcastExcept fans msg out to every connection in the room but the
// sender. Used for code and typing events, where a self-echo would fight the
// originating editor.
func (h *Hub) BroadcastExcept(roomID string, skip *clientConn, msg []byte) {
	if v, ok := h.rooms.Load(roomID); ok {
		v.(*room).broadcast(msg, skip)
	}
}
