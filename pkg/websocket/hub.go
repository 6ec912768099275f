package websocket

import "sync"

// Hub keeps one Room per leaderboard difficulty. Rooms are created on first
// join and dropped when their last client leaves.
type Hub struct {
	Rooms map[string]*Room
	mu    sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Rooms: make(map[string]*Room),
	}
}

// Join adds c to the room for roomID, creating it if needed.
func (h *Hub) Join(roomID string, c *Client) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, exists := h.Rooms[roomID]
	if !exists {
		room = NewRoom(roomID)
		h.Rooms[roomID] = room
	}
	room.AddClient(c)
	return room
}

// Leave removes c from its room and reports whether it was connected.
func (h *Hub) Leave(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.Room == nil {
		return false
	}
	room := c.Room
	removed := room.RemoveClient(c)
	if room.Len() == 0 && h.Rooms[room.ID] == room {
		delete(h.Rooms, room.ID)
	}
	return removed
}

func (h *Hub) GetRoom(roomID string) (*Room, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, exists := h.Rooms[roomID]
	return room, exists
}

// Broadcast sends message to everyone in roomID. It returns how many clients
// received it.
func (h *Hub) Broadcast(roomID string, message []byte) int {
	room, ok := h.GetRoom(roomID)
	if !ok {
		return 0
	}
	return room.Broadcast("", message)
}
