package websocket

import "sync"

// Room groups the clients watching one leaderboard.
type Room struct {
	ID      string
	Clients map[string]*Client
	mu      sync.RWMutex
}

func NewRoom(id string) *Room {
	return &Room{
		ID:      id,
		Clients: make(map[string]*Client),
	}
}

// Broadcast queues message for every client except senderID. A client whose
// buffer is full misses the message; the next update supersedes it anyway.
// It returns the number of clients the message was queued for.
func (r *Room) Broadcast(senderID string, message []byte) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sent := 0
	for id, client := range r.Clients {
		if id == senderID {
			continue
		}
		select {
		case client.Send <- message:
			sent++
		default:
		}
	}
	return sent
}

func (r *Room) AddClient(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Clients[c.ID] = c
	c.Room = r
}

// RemoveClient reports whether c was still a member.
func (r *Room) RemoveClient(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Clients[c.ID]; !ok {
		return false
	}
	delete(r.Clients, c.ID)
	return true
}

func (r *Room) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Clients)
}
