package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubJoinBroadcastLeave(t *testing.T) {
	hub := NewHub()
	a := NewClient("a", nil)
	b := NewClient("b", nil)
	c := NewClient("c", nil)

	hub.Join("easy", a)
	hub.Join("easy", b)
	hub.Join("hard", c)

	assert.Equal(t, 2, hub.Broadcast("easy", []byte("top")))
	assert.Equal(t, []byte("top"), <-a.Send)
	assert.Equal(t, []byte("top"), <-b.Send)
	assert.Empty(t, c.Send)

	assert.Equal(t, 0, hub.Broadcast("medium", []byte("x")))

	assert.True(t, hub.Leave(a))
	assert.False(t, hub.Leave(a))
	room, ok := hub.GetRoom("easy")
	require.True(t, ok)
	assert.Equal(t, 1, room.Len())

	assert.True(t, hub.Leave(b))
	_, ok = hub.GetRoom("easy")
	assert.False(t, ok, "empty rooms are dropped")
}

func TestRoomBroadcastSkipsSenderAndFullClients(t *testing.T) {
	room := NewRoom("easy")
	slow := &Client{ID: "slow", Send: make(chan []byte)}
	fast := NewClient("fast", nil)
	self := NewClient("self", nil)
	room.AddClient(slow)
	room.AddClient(fast)
	room.AddClient(self)

	assert.Equal(t, 1, room.Broadcast("self", []byte("m")))
	assert.Len(t, fast.Send, 1)
	assert.Empty(t, self.Send)
	assert.Same(t, room, fast.Room)
}

func TestLeaveWithoutJoin(t *testing.T) {
	assert.False(t, NewHub().Leave(NewClient("x", nil)))
}
