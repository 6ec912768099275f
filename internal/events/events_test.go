package events

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishScoreReachesSubscribers(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := rdb.Subscribe(ctx, ScoresChannel)
	defer sub.Close()
	_, err = sub.Receive(ctx) // subscription confirmation
	require.NoError(t, err)

	pub := NewPublisher(rdb)
	require.NoError(t, pub.PublishScore(ctx, ScoreSubmitted{
		ID: 9, UserID: 2, DisplayName: "Bob", Difficulty: "easy", TimeMs: 3000, Rank: 1, Source: "minesweeper",
	}))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	ev, err := Decode(msg.Payload)
	require.NoError(t, err)
	assert.Equal(t, TypeScoreSubmitted, ev.Type)
	assert.Equal(t, int64(9), ev.ID)
	assert.Equal(t, "easy", ev.Difficulty)
	assert.Equal(t, 1, ev.Rank)
	assert.False(t, ev.At.IsZero())
}

func TestDecodeRejectsForeignPayloads(t *testing.T) {
	_, err := Decode(`{"type":"ships_placed","roomId":"x"}`)
	assert.Error(t, err)

	_, err = Decode(`not json`)
	assert.Error(t, err)
}
