// Package dedup remembers which inbound chat messages were already handled, so
// a Telegram redelivery after a restart cannot submit the same game twice.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Guard struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

func NewGuard(rdb *redis.Client, prefix string, ttl time.Duration) *Guard {
	return &Guard{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Claim returns true the first time key is seen within the TTL.
func (g *Guard) Claim(ctx context.Context, key string) (bool, error) {
	ok, err := g.rdb.SetNX(ctx, g.prefix+key, time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim %s: %w", key, err)
	}
	return ok, nil
}

// Release forgets key so a failed submission can be retried by the user.
func (g *Guard) Release(ctx context.Context, key string) error {
	if err := g.rdb.Del(ctx, g.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release %s: %w", key, err)
	}
	return nil
}

// MessageKey identifies one chat message of one bot.
func MessageKey(bot string, chatID int64, messageID int) string {
	return fmt.Sprintf("%s:%d:%d", bot, chatID, messageID)
}
