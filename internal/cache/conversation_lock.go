package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ConversationLock serializes turn processing per conversation id.
// Concurrent turns for the same conversation would race on the metrics
// upsert, so each turn holds a short lease for its duration.
type ConversationLock interface {
	Acquire(ctx context.Context, conversationID string) (bool, error)
	Release(ctx context.Context, conversationID string) error
}

type conversationLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewConversationLock creates a new per-conversation lock
func NewConversationLock(client *redis.Client) ConversationLock {
	return &conversationLock{
		client: client,
		ttl:    2 * time.Minute, // lease outlives the slowest expected turn
	}
}

func (l *conversationLock) key(conversationID string) string {
	return fmt.Sprintf("convlock:%s", conversationID)
}

// Acquire takes the lease. Returns false when another turn for the same
// conversation is already in flight.
func (l *conversationLock) Acquire(ctx context.Context, conversationID string) (bool, error) {
	return l.client.SetNX(ctx, l.key(conversationID), "1", l.ttl).Result()
}

func (l *conversationLock) Release(ctx context.Context, conversationID string) error {
	return l.client.Del(ctx, l.key(conversationID)).Err()
}
