package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// Conversation history window kept per call. Mirrors what the generation
// pipeline feeds the language model: the last maxConversationTurns turns.
const (
	maxConversationTurns = 50
	conversationTTL      = time.Hour
)

// ConversationCache keeps a rolling window of recent turns per call so the
// generation pipeline does not hit Postgres on every turn. A cache miss is
// never an error; callers fall back to the durable event log.
type ConversationCache interface {
	Recent(ctx context.Context, callID string) ([]*entities.CallEvent, bool)
	Append(ctx context.Context, callID string, events ...*entities.CallEvent)
	Drop(ctx context.Context, callID string)
}

// RedisConversationCache stores the window as a Redis list under
// conversation:{callID}, one JSON-encoded turn per element, with a sliding
// TTL. List operations keep concurrent appends atomic: delivery timers and
// the next turn's moderator append may interleave, and neither must lose the
// other's turn.
type RedisConversationCache struct {
	client *redis.Client
}

// NewRedisConversationCache creates a Redis-backed conversation cache
func NewRedisConversationCache(client *redis.Client) *RedisConversationCache {
	return &RedisConversationCache{client: client}
}

func conversationKey(callID string) string {
	return "conversation:" + callID
}

// Recent returns the cached window for the call, oldest first. An empty list
// counts as a miss so callers re-warm from the durable log.
func (c *RedisConversationCache) Recent(ctx context.Context, callID string) ([]*entities.CallEvent, bool) {
	raw, err := c.client.LRange(ctx, conversationKey(callID), 0, -1).Result()
	if err != nil || len(raw) == 0 {
		return nil, false
	}

	events := make([]*entities.CallEvent, 0, len(raw))
	for _, item := range raw {
		var event entities.CallEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			return nil, false
		}
		events = append(events, &event)
	}
	return events, true
}

// Append pushes turns onto the window and trims it to the configured size.
// RPUSH, LTRIM and EXPIRE run in one pipeline so concurrent appenders never
// overwrite each other's turns.
func (c *RedisConversationCache) Append(ctx context.Context, callID string, events ...*entities.CallEvent) {
	if len(events) == 0 {
		return
	}

	values := make([]interface{}, 0, len(events))
	for _, event := range events {
		raw, err := json.Marshal(event)
		if err != nil {
			return
		}
		values = append(values, raw)
	}

	key := conversationKey(callID)
	pipe := c.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -maxConversationTurns, -1)
	pipe.Expire(ctx, key, conversationTTL)
	pipe.Exec(ctx)
}

// Drop discards the window, typically when a call ends.
func (c *RedisConversationCache) Drop(ctx context.Context, callID string) {
	c.client.Del(ctx, conversationKey(callID))
}
