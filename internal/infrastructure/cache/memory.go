package cache

import (
	"context"
	"sync"
	"time"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// MemoryConversationCache is an in-process conversation cache used when Redis
// is disabled, and in tests. Windows expire the same way the Redis-backed
// cache expires its keys.
type MemoryConversationCache struct {
	mu    sync.RWMutex
	items map[string]*conversationWindow
}

type conversationWindow struct {
	events     []*entities.CallEvent
	expireTime time.Time
}

// NewMemoryConversationCache creates an in-memory conversation cache
func NewMemoryConversationCache() *MemoryConversationCache {
	cache := &MemoryConversationCache{
		items: make(map[string]*conversationWindow),
	}

	// Cleanup goroutine removes expired windows
	go cache.cleanupExpired()

	return cache
}

// Recent returns the cached window for the call, oldest first.
func (mc *MemoryConversationCache) Recent(_ context.Context, callID string) ([]*entities.CallEvent, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	window, exists := mc.items[callID]
	if !exists || time.Now().After(window.expireTime) {
		return nil, false
	}

	events := make([]*entities.CallEvent, len(window.events))
	copy(events, window.events)
	return events, true
}

// Append adds turns to the window, trimming it to the configured size.
func (mc *MemoryConversationCache) Append(_ context.Context, callID string, events ...*entities.CallEvent) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	window, exists := mc.items[callID]
	if !exists || time.Now().After(window.expireTime) {
		window = &conversationWindow{}
		mc.items[callID] = window
	}

	window.events = append(window.events, events...)
	if len(window.events) > maxConversationTurns {
		window.events = window.events[len(window.events)-maxConversationTurns:]
	}
	window.expireTime = time.Now().Add(conversationTTL)
}

// Drop discards the window.
func (mc *MemoryConversationCache) Drop(_ context.Context, callID string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	delete(mc.items, callID)
}

// cleanupExpired periodically removes expired windows
func (mc *MemoryConversationCache) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		mc.mu.Lock()
		now := time.Now()
		for key, window := range mc.items {
			if now.After(window.expireTime) {
				delete(mc.items, key)
			}
		}
		mc.mu.Unlock()
	}
}
