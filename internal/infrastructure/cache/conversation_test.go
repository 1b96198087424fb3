package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestRedisCache(t *testing.T) (*RedisConversationCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisConversationCache(client), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	rc, mr := newTestRedisCache(t)
	ctx := context.Background()
	callID := uuid.New()
	key := callID.String()

	if _, ok := rc.Recent(ctx, key); ok {
		t.Fatal("expected miss on empty cache")
	}

	rc.Append(ctx, key, event(callID, "first"), event(callID, "second"))

	events, ok := rc.Recent(ctx, key)
	if !ok || len(events) != 2 {
		t.Fatalf("got %d events, ok=%v", len(events), ok)
	}
	if events[0].Text != "first" || events[1].Text != "second" {
		t.Errorf("order broken: %q, %q", events[0].Text, events[1].Text)
	}

	mr.FastForward(conversationTTL + time.Minute)
	if _, ok := rc.Recent(ctx, key); ok {
		t.Error("expected miss after TTL expiry")
	}

	rc.Append(ctx, key, event(callID, "again"))
	rc.Drop(ctx, key)
	if _, ok := rc.Recent(ctx, key); ok {
		t.Error("expected miss after Drop")
	}
}

func TestRedisCacheTrimsWindow(t *testing.T) {
	rc, _ := newTestRedisCache(t)
	ctx := context.Background()
	callID := uuid.New()
	key := callID.String()

	for i := 0; i < maxConversationTurns+10; i++ {
		rc.Append(ctx, key, event(callID, fmt.Sprintf("turn-%d", i)))
	}

	events, ok := rc.Recent(ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if len(events) != maxConversationTurns {
		t.Fatalf("window = %d, want %d", len(events), maxConversationTurns)
	}
	// oldest entries fall off the front
	if events[0].Text != "turn-10" {
		t.Errorf("window starts at %q, want turn-10", events[0].Text)
	}
}

func TestRedisCacheConcurrentAppendsLoseNothing(t *testing.T) {
	// delivery timers append outside the per-call turn lock, so appends from
	// different goroutines must not overwrite each other
	rc, _ := newTestRedisCache(t)
	ctx := context.Background()
	callID := uuid.New()
	key := callID.String()

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rc.Append(ctx, key, event(callID, fmt.Sprintf("writer-%d", i)))
		}(i)
	}
	wg.Wait()

	events, ok := rc.Recent(ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if len(events) != writers {
		t.Fatalf("got %d events, want %d", len(events), writers)
	}
	seen := map[string]bool{}
	for _, ev := range events {
		seen[ev.Text] = true
	}
	for i := 0; i < writers; i++ {
		if !seen[fmt.Sprintf("writer-%d", i)] {
			t.Errorf("writer-%d's turn was lost", i)
		}
	}
}
