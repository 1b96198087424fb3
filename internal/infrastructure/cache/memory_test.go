package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

func event(callID uuid.UUID, text string) *entities.CallEvent {
	return entities.NewCallEvent(callID, entities.ModeratorSpeaker, entities.CallEventKindHumanInput, text, nil)
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	mc := NewMemoryConversationCache()
	ctx := context.Background()
	callID := uuid.New()
	key := callID.String()

	if _, ok := mc.Recent(ctx, key); ok {
		t.Fatal("expected miss on empty cache")
	}

	mc.Append(ctx, key, event(callID, "first"), event(callID, "second"))

	events, ok := mc.Recent(ctx, key)
	if !ok || len(events) != 2 {
		t.Fatalf("got %d events, ok=%v", len(events), ok)
	}
	if events[0].Text != "first" || events[1].Text != "second" {
		t.Errorf("order broken: %q, %q", events[0].Text, events[1].Text)
	}

	mc.Drop(ctx, key)
	if _, ok := mc.Recent(ctx, key); ok {
		t.Error("expected miss after Drop")
	}
}

func TestMemoryCacheTrimsWindow(t *testing.T) {
	mc := NewMemoryConversationCache()
	ctx := context.Background()
	callID := uuid.New()
	key := callID.String()

	for i := 0; i < maxConversationTurns+10; i++ {
		mc.Append(ctx, key, event(callID, "turn"))
	}

	events, ok := mc.Recent(ctx, key)
	if !ok {
		t.Fatal("expected hit")
	}
	if len(events) != maxConversationTurns {
		t.Errorf("window = %d, want %d", len(events), maxConversationTurns)
	}
}
