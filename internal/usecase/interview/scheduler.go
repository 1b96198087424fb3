package interview

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avinci-labs/avinci/internal/domain/entities"
	"github.com/avinci-labs/avinci/internal/domain/repositories"
	"github.com/avinci-labs/avinci/internal/infrastructure/cache"
	"github.com/avinci-labs/avinci/internal/infrastructure/realtime"
)

// Stagger bounds in milliseconds. One base gap is drawn per turn and shared
// by every response in it; each response then gets its own speak delay
// between the typing signal and the reply itself.
const (
	baseGapMinMs    = 400
	baseGapSpreadMs = 300
	speakMinMs      = 200
	speakSpreadMs   = 200
)

// DeliverySlot is the planned timing for one response within a turn.
type DeliverySlot struct {
	TypingAt   time.Duration
	ResponseAt time.Duration
}

// PlanDelivery computes the stagger for n responses. Slots are strictly
// ordered: the i-th typing signal fires at i*baseGap and its response follows
// after that slot's speak delay. Pure given the injected source.
func PlanDelivery(n int, rng *rand.Rand) []DeliverySlot {
	if n <= 0 {
		return nil
	}

	baseGap := time.Duration(baseGapMinMs+rng.Intn(baseGapSpreadMs)) * time.Millisecond
	slots := make([]DeliverySlot, n)
	for i := range slots {
		speakDelay := time.Duration(speakMinMs+rng.Intn(speakSpreadMs)) * time.Millisecond
		slots[i] = DeliverySlot{
			TypingAt:   time.Duration(i) * baseGap,
			ResponseAt: time.Duration(i)*baseGap + speakDelay,
		}
	}
	return slots
}

// Scheduler delivers a turn's responses on their planned stagger: a typing
// signal, then the response event, persisted to the call log as it goes out.
// Timers are fire and forget; ending the call does not cancel them.
type Scheduler struct {
	callRepo repositories.CallRepository
	convs    cache.ConversationCache
	hub      *realtime.Hub
	logger   *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewScheduler constructs the delivery scheduler
func NewScheduler(callRepo repositories.CallRepository, convs cache.ConversationCache, hub *realtime.Hub, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		callRepo: callRepo,
		convs:    convs,
		hub:      hub,
		logger:   logger,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Schedule plans and arms the delivery of candidates for one turn. It returns
// immediately; delivery runs on timers in the background.
func (s *Scheduler) Schedule(callID uuid.UUID, candidates []entities.ResponseCandidate) []DeliverySlot {
	s.mu.Lock()
	slots := PlanDelivery(len(candidates), s.rng)
	s.mu.Unlock()

	room := callID.String()
	for i, c := range candidates {
		candidate := c
		slot := slots[i]

		time.AfterFunc(slot.TypingAt, func() {
			s.hub.Broadcast(room, realtime.EventAgentTyping, realtime.TypingEvent{
				CallID:    room,
				AgentName: candidate.AgentName,
				IsTyping:  true,
			})
		})
		time.AfterFunc(slot.ResponseAt, func() {
			s.deliver(callID, candidate)
		})
	}
	return slots
}

func (s *Scheduler) deliver(callID uuid.UUID, c entities.ResponseCandidate) {
	room := callID.String()
	s.hub.Broadcast(room, realtime.EventAgentTyping, realtime.TypingEvent{
		CallID:    room,
		AgentName: c.AgentName,
		IsTyping:  false,
	})
	s.hub.Broadcast(room, realtime.EventAgentResponse, realtime.ResponseEvent{
		CallID:       room,
		AgentName:    c.AgentName,
		ResponseText: c.Text,
		AudioURL:     c.AudioURL,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Region:       c.Region,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := entities.NewCallEvent(callID, c.AgentName, entities.CallEventKindAgentResponse, c.Text, c.AudioURL)
	if err := s.callRepo.AppendEvent(ctx, event); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to persist delivered response",
				zap.String("call_id", room),
				zap.String("agent", c.AgentName),
				zap.Error(err),
			)
		}
		return
	}
	if s.convs != nil {
		s.convs.Append(ctx, room, event)
	}
}
