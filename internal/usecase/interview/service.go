package interview

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/avinci-labs/avinci/internal/domain/entities"
	"github.com/avinci-labs/avinci/internal/domain/repositories"
	"github.com/avinci-labs/avinci/internal/infrastructure/cache"
	usecaseErrors "github.com/avinci-labs/avinci/internal/usecase/errors"
	"github.com/avinci-labs/avinci/internal/usecase/speech"
)

// fallbackTranscript stands in when speech-to-text fails on a voice turn.
// The turn still flows through the pipeline so the session keeps moving.
const fallbackTranscript = "Hello"

// historyWindow bounds the generation context; recentEventsLimit bounds what
// GetCall returns to clients.
const (
	historyWindow     = 50
	recentEventsLimit = 100
)

// Transcriber converts recorded moderator audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (string, error)
}

// TurnResult is the synchronous reply to a submitted turn. The first response
// is returned inline; the rest arrive over the realtime channel on their
// planned stagger.
type TurnResult struct {
	Transcript string                      `json:"transcript"`
	First      *entities.ResponseCandidate `json:"first,omitempty"`
	Planned    int                         `json:"planned"`
}

// CallDetail is a call with its recent turn history.
type CallDetail struct {
	Call   *entities.Call        `json:"call"`
	Events []*entities.CallEvent `json:"events"`
}

// Service orchestrates call sessions end to end: roster validation, turn
// intake, response generation, speech synthesis and staggered delivery.
type Service interface {
	CreateCall(ctx context.Context, participantIDs []uuid.UUID, topic string, callType entities.CallType) (*entities.Call, error)
	SubmitTurn(ctx context.Context, callID uuid.UUID, text string, audio []byte) (*TurnResult, error)
	EndCall(ctx context.Context, callID uuid.UUID) (*entities.Call, error)
	GetCall(ctx context.Context, callID uuid.UUID) (*CallDetail, error)
}

type interviewService struct {
	callRepo    repositories.CallRepository
	personaRepo repositories.PersonaRepository
	pipeline    *Pipeline
	synthesizer *speech.Synthesizer
	scheduler   *Scheduler
	transcriber Transcriber
	convs       cache.ConversationCache
	logger      *zap.Logger

	// serializes concurrent turns per call
	turnMu   sync.Mutex
	turnLock map[uuid.UUID]*sync.Mutex
}

// NewService constructs the interview orchestration service
func NewService(
	callRepo repositories.CallRepository,
	personaRepo repositories.PersonaRepository,
	pipeline *Pipeline,
	synthesizer *speech.Synthesizer,
	scheduler *Scheduler,
	transcriber Transcriber,
	convs cache.ConversationCache,
	logger *zap.Logger,
) Service {
	return &interviewService{
		callRepo:    callRepo,
		personaRepo: personaRepo,
		pipeline:    pipeline,
		synthesizer: synthesizer,
		scheduler:   scheduler,
		transcriber: transcriber,
		convs:       convs,
		logger:      logger,
		turnLock:    map[uuid.UUID]*sync.Mutex{},
	}
}

// CreateCall opens a session after checking the roster: size must match the
// call type and every participant must be an active persona.
func (s *interviewService) CreateCall(ctx context.Context, participantIDs []uuid.UUID, topic string, callType entities.CallType) (*entities.Call, error) {
	call := entities.NewCall(participantIDs, topic, callType)
	if err := call.ValidateRoster(); err != nil {
		return nil, err
	}

	personas, err := s.personaRepo.FindByIDs(ctx, participantIDs)
	if err != nil {
		return nil, err
	}
	if len(personas) != len(participantIDs) {
		return nil, entities.ErrPersonaNotFound
	}
	for _, p := range personas {
		if !p.IsActive() {
			return nil, entities.ErrPersonaArchived
		}
	}

	if err := s.callRepo.CreateCall(ctx, call); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("call created",
			zap.String("call_id", call.ID.String()),
			zap.String("type", string(call.Type)),
			zap.Int("roster", len(participantIDs)),
		)
	}
	return call, nil
}

// SubmitTurn accepts one moderator turn, text or audio, and resolves it into
// staggered persona responses. The first response is returned synchronously.
// Turns on the same call are serialized; different calls proceed in parallel.
func (s *interviewService) SubmitTurn(ctx context.Context, callID uuid.UUID, text string, audio []byte) (*TurnResult, error) {
	lock := s.lockFor(callID)
	lock.Lock()
	defer lock.Unlock()

	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	if !call.IsOpen() {
		return nil, entities.ErrCallClosed
	}

	transcript := strings.TrimSpace(text)
	if transcript == "" && len(audio) > 0 {
		transcript = s.transcribe(ctx, callID, audio)
	}
	if transcript == "" {
		return nil, usecaseErrors.NewValidationError("turn requires text or audio")
	}

	personas, err := s.personaRepo.FindByIDs(ctx, call.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	history := s.recentHistory(ctx, callID)

	humanEvent := entities.NewCallEvent(callID, entities.ModeratorSpeaker, entities.CallEventKindHumanInput, transcript, nil)
	if err := s.callRepo.AppendEvent(ctx, humanEvent); err != nil {
		return nil, err
	}
	if s.convs != nil {
		s.convs.Append(ctx, callID.String(), humanEvent)
	}

	candidates := s.pipeline.Respond(ctx, callID.String(), personas, history, transcript)
	if len(candidates) == 0 {
		// only possible when the roster resolved to zero personas
		return nil, usecaseErrors.ExhaustedFallbackError
	}

	byID := make(map[uuid.UUID]*entities.Persona, len(personas))
	for _, p := range personas {
		byID[p.ID] = p
	}
	for i := range candidates {
		gender := ""
		if p, ok := byID[candidates[i].AgentID]; ok {
			gender = p.Gender
		}
		candidates[i].AudioURL = s.synthesizer.Synthesize(ctx, callID, candidates[i].AgentName, candidates[i].Text, candidates[i].Region, gender)
	}

	s.scheduler.Schedule(callID, candidates)

	result := &TurnResult{Transcript: transcript, Planned: len(candidates)}
	if len(candidates) > 0 {
		first := candidates[0]
		result.First = &first
	}
	return result, nil
}

// EndCall closes the call. Responses already scheduled keep their timers and
// still deliver after the close.
func (s *interviewService) EndCall(ctx context.Context, callID uuid.UUID) (*entities.Call, error) {
	if err := s.callRepo.EndCall(ctx, callID); err != nil {
		return nil, err
	}
	if s.convs != nil {
		s.convs.Drop(ctx, callID.String())
	}
	return s.callRepo.FindByID(ctx, callID)
}

// GetCall returns the call with its recent turn history, oldest first.
func (s *interviewService) GetCall(ctx context.Context, callID uuid.UUID) (*CallDetail, error) {
	call, err := s.callRepo.FindByID(ctx, callID)
	if err != nil {
		return nil, err
	}
	events, err := s.callRepo.GetRecentEvents(ctx, callID, recentEventsLimit)
	if err != nil {
		return nil, err
	}
	return &CallDetail{Call: call, Events: events}, nil
}

func (s *interviewService) transcribe(ctx context.Context, callID uuid.UUID, audio []byte) string {
	if s.transcriber == nil {
		return fallbackTranscript
	}
	transcript, err := s.transcriber.Transcribe(ctx, audio, "en")
	if err != nil || strings.TrimSpace(transcript) == "" {
		if s.logger != nil {
			s.logger.Warn("transcription failed, using fallback",
				zap.String("call_id", callID.String()),
				zap.Error(err),
			)
		}
		return fallbackTranscript
	}
	return strings.TrimSpace(transcript)
}

// recentHistory serves the pipeline's context window from cache when warm,
// falling back to the durable event log.
func (s *interviewService) recentHistory(ctx context.Context, callID uuid.UUID) []*entities.CallEvent {
	if s.convs != nil {
		if events, ok := s.convs.Recent(ctx, callID.String()); ok {
			return events
		}
	}

	events, err := s.callRepo.GetRecentEvents(ctx, callID, historyWindow)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("failed to load call history", zap.String("call_id", callID.String()), zap.Error(err))
		}
		return nil
	}
	if s.convs != nil && len(events) > 0 {
		s.convs.Append(ctx, callID.String(), events...)
	}
	return events
}

func (s *interviewService) lockFor(callID uuid.UUID) *sync.Mutex {
	s.turnMu.Lock()
	defer s.turnMu.Unlock()
	lock, ok := s.turnLock[callID]
	if !ok {
		lock = &sync.Mutex{}
		s.turnLock[callID] = lock
	}
	return lock
}
