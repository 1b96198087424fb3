package compiler

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/avinci-labs/avinci/internal/domain/entities"
	"github.com/avinci-labs/avinci/internal/domain/repositories"
	usecaseErrors "github.com/avinci-labs/avinci/internal/usecase/errors"
	pkgai "github.com/avinci-labs/avinci/pkg/ai"
)

// MinTranscriptLength is the minimum accepted research transcript size.
const MinTranscriptLength = 50

const maxAnalyzeAttempts = 3

// Chatter is the language-model capability the compiler extracts behavioral
// signals with. Satisfied by pkg/ai.OpenAIClient, faked in tests.
type Chatter interface {
	Chat(ctx context.Context, messages []pkgai.ChatMessage, opts pkgai.ChatOptions) (string, error)
}

// Service turns raw research transcripts into reusable synthetic-participant
// identities and manages the persona lifecycle.
type Service interface {
	Analyze(ctx context.Context, transcript string, demographics entities.Demographics) (*entities.AnalysisResult, error)
	Compile(ctx context.Context, transcript string, demographics entities.Demographics) (*entities.Persona, error)
	Get(ctx context.Context, id uuid.UUID) (*entities.Persona, error)
	List(ctx context.Context, includeArchived bool) ([]*entities.Persona, error)
	Archive(ctx context.Context, id uuid.UUID) (*entities.Persona, error)
}

type compilerService struct {
	llm         Chatter
	personaRepo repositories.PersonaRepository
	logger      *zap.Logger
}

// NewService constructs the persona compiler service
func NewService(llm Chatter, personaRepo repositories.PersonaRepository, logger *zap.Logger) Service {
	return &compilerService{
		llm:         llm,
		personaRepo: personaRepo,
		logger:      logger,
	}
}

// Analyze extracts structured behavioral signals from a research transcript.
// Undersized input is rejected up front; provider noise in enumerated fields
// is clamped into domain rather than rejected.
func (s *compilerService) Analyze(ctx context.Context, transcript string, demographics entities.Demographics) (*entities.AnalysisResult, error) {
	transcript = strings.TrimSpace(transcript)
	if utf8.RuneCountInString(transcript) < MinTranscriptLength {
		return nil, usecaseErrors.NewValidationError("Transcript is too short (minimum 50 characters)")
	}

	demographicsJSON, err := json.MarshalIndent(demographics, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode demographics: %w", err)
	}

	messages := []pkgai.ChatMessage{
		{Role: "system", Content: analysisSystemPrompt},
		{Role: "user", Content: buildAnalysisPrompt(transcript, string(demographicsJSON))},
	}

	var raw string
	chatFn := func() error {
		var chatErr error
		raw, chatErr = s.llm.Chat(ctx, messages, pkgai.ChatOptions{Temperature: 0.2, MaxTokens: 1200})
		return chatErr
	}
	if err := backoff.Retry(chatFn, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAnalyzeAttempts-1), ctx)); err != nil {
		return nil, usecaseErrors.NewProviderError("openai", err)
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("transcript analysis returned unparseable reply", zap.Error(err))
		}
		return nil, err
	}

	normalizeAnalysis(analysis)
	return analysis, nil
}

// Compile runs the full transcript → persona path and persists the result.
func (s *compilerService) Compile(ctx context.Context, transcript string, demographics entities.Demographics) (*entities.Persona, error) {
	analysis, err := s.Analyze(ctx, transcript, demographics)
	if err != nil {
		return nil, err
	}

	persona := Synthesize(analysis, demographics)
	persona.MasterSystemPrompt = BuildMasterPrompt(persona)

	if err := s.personaRepo.Create(ctx, persona); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("persona compiled",
			zap.String("persona_id", persona.ID.String()),
			zap.String("name", persona.Name),
		)
	}
	return persona, nil
}

// Get returns a persona by id
func (s *compilerService) Get(ctx context.Context, id uuid.UUID) (*entities.Persona, error) {
	return s.personaRepo.FindByID(ctx, id)
}

// List returns personas
func (s *compilerService) List(ctx context.Context, includeArchived bool) ([]*entities.Persona, error) {
	return s.personaRepo.List(ctx, includeArchived)
}

// Archive retires a persona from new calls. The master prompt is regenerated
// on save like any other persona change.
func (s *compilerService) Archive(ctx context.Context, id uuid.UUID) (*entities.Persona, error) {
	persona, err := s.personaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	persona.Archive()
	persona.MasterSystemPrompt = BuildMasterPrompt(persona)
	if err := s.personaRepo.Update(ctx, persona); err != nil {
		return nil, err
	}
	return persona, nil
}

// Synthesize merges analysis and demographics into a persona. It is total:
// every field has a defined default, so it cannot fail.
func Synthesize(analysis *entities.AnalysisResult, demographics entities.Demographics) *entities.Persona {
	name := demographics.Name
	if name == "" {
		name = "Anonymous Participant"
	}
	age := demographics.Age
	if age == 0 {
		age = 30
	}

	persona := &entities.Persona{
		ID:         uuid.New(),
		Name:       name,
		Age:        age,
		Gender:     demographics.Gender,
		Location:   demographics.Location,
		Occupation: demographics.Occupation,

		SpeechPatterns:    datatypes.NewJSONType(analysis.SpeechPatterns),
		VocabularyProfile: datatypes.NewJSONType(analysis.VocabularyProfile),
		EmotionalProfile:  datatypes.NewJSONType(analysis.EmotionalProfile),
		CognitiveProfile:  datatypes.NewJSONType(analysis.CognitiveProfile),
		KnowledgeBounds:   datatypes.NewJSONType(analysis.KnowledgeBounds),

		Traits:        datatypes.NewJSONSlice(extractTraits(analysis)),
		Objectives:    datatypes.NewJSONSlice(orEmpty(analysis.Objectives)),
		Needs:         datatypes.NewJSONSlice(orEmpty(analysis.Needs)),
		Fears:         datatypes.NewJSONSlice(extractFears(analysis)),
		Apprehensions: datatypes.NewJSONSlice(orEmpty(analysis.Apprehensions)),
		Motivations:   datatypes.NewJSONSlice(orEmpty(analysis.Motivations)),
		Frustrations:  datatypes.NewJSONSlice(orEmpty(analysis.Frustrations)),
		RealQuotes:    datatypes.NewJSONSlice(orEmpty(analysis.RealQuotes)),

		Status: entities.PersonaStatusActive,
	}

	if len(analysis.RealQuotes) > 0 {
		quote := analysis.RealQuotes[0]
		persona.Quote = &quote
	}

	return persona
}

// extractTraits derives display traits from the behavioral signals.
func extractTraits(analysis *entities.AnalysisResult) []string {
	traits := []string{}

	if analysis.SpeechPatterns.Formality >= 7 {
		traits = append(traits, "Formal")
	}
	if analysis.SpeechPatterns.Formality <= 3 {
		traits = append(traits, "Casual")
	}
	if analysis.SpeechPatterns.QuestionStyle == "clarifying" {
		traits = append(traits, "Inquisitive")
	}
	if analysis.SpeechPatterns.SelfCorrections == "frequent" {
		traits = append(traits, "Thoughtful")
	}
	if analysis.EmotionalProfile.Baseline == "enthusiastic" {
		traits = append(traits, "Enthusiastic")
	}
	if analysis.EmotionalProfile.Baseline == "anxious" {
		traits = append(traits, "Cautious")
	}
	if len(analysis.EmotionalProfile.FrustrationTriggers) > 0 {
		traits = append(traits, "Detail-oriented")
	}
	if analysis.CognitiveProfile.ComprehensionSpeed == "fast" {
		traits = append(traits, "Quick learner")
	}
	if analysis.CognitiveProfile.Patience >= 7 {
		traits = append(traits, "Patient")
	}
	if analysis.CognitiveProfile.Patience <= 3 {
		traits = append(traits, "Efficient")
	}

	if len(traits) == 0 {
		traits = append(traits, "Adaptable")
	}
	return traits
}

// extractFears converts apprehensions and knowledge gaps into fears.
func extractFears(analysis *entities.AnalysisResult) []string {
	fears := []string{}
	fears = append(fears, analysis.Apprehensions...)

	if len(analysis.KnowledgeBounds.Unknown) > 0 {
		fears = append(fears, "Feeling lost with complex topics")
	}
	if len(analysis.EmotionalProfile.FrustrationTriggers) > 0 {
		fears = append(fears, "Making mistakes")
	}

	if len(fears) == 0 {
		fears = append(fears, "Uncertainty")
	}
	return fears
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
