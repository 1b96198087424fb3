package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// PersonaStatus tracks the persona lifecycle. Personas are archived, never deleted.
type PersonaStatus string

const (
	PersonaStatusActive   PersonaStatus = "active"
	PersonaStatusArchived PersonaStatus = "archived"
)

// SpeechPatterns captures how a participant actually talks in research sessions.
type SpeechPatterns struct {
	SentenceLength  string   `json:"sentence_length"` // short|medium|long
	Formality       int      `json:"formality"`       // 1-10
	FillerWords     []string `json:"filler_words"`
	CommonPhrases   []string `json:"common_phrases"`
	SelfCorrections string   `json:"self_corrections"` // never|rare|occasional|frequent
	QuestionStyle   string   `json:"question_style"`   // direct|indirect|clarifying
}

// VocabularyProfile bounds the language a persona is allowed to produce.
type VocabularyProfile struct {
	Complexity   int      `json:"complexity"` // 1-10
	AvoidedWords []string `json:"avoided_words"`
	CommonWords  []string `json:"common_words"`
}

// EmotionalProfile describes baseline mood and what moves it.
type EmotionalProfile struct {
	Baseline            string   `json:"baseline"` // positive|neutral|negative|anxious|enthusiastic
	FrustrationTriggers []string `json:"frustration_triggers"`
	ExcitementTriggers  []string `json:"excitement_triggers"`
}

// CognitiveProfile describes how quickly the persona processes questions.
type CognitiveProfile struct {
	ComprehensionSpeed string `json:"comprehension_speed"` // slow|medium|fast
	Patience           int    `json:"patience"`            // 1-10
}

// KnowledgeBounds partitions topics by the persona's confidence in them.
type KnowledgeBounds struct {
	Confident []string `json:"confident"`
	Partial   []string `json:"partial"`
	Unknown   []string `json:"unknown"`
}

// Persona is a structured, AI-drivable profile representing one synthetic
// research participant. MasterSystemPrompt is derived from every other field
// and regenerated whenever the persona changes; it is never hand-edited.
type Persona struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name       string    `json:"name" gorm:"type:varchar(255);not null"`
	Age        int       `json:"age" gorm:"not null;default:30"`
	Gender     string    `json:"gender" gorm:"type:varchar(50)"`
	Location   string    `json:"location" gorm:"type:varchar(255)"`
	Occupation string    `json:"occupation" gorm:"type:varchar(255)"`

	SpeechPatterns    datatypes.JSONType[SpeechPatterns]    `json:"speech_patterns" gorm:"type:jsonb"`
	VocabularyProfile datatypes.JSONType[VocabularyProfile] `json:"vocabulary_profile" gorm:"type:jsonb"`
	EmotionalProfile  datatypes.JSONType[EmotionalProfile]  `json:"emotional_profile" gorm:"type:jsonb"`
	CognitiveProfile  datatypes.JSONType[CognitiveProfile]  `json:"cognitive_profile" gorm:"type:jsonb"`
	KnowledgeBounds   datatypes.JSONType[KnowledgeBounds]   `json:"knowledge_bounds" gorm:"type:jsonb"`

	Traits        datatypes.JSONSlice[string] `json:"traits" gorm:"type:jsonb"`
	Objectives    datatypes.JSONSlice[string] `json:"objectives" gorm:"type:jsonb"`
	Needs         datatypes.JSONSlice[string] `json:"needs" gorm:"type:jsonb"`
	Fears         datatypes.JSONSlice[string] `json:"fears" gorm:"type:jsonb"`
	Apprehensions datatypes.JSONSlice[string] `json:"apprehensions" gorm:"type:jsonb"`
	Motivations   datatypes.JSONSlice[string] `json:"motivations" gorm:"type:jsonb"`
	Frustrations  datatypes.JSONSlice[string] `json:"frustrations" gorm:"type:jsonb"`
	RealQuotes    datatypes.JSONSlice[string] `json:"real_quotes" gorm:"type:jsonb"`
	Quote         *string                     `json:"quote,omitempty" gorm:"type:text"`

	MasterSystemPrompt string        `json:"master_system_prompt" gorm:"type:text;not null"`
	Status             PersonaStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	CreatedAt          time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Persona) TableName() string {
	return "personas"
}

// IsActive reports whether the persona can still join new calls.
func (p *Persona) IsActive() bool {
	return p.Status == PersonaStatusActive
}

// Archive retires the persona from new calls without deleting history.
func (p *Persona) Archive() {
	p.Status = PersonaStatusArchived
}
