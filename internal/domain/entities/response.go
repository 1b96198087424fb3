package entities

import "github.com/google/uuid"

// ResponseCandidate is one in-character reply produced by the generation
// pipeline for a single turn. Candidates are ephemeral: the winning subset is
// delivered and appended to the call log as turns, the candidates themselves
// are never persisted.
type ResponseCandidate struct {
	AgentID   uuid.UUID `json:"agentId"`
	AgentName string    `json:"agentName"`
	Text      string    `json:"responseText"`
	Region    string    `json:"region"`
	AudioURL  *string   `json:"audioUrl,omitempty"`
}

// AnalysisResult holds the behavioral signals extracted from a research
// transcript before they are merged with demographics into a Persona. Every
// enumerated field is guaranteed to be within its declared domain.
type AnalysisResult struct {
	SpeechPatterns    SpeechPatterns    `json:"speech_patterns"`
	VocabularyProfile VocabularyProfile `json:"vocabulary_profile"`
	EmotionalProfile  EmotionalProfile  `json:"emotional_profile"`
	CognitiveProfile  CognitiveProfile  `json:"cognitive_profile"`
	KnowledgeBounds   KnowledgeBounds   `json:"knowledge_bounds"`
	Objectives        []string          `json:"objectives"`
	Needs             []string          `json:"needs"`
	Apprehensions     []string          `json:"apprehensions"`
	Motivations       []string          `json:"motivations"`
	Frustrations      []string          `json:"frustrations"`
	RealQuotes        []string          `json:"real_quotes"`
}

// Demographics is the manually supplied identity half of a compiled persona.
type Demographics struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	Location   string `json:"location"`
	Occupation string `json:"occupation"`
}
