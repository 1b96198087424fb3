package compiler

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/avinci-labs/avinci/internal/domain/entities"
	usecaseErrors "github.com/avinci-labs/avinci/internal/usecase/errors"
)

const analysisSystemPrompt = `You are an expert user researcher analyzing interview transcripts. You extract behavioral signals that make a simulated participant indistinguishable from the real person. Respond with a single JSON object and nothing else.`

func buildAnalysisPrompt(transcript, demographicsJSON string) string {
	var b strings.Builder

	b.WriteString("Analyze this user research transcript and extract the participant's behavioral profile.\n\n")
	b.WriteString("PARTICIPANT DEMOGRAPHICS:\n")
	b.WriteString(demographicsJSON)
	b.WriteString("\n\nTRANSCRIPT:\n")
	b.WriteString(transcript)
	b.WriteString(`

Return a JSON object with exactly these fields:
{
  "speech_patterns": {
    "sentence_length": "short|medium|long",
    "formality": 1-10,
    "filler_words": ["..."],
    "common_phrases": ["..."],
    "self_corrections": "never|rare|occasional|frequent",
    "question_style": "direct|indirect|clarifying"
  },
  "vocabulary_profile": {
    "complexity": 1-10,
    "avoided_words": ["..."],
    "common_words": ["..."]
  },
  "emotional_profile": {
    "baseline": "neutral|positive|negative|anxious|enthusiastic",
    "frustration_triggers": ["..."],
    "excitement_triggers": ["..."]
  },
  "cognitive_profile": {
    "comprehension_speed": "slow|medium|fast",
    "patience": 1-10
  },
  "knowledge_bounds": {
    "confident": ["..."],
    "partial": ["..."],
    "unknown": ["..."]
  },
  "objectives": ["..."],
  "needs": ["..."],
  "apprehensions": ["..."],
  "motivations": ["..."],
  "frustrations": ["..."],
  "real_quotes": ["verbatim sentences from the transcript"]
}

Base every field on evidence from the transcript. Use empty arrays where the transcript gives no signal.`)

	return b.String()
}

// parseAnalysis pulls the JSON object out of a model reply that may be
// wrapped in markdown fences or surrounding prose.
func parseAnalysis(raw string) (*entities.AnalysisResult, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, &usecaseErrors.ExtractionError{Err: errors.New("no JSON object in reply")}
	}

	var analysis entities.AnalysisResult
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, &usecaseErrors.ExtractionError{Err: err}
	}
	return &analysis, nil
}

// extractJSON strips markdown code fences and isolates the outermost object.
func extractJSON(raw string) string {
	cleaned := strings.TrimSpace(raw)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return cleaned[start : end+1]
}

// normalizeAnalysis clamps enumerated and numeric fields into domain and
// replaces nil arrays with empty ones. Out-of-range provider output degrades
// to defaults instead of failing the compile.
func normalizeAnalysis(a *entities.AnalysisResult) {
	a.SpeechPatterns.SentenceLength = pickEnum(a.SpeechPatterns.SentenceLength, "medium", "short", "medium", "long")
	a.SpeechPatterns.Formality = clampScale(a.SpeechPatterns.Formality, 5)
	a.SpeechPatterns.SelfCorrections = pickEnum(a.SpeechPatterns.SelfCorrections, "occasional", "never", "rare", "occasional", "frequent")
	a.SpeechPatterns.QuestionStyle = pickEnum(a.SpeechPatterns.QuestionStyle, "direct", "direct", "indirect", "clarifying")
	a.SpeechPatterns.FillerWords = orEmpty(a.SpeechPatterns.FillerWords)
	a.SpeechPatterns.CommonPhrases = orEmpty(a.SpeechPatterns.CommonPhrases)

	a.VocabularyProfile.Complexity = clampScale(a.VocabularyProfile.Complexity, 5)
	a.VocabularyProfile.AvoidedWords = orEmpty(a.VocabularyProfile.AvoidedWords)
	a.VocabularyProfile.CommonWords = orEmpty(a.VocabularyProfile.CommonWords)

	a.EmotionalProfile.Baseline = pickEnum(a.EmotionalProfile.Baseline, "neutral", "neutral", "positive", "negative", "anxious", "enthusiastic")
	a.EmotionalProfile.FrustrationTriggers = orEmpty(a.EmotionalProfile.FrustrationTriggers)
	a.EmotionalProfile.ExcitementTriggers = orEmpty(a.EmotionalProfile.ExcitementTriggers)

	a.CognitiveProfile.ComprehensionSpeed = pickEnum(a.CognitiveProfile.ComprehensionSpeed, "medium", "slow", "medium", "fast")
	a.CognitiveProfile.Patience = clampScale(a.CognitiveProfile.Patience, 5)

	a.KnowledgeBounds.Confident = orEmpty(a.KnowledgeBounds.Confident)
	a.KnowledgeBounds.Partial = orEmpty(a.KnowledgeBounds.Partial)
	a.KnowledgeBounds.Unknown = orEmpty(a.KnowledgeBounds.Unknown)

	a.Objectives = orEmpty(a.Objectives)
	a.Needs = orEmpty(a.Needs)
	a.Apprehensions = orEmpty(a.Apprehensions)
	a.Motivations = orEmpty(a.Motivations)
	a.Frustrations = orEmpty(a.Frustrations)
	a.RealQuotes = orEmpty(a.RealQuotes)
}

func pickEnum(value, fallback string, allowed ...string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	for _, a := range allowed {
		if value == a {
			return value
		}
	}
	return fallback
}

// clampScale forces a 1–10 rating into range; zero means the field was
// missing and takes the default.
func clampScale(v, def int) int {
	if v == 0 {
		return def
	}
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
