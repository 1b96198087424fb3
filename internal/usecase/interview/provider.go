package interview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avinci-labs/avinci/internal/domain/entities"
	usecaseErrors "github.com/avinci-labs/avinci/internal/usecase/errors"
	"github.com/avinci-labs/avinci/internal/usecase/speech"
	pkgai "github.com/avinci-labs/avinci/pkg/ai"
)

// Per-tier generation deadlines. A timeout is a provider failure like any
// other and advances the fallback tier.
const (
	groupOverlapTimeout = 6 * time.Second
	singleCallTimeout   = 5 * time.Second
)

// Chatter is the language-model capability the generator runs on.
type Chatter interface {
	Chat(ctx context.Context, messages []pkgai.ChatMessage, opts pkgai.ChatOptions) (string, error)
}

// Generator produces in-character replies for a turn. GroupOverlap asks the
// model to voice several participants in one call; Single voices exactly one.
type Generator interface {
	GroupOverlap(ctx context.Context, personas []*entities.Persona, history []*entities.CallEvent, moderatorText string) ([]entities.ResponseCandidate, error)
	Single(ctx context.Context, persona *entities.Persona, history []*entities.CallEvent, moderatorText string) (string, error)
}

type llmGenerator struct {
	llm Chatter
}

// NewGenerator constructs the model-backed response generator
func NewGenerator(llm Chatter) Generator {
	return &llmGenerator{llm: llm}
}

// overlapReply is the wire shape the group prompt asks the model for.
type overlapReply struct {
	Name     string `json:"name"`
	Response string `json:"response"`
}

// GroupOverlap voices the whole roster in one model call. Replies attributed
// to names outside the roster are dropped.
func (g *llmGenerator) GroupOverlap(ctx context.Context, personas []*entities.Persona, history []*entities.CallEvent, moderatorText string) ([]entities.ResponseCandidate, error) {
	ctx, cancel := context.WithTimeout(ctx, groupOverlapTimeout)
	defer cancel()

	messages := []pkgai.ChatMessage{
		{Role: "system", Content: buildGroupSystemPrompt(personas)},
		{Role: "user", Content: buildGroupUserPrompt(history, moderatorText)},
	}

	raw, err := g.llm.Chat(ctx, messages, pkgai.ChatOptions{Temperature: 0.8, MaxTokens: 800})
	if err != nil {
		return nil, usecaseErrors.NewProviderError("openai", err)
	}

	replies, err := parseOverlapReplies(raw)
	if err != nil {
		return nil, usecaseErrors.NewProviderError("openai", err)
	}

	byName := make(map[string]*entities.Persona, len(personas))
	for _, p := range personas {
		byName[strings.ToLower(p.Name)] = p
	}

	candidates := make([]entities.ResponseCandidate, 0, len(replies))
	for _, r := range replies {
		p, ok := byName[strings.ToLower(strings.TrimSpace(r.Name))]
		if !ok || strings.TrimSpace(r.Response) == "" {
			continue
		}
		candidates = append(candidates, entities.ResponseCandidate{
			AgentID:   p.ID,
			AgentName: p.Name,
			Text:      strings.TrimSpace(r.Response),
			Region:    speech.RegionFromLocation(p.Location),
		})
	}
	if len(candidates) == 0 {
		return nil, usecaseErrors.NewProviderError("openai", errors.New("no usable replies in group response"))
	}
	return candidates, nil
}

// Single voices one participant with their full master prompt and the recent
// conversation replayed as chat history.
func (g *llmGenerator) Single(ctx context.Context, persona *entities.Persona, history []*entities.CallEvent, moderatorText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, singleCallTimeout)
	defer cancel()

	messages := make([]pkgai.ChatMessage, 0, len(history)+2)
	messages = append(messages, pkgai.ChatMessage{Role: "system", Content: persona.MasterSystemPrompt})
	for _, ev := range history {
		role := "user"
		content := ev.Text
		if ev.Kind == entities.CallEventKindAgentResponse {
			role = "assistant"
			if ev.Speaker != persona.Name {
				// another participant's line, replayed as context
				role = "user"
				content = fmt.Sprintf("%s said: %s", ev.Speaker, ev.Text)
			}
		}
		messages = append(messages, pkgai.ChatMessage{Role: role, Content: content})
	}
	messages = append(messages, pkgai.ChatMessage{Role: "user", Content: moderatorText})

	reply, err := g.llm.Chat(ctx, messages, pkgai.ChatOptions{Temperature: 0.8, MaxTokens: 300})
	if err != nil {
		return "", usecaseErrors.NewProviderError("openai", err)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", usecaseErrors.NewProviderError("openai", errors.New("empty reply"))
	}
	return reply, nil
}

func buildGroupSystemPrompt(personas []*entities.Persona) string {
	var b strings.Builder
	b.WriteString("You are simulating a group of user research participants in a moderated session. Each participant is defined below. Voice only the participants who would naturally respond to the moderator's latest message.\n\n")
	for i, p := range personas {
		fmt.Fprintf(&b, "PARTICIPANT %d: %s\n%s\n\n", i+1, p.Name, p.MasterSystemPrompt)
	}
	b.WriteString(`Respond with a JSON array and nothing else. Each element: {"name": "<participant name>", "response": "<their reply>"}. Not every participant has to speak. Keep replies short and conversational.`)
	return b.String()
}

func buildGroupUserPrompt(history []*entities.CallEvent, moderatorText string) string {
	var b strings.Builder
	if len(history) > 0 {
		b.WriteString("CONVERSATION SO FAR:\n")
		for _, ev := range history {
			fmt.Fprintf(&b, "%s: %s\n", ev.Speaker, ev.Text)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "MODERATOR: %s", moderatorText)
	return b.String()
}

// parseOverlapReplies pulls the JSON array out of a reply that may be fenced
// or wrapped in prose.
func parseOverlapReplies(raw string) ([]overlapReply, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end <= start {
		return nil, errors.New("no JSON array in reply")
	}

	var replies []overlapReply
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &replies); err != nil {
		return nil, fmt.Errorf("malformed group reply: %w", err)
	}
	return replies, nil
}
