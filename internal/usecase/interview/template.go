package interview

import (
	"fmt"
	"strings"

	"github.com/avinci-labs/avinci/internal/domain/entities"
	"github.com/avinci-labs/avinci/internal/usecase/speech"
)

// LocalTemplates is the last fallback tier. It runs entirely in-process and
// cannot fail: every persona gets a canned, name-parameterized reply matched
// against the moderator's text.
func LocalTemplates(personas []*entities.Persona, moderatorText string) []entities.ResponseCandidate {
	candidates := make([]entities.ResponseCandidate, 0, len(personas))
	for _, p := range personas {
		candidates = append(candidates, entities.ResponseCandidate{
			AgentID:   p.ID,
			AgentName: p.Name,
			Text:      templateReply(p.Name, moderatorText),
			Region:    speech.RegionFromLocation(p.Location),
		})
	}
	return candidates
}

func templateReply(name, moderatorText string) string {
	text := strings.ToLower(moderatorText)

	switch {
	case strings.Contains(text, "hello") || strings.Contains(text, "hi "), strings.HasSuffix(text, "hi"):
		return fmt.Sprintf("Hi, I'm %s. Nice to meet you!", name)
	case strings.Contains(text, "how are you"):
		return "I'm doing well, thanks for asking. Ready to share my thoughts."
	case strings.Contains(text, "thank"):
		return "You're welcome! Happy to help."
	case strings.Contains(text, "bye") || strings.Contains(text, "goodbye"):
		return "Thanks for the session, it was good talking to you. Bye!"
	case strings.Contains(text, "what"):
		return "Hmm, let me think about that for a second... could you say a bit more about what you mean?"
	default:
		return fmt.Sprintf("That's interesting. When you say \"%s\", I'd want to know a little more before I answer properly.", strings.TrimSpace(moderatorText))
	}
}
