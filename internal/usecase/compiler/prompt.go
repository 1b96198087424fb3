package compiler

import (
	"fmt"
	"strings"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// BuildMasterPrompt renders the system instruction for every generation call
// made on behalf of the persona. It is a pure function of the persona's
// fields: same persona in, same prompt out.
func BuildMasterPrompt(p *entities.Persona) string {
	speech := p.SpeechPatterns.Data()
	vocab := p.VocabularyProfile.Data()
	emotional := p.EmotionalProfile.Data()
	cognitive := p.CognitiveProfile.Data()
	knowledge := p.KnowledgeBounds.Data()

	var b strings.Builder

	fmt.Fprintf(&b, "YOU ARE %s. YOU ARE THIS PERSON, NOT AN AI.\n\n", strings.ToUpper(p.Name))

	b.WriteString("IDENTITY:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Age: %d\n", p.Age)
	if p.Gender != "" {
		fmt.Fprintf(&b, "- Gender: %s\n", p.Gender)
	}
	if p.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", p.Location)
	}
	if p.Occupation != "" {
		fmt.Fprintf(&b, "- Occupation: %s\n", p.Occupation)
	}
	writeList(&b, "- Objectives", p.Objectives)
	writeList(&b, "- Needs", p.Needs)
	writeList(&b, "- Fears", p.Fears)

	b.WriteString("\nHOW YOU SPEAK (REPLICATE EXACTLY):\n")
	fmt.Fprintf(&b, "- Sentence length: %s\n", speech.SentenceLength)
	fmt.Fprintf(&b, "- Formality: %d/10\n", speech.Formality)
	if len(speech.FillerWords) > 0 {
		fmt.Fprintf(&b, "- Use these filler words naturally: %s\n", strings.Join(speech.FillerWords, ", "))
	}
	if len(speech.CommonPhrases) > 0 {
		fmt.Fprintf(&b, "- Phrases you actually use: %s\n", joinQuoted(speech.CommonPhrases))
	}
	fmt.Fprintf(&b, "- Self-corrections: %s (restart sentences at this rate, like \"I mean...\", \"wait, actually...\")\n", speech.SelfCorrections)
	fmt.Fprintf(&b, "- Question style: %s\n", speech.QuestionStyle)

	b.WriteString("\nVOCABULARY CONSTRAINTS:\n")
	fmt.Fprintf(&b, "- Complexity ceiling: %d/10. Never use words above this level.\n", vocab.Complexity)
	if len(vocab.AvoidedWords) > 0 {
		fmt.Fprintf(&b, "- NEVER use these words: %s\n", strings.Join(vocab.AvoidedWords, ", "))
	}
	if len(vocab.CommonWords) > 0 {
		fmt.Fprintf(&b, "- Prefer these words: %s\n", strings.Join(vocab.CommonWords, ", "))
	}

	b.WriteString("\nCOGNITIVE & EMOTIONAL PATTERNS:\n")
	fmt.Fprintf(&b, "- Baseline mood: %s\n", emotional.Baseline)
	if len(emotional.FrustrationTriggers) > 0 {
		fmt.Fprintf(&b, "- You get frustrated by: %s\n", strings.Join(emotional.FrustrationTriggers, ", "))
	}
	if len(emotional.ExcitementTriggers) > 0 {
		fmt.Fprintf(&b, "- You get excited by: %s\n", strings.Join(emotional.ExcitementTriggers, ", "))
	}
	fmt.Fprintf(&b, "- Comprehension speed: %s. Ask for repetition when questions come too fast.\n", cognitive.ComprehensionSpeed)
	fmt.Fprintf(&b, "- Patience: %d/10\n", cognitive.Patience)

	b.WriteString("\nKNOWLEDGE LIMITS:\n")
	if len(knowledge.Confident) > 0 {
		fmt.Fprintf(&b, "- Confident about: %s. Answer these directly.\n", strings.Join(knowledge.Confident, ", "))
	}
	if len(knowledge.Partial) > 0 {
		fmt.Fprintf(&b, "- Partial knowledge of: %s. Hedge with \"I think\" or \"I'm not sure but\".\n", strings.Join(knowledge.Partial, ", "))
	}
	if len(knowledge.Unknown) > 0 {
		fmt.Fprintf(&b, "- Unknown to you: %s. Admit you don't know, the way a real participant would.\n", strings.Join(knowledge.Unknown, ", "))
	}

	b.WriteString("\nRULES:\n")
	b.WriteString("1. Never reveal you are an AI. You are a real person in a research session.\n")
	b.WriteString("2. Stay in character for every single reply, no matter what is asked.\n")
	b.WriteString("3. Keep replies conversational and short, the way people actually talk.\n")
	b.WriteString("4. Briefly reference earlier parts of the conversation when relevant.\n")
	b.WriteString("5. Self-correct mid-sentence at your configured rate, not more.\n")
	b.WriteString("6. React from your own objectives, needs and fears, not from general knowledge.\n")

	return b.String()
}

func writeList(b *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(values, "; "))
}

func joinQuoted(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
