package interview

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/avinci-labs/avinci/internal/domain/entities"
	"github.com/avinci-labs/avinci/internal/usecase/speech"
)

// Tier names the stages of the generation fallback chain. Tiers are attempted
// in order, each at most once per turn; any provider failure, timeouts
// included, advances to the next tier. The template tier cannot fail, so
// every accepted turn produces at least one response.
type Tier string

const (
	TierGroupOverlap      Tier = "group-overlap"
	TierIndependentFanout Tier = "independent-fanout"
	TierLocalTemplate     Tier = "local-template"
)

// Pipeline resolves one moderator turn into delivered response candidates.
type Pipeline struct {
	gen    Generator
	logger *zap.Logger
}

// NewPipeline constructs the response generation pipeline
func NewPipeline(gen Generator, logger *zap.Logger) *Pipeline {
	return &Pipeline{gen: gen, logger: logger}
}

// Respond runs the fallback chain for a turn and returns the candidates that
// will be delivered, already deduplicated and capped. It never returns empty.
func (p *Pipeline) Respond(ctx context.Context, callID string, personas []*entities.Persona, history []*entities.CallEvent, moderatorText string) []entities.ResponseCandidate {
	roster := len(personas)

	if roster > 1 {
		candidates, err := p.gen.GroupOverlap(ctx, personas, history, moderatorText)
		if err == nil {
			return SelectResponses(candidates, roster)
		}
		p.logTierFailure(callID, TierGroupOverlap, err)
	}

	if candidates := p.fanout(ctx, personas, history, moderatorText); len(candidates) > 0 {
		return SelectResponses(candidates, roster)
	}
	if roster > 0 {
		p.logTierFailure(callID, TierIndependentFanout, nil)
	}

	return SelectResponses(LocalTemplates(personas, moderatorText), roster)
}

// fanout issues independent single-persona calls concurrently, then
// reassembles the successes in submission order. Individual failures are
// dropped; an empty result advances the tier.
func (p *Pipeline) fanout(ctx context.Context, personas []*entities.Persona, history []*entities.CallEvent, moderatorText string) []entities.ResponseCandidate {
	n := FanoutCount(len(personas))
	if n == 0 {
		return nil
	}

	results := make([]*entities.ResponseCandidate, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int, persona *entities.Persona) {
			defer wg.Done()
			text, err := p.gen.Single(ctx, persona, history, moderatorText)
			if err != nil {
				if p.logger != nil {
					p.logger.Debug("fanout call failed",
						zap.String("agent", persona.Name),
						zap.Error(err),
					)
				}
				return
			}
			results[idx] = &entities.ResponseCandidate{
				AgentID:   persona.ID,
				AgentName: persona.Name,
				Text:      text,
				Region:    speech.RegionFromLocation(persona.Location),
			}
		}(i, personas[i])
	}
	wg.Wait()

	candidates := make([]entities.ResponseCandidate, 0, n)
	for _, r := range results {
		if r != nil {
			candidates = append(candidates, *r)
		}
	}
	return candidates
}

func (p *Pipeline) logTierFailure(callID string, tier Tier, err error) {
	if p.logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("call_id", callID),
		zap.String("tier", string(tier)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	p.logger.Warn("generation tier failed, falling back", fields...)
}
