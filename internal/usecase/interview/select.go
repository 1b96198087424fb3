package interview

import (
	"strings"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

// Response count bounds per turn. Small rosters still get at least two voices
// when the model produced them; large rosters never flood the moderator.
const (
	minResponsesPerTurn = 2
	maxResponsesPerTurn = 4
	maxFanoutCalls      = 2
)

// SelectResponses picks the subset of candidates that gets delivered for one
// turn. Duplicate speakers are removed case-insensitively keeping the first
// occurrence, then the list is capped at max(2, min(4, rosterSize)). Order is
// otherwise preserved. Pure function.
func SelectResponses(candidates []entities.ResponseCandidate, rosterSize int) []entities.ResponseCandidate {
	seen := make(map[string]bool, len(candidates))
	deduped := make([]entities.ResponseCandidate, 0, len(candidates))
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.AgentName))
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, c)
	}

	limit := rosterSize
	if limit > maxResponsesPerTurn {
		limit = maxResponsesPerTurn
	}
	if limit < minResponsesPerTurn {
		limit = minResponsesPerTurn
	}
	if len(deduped) > limit {
		deduped = deduped[:limit]
	}
	return deduped
}

// FanoutCount returns how many independent generation calls the fanout tier
// issues for a roster of the given size.
func FanoutCount(rosterSize int) int {
	if rosterSize < maxFanoutCalls {
		return rosterSize
	}
	return maxFanoutCalls
}
