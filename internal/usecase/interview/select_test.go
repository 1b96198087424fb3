package interview

import (
	"testing"

	"github.com/google/uuid"

	"github.com/avinci-labs/avinci/internal/domain/entities"
)

func candidate(name string) entities.ResponseCandidate {
	return entities.ResponseCandidate{AgentID: uuid.New(), AgentName: name, Text: "reply from " + name}
}

func TestSelectResponsesDeduplicatesCaseInsensitive(t *testing.T) {
	first := candidate("Priya")
	candidates := []entities.ResponseCandidate{
		first,
		candidate("priya"),
		candidate("PRIYA"),
		candidate("Arjun"),
	}

	got := SelectResponses(candidates, 5)
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].AgentID != first.AgentID {
		t.Error("dedupe should keep the first occurrence")
	}
	if got[1].AgentName != "Arjun" {
		t.Errorf("second candidate = %q", got[1].AgentName)
	}
}

func TestSelectResponsesCap(t *testing.T) {
	cases := []struct {
		rosterSize int
		candidates int
		want       int
	}{
		{1, 5, 2},
		{2, 5, 2},
		{3, 5, 3},
		{4, 5, 4},
		{5, 6, 4},
		{3, 2, 2},
		{5, 0, 0},
	}
	for _, tc := range cases {
		in := make([]entities.ResponseCandidate, tc.candidates)
		for i := range in {
			in[i] = candidate(uuid.NewString())
		}
		if got := SelectResponses(in, tc.rosterSize); len(got) != tc.want {
			t.Errorf("roster %d with %d candidates: got %d, want %d", tc.rosterSize, tc.candidates, len(got), tc.want)
		}
	}
}

func TestSelectResponsesPreservesOrder(t *testing.T) {
	in := []entities.ResponseCandidate{candidate("A"), candidate("B"), candidate("C")}
	got := SelectResponses(in, 5)
	for i, name := range []string{"A", "B", "C"} {
		if got[i].AgentName != name {
			t.Fatalf("order broken at %d: %q", i, got[i].AgentName)
		}
	}
}

func TestFanoutCount(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 2: 2, 3: 2, 5: 2}
	for roster, want := range cases {
		if got := FanoutCount(roster); got != want {
			t.Errorf("FanoutCount(%d) = %d, want %d", roster, got, want)
		}
	}
}
