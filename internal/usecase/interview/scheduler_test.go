package interview

import (
	"math/rand"
	"testing"
	"time"
)

func TestPlanDeliveryEmpty(t *testing.T) {
	if slots := PlanDelivery(0, rand.New(rand.NewSource(1))); slots != nil {
		t.Errorf("expected nil plan for zero responses, got %v", slots)
	}
}

func TestPlanDeliveryStagger(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	slots := PlanDelivery(4, rng)
	if len(slots) != 4 {
		t.Fatalf("got %d slots", len(slots))
	}

	if slots[0].TypingAt != 0 {
		t.Errorf("first typing signal at %v, want 0", slots[0].TypingAt)
	}

	baseGap := slots[1].TypingAt
	if baseGap < 400*time.Millisecond || baseGap >= 700*time.Millisecond {
		t.Errorf("base gap %v outside [400ms, 700ms)", baseGap)
	}

	for i, slot := range slots {
		if want := time.Duration(i) * baseGap; slot.TypingAt != want {
			t.Errorf("slot %d typing at %v, want %v (shared base gap)", i, slot.TypingAt, want)
		}
		speak := slot.ResponseAt - slot.TypingAt
		if speak < 200*time.Millisecond || speak >= 400*time.Millisecond {
			t.Errorf("slot %d speak delay %v outside [200ms, 400ms)", i, speak)
		}
	}
}

func TestPlanDeliveryResponsesOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		slots := PlanDelivery(5, rng)
		for i := 1; i < len(slots); i++ {
			if slots[i].TypingAt <= slots[i-1].TypingAt {
				t.Fatalf("trial %d: typing signals out of order", trial)
			}
			if slots[i].ResponseAt <= slots[i-1].TypingAt {
				t.Fatalf("trial %d: response %d before previous typing signal", trial, i)
			}
		}
	}
}

func TestPlanDeliveryDeterministicForSeed(t *testing.T) {
	a := PlanDelivery(3, rand.New(rand.NewSource(99)))
	b := PlanDelivery(3, rand.New(rand.NewSource(99)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("slot %d differs for identical seed: %v vs %v", i, a[i], b[i])
		}
	}
}
