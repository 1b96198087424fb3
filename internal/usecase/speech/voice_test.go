package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	pkgai "github.com/avinci-labs/avinci/pkg/ai"
)

func TestRegionFromLocation(t *testing.T) {
	cases := []struct {
		location string
		want     string
	}{
		{"Chennai", "tamil"},
		{"Tamil Nadu", "tamil"},
		{"Madurai, India", "tamil"},
		{"New Delhi", "north"},
		{"Lucknow", "north"},
		{"Bangalore", "south"},
		{"Kochi, Kerala", "south"},
		{"Mumbai", "west"},
		{"Ahmedabad", "west"},
		{"Kolkata", "east"},
		{"Patna", "east"},
		{"Random Town", "north"},
		{"", "north"},
	}
	for _, tc := range cases {
		if got := RegionFromLocation(tc.location); got != tc.want {
			t.Errorf("RegionFromLocation(%q) = %q, want %q", tc.location, got, tc.want)
		}
	}
}

func TestVoiceForPersona(t *testing.T) {
	if got := VoiceForPersona("tamil", "female"); got != tamilVoiceID {
		t.Errorf("tamil voice = %q", got)
	}
	if got := VoiceForPersona("west", "male"); got != defaultVoiceID {
		t.Errorf("west voice = %q", got)
	}
	// unknown region and gender still resolve to a usable voice
	if got := VoiceForPersona("mars", "unknown"); got != defaultVoiceID {
		t.Errorf("fallback voice = %q", got)
	}
}

func TestSettingsForRegion(t *testing.T) {
	tamil := SettingsForRegion("tamil")
	if tamil.Stability != 0.65 || tamil.SimilarityBoost != 0.85 || tamil.Style != 0.6 {
		t.Errorf("tamil settings = %+v", tamil)
	}
	north := SettingsForRegion("north")
	if north.Stability != 0.6 || north.SimilarityBoost != 0.8 || north.Style != 0.5 {
		t.Errorf("north settings = %+v", north)
	}
	if !tamil.UseSpeakerBoost || !north.UseSpeakerBoost {
		t.Error("speaker boost should be on for all regions")
	}
}

type stubVoicer struct {
	audio []byte
	err   error
}

func (s *stubVoicer) Synthesize(ctx context.Context, voiceID, text string, settings pkgai.VoiceSettings) ([]byte, error) {
	return s.audio, s.err
}

type stubStore struct {
	url string
	err error
}

func (s *stubStore) UploadAudio(ctx context.Context, objectName string, audio []byte, contentType string) (string, error) {
	return s.url, s.err
}

func TestSynthesizeReturnsURL(t *testing.T) {
	syn := NewSynthesizer(&stubVoicer{audio: []byte("mp3")}, &stubStore{url: "http://cdn/audio.mp3"}, nil)

	url := syn.Synthesize(context.Background(), uuid.New(), "Priya", "hello there", "tamil", "female")
	if url == nil || *url != "http://cdn/audio.mp3" {
		t.Errorf("url = %v", url)
	}
}

func TestSynthesizeSwallowsProviderFailure(t *testing.T) {
	syn := NewSynthesizer(&stubVoicer{err: errors.New("quota exceeded")}, &stubStore{url: "unused"}, nil)

	if url := syn.Synthesize(context.Background(), uuid.New(), "Priya", "hello", "north", "female"); url != nil {
		t.Errorf("expected nil url on provider failure, got %q", *url)
	}
}

func TestSynthesizeSwallowsUploadFailure(t *testing.T) {
	syn := NewSynthesizer(&stubVoicer{audio: []byte("mp3")}, &stubStore{err: errors.New("bucket gone")}, nil)

	if url := syn.Synthesize(context.Background(), uuid.New(), "Priya", "hello", "north", "female"); url != nil {
		t.Errorf("expected nil url on upload failure, got %q", *url)
	}
}

func TestSynthesizeSkipsEmptyText(t *testing.T) {
	syn := NewSynthesizer(&stubVoicer{audio: []byte("mp3")}, &stubStore{url: "http://cdn/a.mp3"}, nil)

	if url := syn.Synthesize(context.Background(), uuid.New(), "Priya", "", "north", "female"); url != nil {
		t.Error("expected nil url for empty text")
	}
}
