package speech

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	pkgai "github.com/avinci-labs/avinci/pkg/ai"
)

// Voicer turns text into audio bytes for a given voice.
type Voicer interface {
	Synthesize(ctx context.Context, voiceID, text string, settings pkgai.VoiceSettings) ([]byte, error)
}

// AudioStore persists synthesized audio and returns a public URL for it.
type AudioStore interface {
	UploadAudio(ctx context.Context, objectName string, audio []byte, contentType string) (string, error)
}

// Synthesizer converts agent reply text into hosted audio. Synthesis is best
// effort: any provider or storage failure yields a nil URL and the turn is
// delivered as text only. Synthesize never returns an error.
type Synthesizer struct {
	voicer Voicer
	store  AudioStore
	logger *zap.Logger
}

// NewSynthesizer constructs the speech synthesis adapter
func NewSynthesizer(voicer Voicer, store AudioStore, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		voicer: voicer,
		store:  store,
		logger: logger,
	}
}

// Synthesize renders text with the region's voice and uploads the result.
// A nil return means the reply goes out without audio.
func (s *Synthesizer) Synthesize(ctx context.Context, callID uuid.UUID, agentName, text, region, gender string) *string {
	if s.voicer == nil || s.store == nil || text == "" {
		return nil
	}

	voiceID := VoiceForPersona(region, gender)
	audio, err := s.voicer.Synthesize(ctx, voiceID, text, SettingsForRegion(region))
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("speech synthesis failed, delivering text only",
				zap.String("call_id", callID.String()),
				zap.String("agent", agentName),
				zap.Error(err),
			)
		}
		return nil
	}

	objectName := fmt.Sprintf("calls/%s/%d-%s.mp3", callID, time.Now().UnixNano(), uuid.NewString()[:8])
	url, err := s.store.UploadAudio(ctx, objectName, audio, "audio/mpeg")
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("audio upload failed, delivering text only",
				zap.String("call_id", callID.String()),
				zap.String("agent", agentName),
				zap.Error(err),
			)
		}
		return nil
	}
	return &url
}
