package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/avinci-labs/avinci/pkg/config"
)

// ElevenLabsClient is a minimal client for the ElevenLabs text-to-speech API
type ElevenLabsClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewElevenLabsClient creates an ElevenLabs client using the provided config.
// Pass a nil config to fall back to environment variables.
func NewElevenLabsClient(cfg *config.ElevenLabsConfig) *ElevenLabsClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ELEVENLABS_API_KEY")
	}

	var base string
	if cfg != nil && cfg.BaseURL != "" {
		base = cfg.BaseURL
	} else {
		base = os.Getenv("ELEVENLABS_API_URL")
		if base == "" {
			base = "https://api.elevenlabs.io"
		}
	}

	model := "eleven_multilingual_v2"
	if cfg != nil && cfg.Model != "" {
		model = cfg.Model
	}

	return &ElevenLabsClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// VoiceSettings tunes a synthesized voice
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// SynthesizeRequest is the payload for /v1/text-to-speech/{voiceId}
type SynthesizeRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// Synthesize converts text to audio bytes using the given voice.
func (e *ElevenLabsClient) Synthesize(ctx context.Context, voiceID, text string, settings VoiceSettings) ([]byte, error) {
	reqBody := SynthesizeRequest{
		Text:          text,
		ModelID:       e.model,
		VoiceSettings: settings,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", e.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("elevenlabs returned status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio from elevenlabs")
	}
	return audio, nil
}
