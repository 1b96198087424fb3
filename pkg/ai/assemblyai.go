package ai

import (
	"bytes"
	"context"
	"fmt"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/avinci-labs/avinci/pkg/config"
)

// TranscriberClient wraps the official AssemblyAI SDK for turning moderator
// audio into text. Speech-to-text is optional: callers may submit
// pre-transcribed text and skip this client entirely.
type TranscriberClient struct {
	client *aai.Client
}

// NewTranscriberClient creates a transcriber using the provided config.
// Pass a nil config to fall back to environment variables.
func NewTranscriberClient(cfg *config.AssemblyAIConfig) *TranscriberClient {
	var apiKey string
	if cfg != nil {
		apiKey = cfg.APIKey
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	return &TranscriberClient{client: aai.NewClient(apiKey)}
}

// Transcribe uploads the audio bytes and waits for the transcript. The
// language hint is optional; an empty hint lets the provider detect it.
func (t *TranscriberClient) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		Punctuate: aai.Bool(true),
	}
	if language != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(language)
	}

	transcript, err := t.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), params)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}
	if transcript.Text == nil || *transcript.Text == "" {
		return "", fmt.Errorf("assemblyai returned empty transcript")
	}
	return *transcript.Text, nil
}
