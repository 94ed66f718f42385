package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/pkg/config"
)

// Transcriber turns meeting audio into speaker-labelled text with AssemblyAI
type Transcriber struct {
	client       *aai.Client
	configured   bool
	pollInterval time.Duration
	logger       *zap.Logger
}

// NewTranscriber creates an AssemblyAI transcriber
func NewTranscriber(cfg config.AssemblyAIConfig, logger *zap.Logger) *Transcriber {
	return newTranscriber(aai.NewClient(cfg.APIKey), cfg.APIKey != "", 3*time.Second, logger)
}

func newTranscriber(client *aai.Client, configured bool, poll time.Duration, logger *zap.Logger) *Transcriber {
	return &Transcriber{
		client:       client,
		configured:   configured,
		pollInterval: poll,
		logger:       logger,
	}
}

// Configured reports whether an API key is present
func (t *Transcriber) Configured() bool {
	return t != nil && t.configured
}

// TranscribeURL submits an audio URL and waits for the finished transcript
func (t *Transcriber) TranscribeURL(ctx context.Context, audioURL string) (string, error) {
	if !t.Configured() {
		return "", ErrNotConfigured
	}

	params := &aai.TranscriptOptionalParams{
		SpeakerLabels:     aai.Bool(true),
		LanguageDetection: aai.Bool(true),
	}
	transcript, err := t.client.Transcripts.SubmitFromURL(ctx, audioURL, params)
	if err != nil {
		return "", fmt.Errorf("failed to submit audio: %w", err)
	}
	if transcript.ID == nil {
		return "", fmt.Errorf("assemblyai returned no transcript id")
	}

	if t.logger != nil {
		t.logger.Info("🎙️ Transcription submitted", zap.String("transcript_id", *transcript.ID))
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		switch transcript.Status {
		case aai.TranscriptStatusCompleted:
			return FormatTranscript(transcript), nil
		case aai.TranscriptStatusError:
			msg := "unknown error"
			if transcript.Error != nil {
				msg = *transcript.Error
			}
			return "", fmt.Errorf("transcription failed: %s", msg)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}

		transcript, err = t.client.Transcripts.Get(ctx, *transcript.ID)
		if err != nil {
			return "", fmt.Errorf("failed to poll transcript: %w", err)
		}
	}
}

// FormatTranscript renders utterances as "Speaker X: text" lines, falling
// back to the plain text when no speakers were labelled
func FormatTranscript(transcript aai.Transcript) string {
	if len(transcript.Utterances) == 0 {
		if transcript.Text == nil {
			return ""
		}
		return strings.TrimSpace(*transcript.Text)
	}

	var sb strings.Builder
	for _, utt := range transcript.Utterances {
		if utt.Text == nil {
			continue
		}
		speaker := "Unknown"
		if utt.Speaker != nil && *utt.Speaker != "" {
			speaker = "Speaker " + *utt.Speaker
		}
		sb.WriteString(speaker)
		sb.WriteString(": ")
		sb.WriteString(strings.TrimSpace(*utt.Text))
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String())
}
