package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

func TestTranscribeURL_PollsUntilCompleted(t *testing.T) {
	var polls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/v2/transcript"):
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("invalid payload: %v", err)
			}
			if body["audio_url"] != "https://files.example.com/a.m4a" {
				t.Fatalf("unexpected audio_url %v", body["audio_url"])
			}
			if body["speaker_labels"] != true {
				t.Fatalf("expected speaker labels, got %v", body["speaker_labels"])
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"id": "tr-1", "status": "queued"})
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/v2/transcript/tr-1"):
			if atomic.AddInt32(&polls, 1) < 2 {
				json.NewEncoder(w).Encode(map[string]interface{}{"id": "tr-1", "status": "processing"})
				return
			}
			json.NewEncoder(w).Encode(map[string]interface{}{
				"id":     "tr-1",
				"status": "completed",
				"text":   "hello there. on it.",
				"utterances": []map[string]interface{}{
					{"speaker": "A", "text": "hello there."},
					{"speaker": "B", "text": "on it."},
				},
			})
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))
	defer ts.Close()

	client := aai.NewClientWithOptions(aai.WithAPIKey("test-key"), aai.WithBaseURL(ts.URL))
	tr := newTranscriber(client, true, 10*time.Millisecond, nil)

	text, err := tr.TranscribeURL(context.Background(), "https://files.example.com/a.m4a")
	if err != nil {
		t.Fatalf("TranscribeURL: %v", err)
	}
	if text != "Speaker A: hello there.\nSpeaker B: on it." {
		t.Fatalf("unexpected transcript %q", text)
	}
}

func TestTranscribeURL_Error(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "tr-2", "status": "error", "error": "audio too short"})
	}))
	defer ts.Close()

	client := aai.NewClientWithOptions(aai.WithAPIKey("test-key"), aai.WithBaseURL(ts.URL))
	tr := newTranscriber(client, true, 10*time.Millisecond, nil)

	_, err := tr.TranscribeURL(context.Background(), "https://files.example.com/a.m4a")
	if err == nil || !strings.Contains(err.Error(), "audio too short") {
		t.Fatalf("expected transcription error, got %v", err)
	}
}

func TestTranscribeURL_NotConfigured(t *testing.T) {
	var tr *Transcriber
	if _, err := tr.TranscribeURL(context.Background(), "x"); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestFormatTranscript_FallsBackToText(t *testing.T) {
	got := FormatTranscript(aai.Transcript{Text: aai.String("  plain text  ")})
	if got != "plain text" {
		t.Fatalf("unexpected %q", got)
	}
}
