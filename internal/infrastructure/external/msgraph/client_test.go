package msgraph

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranscriptContentURL(t *testing.T) {
	c := NewClient(nil)
	got := c.TranscriptContentURL("org-1", "MSo1", "tr-1")
	want := "https://graph.microsoft.com/v1.0/users/org-1/onlineMeetings/MSo1/transcripts/tr-1/content?$format=text/vtt"
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestResourceURL(t *testing.T) {
	c := NewClient(nil)
	got, err := c.ResourceURL("/users/1/onlineMeetings/2/transcripts/3")
	if err != nil || got != "https://graph.microsoft.com/v1.0/users/1/onlineMeetings/2/transcripts/3" {
		t.Fatalf("unexpected %s %v", got, err)
	}
	for _, r := range []string{
		"https://graph.microsoft.com/beta/x",
		"https://evil.example/users/1/onlineMeetings/2/transcripts/3",
		"//evil.example/users/1/transcripts/3",
		"users/../../../evil/transcripts/3",
	} {
		if _, err := c.ResourceURL(r); !errors.Is(err, ErrForeignResource) {
			t.Fatalf("expected %q refused, got %v", r, err)
		}
	}
}

func TestDownloadTranscript(t *testing.T) {
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "text/vtt" || r.Header.Get("Authorization") != "Bearer graph" {
			t.Fatalf("unexpected headers %v", r.Header)
		}
		w.Write([]byte("WEBVTT\n\n<v Ada>hello</v>"))
	}))
	defer ts.Close()

	c := NewClient(ts.Client())
	c.apiBase = ts.URL + "/v1.0"
	got, err := c.DownloadTranscript(context.Background(), "graph", ts.URL+"/v1.0/users/1/onlineMeetings/2/transcripts/3/content")
	if err != nil {
		t.Fatalf("DownloadTranscript: %v", err)
	}
	if got != "WEBVTT\n\n<v Ada>hello</v>" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestDownloadTranscript_ForeignHostGetsNoToken(t *testing.T) {
	var hits int
	ts := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.Header.Get("Authorization") != "" {
			t.Errorf("token sent to a foreign host")
		}
	}))
	defer ts.Close()

	c := NewClient(ts.Client())
	if _, err := c.DownloadTranscript(context.Background(), "graph", ts.URL+"/x/transcripts/y/content"); !errors.Is(err, ErrForeignResource) {
		t.Fatalf("expected ErrForeignResource, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("foreign host was called %d times", hits)
	}
}
