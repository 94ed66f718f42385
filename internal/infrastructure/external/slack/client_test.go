package slack

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/slack-go/slack"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	c := NewClient(ts.Client())
	c.apiURL = ts.URL + "/"
	return c
}

func TestPostMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		r.ParseForm()
		if r.Form.Get("channel") != "C1" || r.Form.Get("text") != "hello" {
			t.Fatalf("unexpected form %v", r.Form)
		}
		if !strings.Contains(r.Form.Get("blocks"), "header") {
			t.Fatalf("expected blocks, got %q", r.Form.Get("blocks"))
		}
		if !strings.Contains(r.Header.Get("Authorization"), "xoxb-test") && r.Form.Get("token") != "xoxb-test" {
			t.Fatalf("token not sent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"channel":"C1","ts":"1700000000.000100"}`))
	})

	_, blocks := MeetingMessage("Sync", "- done", nil, "")
	ts, err := c.PostMessage(context.Background(), "xoxb-test", "C1", "hello", blocks)
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if ts != "1700000000.000100" {
		t.Fatalf("unexpected ts %q", ts)
	}
}

func TestPostMessage_SlackError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
	})

	_, err := c.PostMessage(context.Background(), "xoxb-test", "C404", "hello", nil)
	if err == nil || !strings.Contains(err.Error(), "channel_not_found") {
		t.Fatalf("expected channel_not_found, got %v", err)
	}
}

func TestListChannels_Paginates(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.Form.Get("cursor") == "" {
			w.Write([]byte(`{"ok":true,"channels":[{"id":"C1","name":"general"}],"response_metadata":{"next_cursor":"page2"}}`))
			return
		}
		w.Write([]byte(`{"ok":true,"channels":[{"id":"C2","name":"secret","is_private":true}],"response_metadata":{"next_cursor":""}}`))
	})

	chans, err := c.ListChannels(context.Background(), "xoxb-test")
	if err != nil {
		t.Fatalf("ListChannels: %v", err)
	}
	if len(chans) != 2 || chans[1].ID != "C2" || !chans[1].IsPrivate || calls != 2 {
		t.Fatalf("unexpected channels %+v after %d calls", chans, calls)
	}
}

func TestMeetingMessage(t *testing.T) {
	text, blocks := MeetingMessage("Planning", "- ship v2", []ActionLine{
		{Title: "Write launch post", Owner: "Ada", DueDate: "2024-07-01", Priority: "urgent"},
		{Title: "Book venue", Priority: "low"},
	}, "https://app.example.com/dashboard/meetings/1")

	if text != "Meeting summary: Planning (2 action items)" {
		t.Fatalf("unexpected fallback %q", text)
	}
	if len(blocks) != 5 {
		t.Fatalf("expected header, summary, divider, actions, context; got %d blocks", len(blocks))
	}
	section, ok := blocks[3].(*slack.SectionBlock)
	if !ok {
		t.Fatalf("expected actions section, got %T", blocks[3])
	}
	body := section.Text.Text
	if !strings.Contains(body, "Write launch post (👤 Ada, 📅 2024-07-01, 🔥 urgent)") {
		t.Fatalf("owner/due/priority missing: %s", body)
	}
	if strings.Contains(body, "low") {
		t.Fatalf("low priority should not be flagged: %s", body)
	}
}
