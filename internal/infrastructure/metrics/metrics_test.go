package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.WebhookReceived("zoom", "accepted")
	m.MeetingFinished("completed", 3*time.Second)
	m.ActionsExtracted(4)
	m.ForwardFailed("slack")
	m.SetQueueDepth(2)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`meeting_actions_webhooks_received_total{outcome="accepted",source="zoom"} 1`,
		`meeting_actions_meetings_finished_total{status="completed"} 1`,
		`meeting_actions_actions_extracted_total 4`,
		`meeting_actions_forward_failures_total{destination="slack"} 1`,
		`meeting_actions_pipeline_queue_depth 2`,
		`meeting_actions_pipeline_duration_seconds_count 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.WebhookReceived("teams", "accepted")
	m.MeetingFinished("failed", time.Second)
	m.ActionsExtracted(1)
	m.ForwardFailed("linear")
	m.SetQueueDepth(1)
}
