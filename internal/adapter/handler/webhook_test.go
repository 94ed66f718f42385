package handler

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/adapter/dto/webhook"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/metrics"
	"github.com/johnquangdev/meeting-actions/internal/usecase/billing"
	"github.com/johnquangdev/meeting-actions/pkg/signature"
)

type fakeResolver map[string]uuid.UUID

func (f fakeResolver) ResolveWorkspace(_ context.Context, t entities.IntegrationType, teamID string) (uuid.UUID, error) {
	id, ok := f[string(t)+":"+teamID]
	if !ok {
		return uuid.Nil, entities.ErrIntegrationNotFound
	}
	return id, nil
}

type fakeWorkspaces map[uuid.UUID]bool

func (f fakeWorkspaces) Get(_ context.Context, id uuid.UUID) (*entities.Workspace, error) {
	if !f[id] {
		return nil, errors.ErrWorkspaceNotFound(id.String())
	}
	return &entities.Workspace{ID: id}, nil
}

type fakeGraph struct{}

func (fakeGraph) ResourceURL(resource string) (string, error) {
	if strings.Contains(resource, "://") {
		return "", stdErrors.New("absolute resource")
	}
	return "https://graph.example/v1.0/" + strings.TrimPrefix(resource, "/"), nil
}

const zoomSecret = "zoom-secret"

func zoomRequest(t *testing.T, body string, sign bool) *http.Request {
	t.Helper()
	req := jsonRequest(http.MethodPost, "/v1/webhooks/zoom", body)
	if sign {
		ts := "1700000000"
		req.Header.Set("x-zm-request-timestamp", ts)
		req.Header.Set("x-zm-signature", signature.ZoomSignature(zoomSecret, ts, []byte(body)))
	}
	return req
}

func TestZoomWebhook_URLValidation(t *testing.T) {
	e := newEcho()
	h := NewZoomWebhook(zoomSecret, &fakeMeetings{}, fakeResolver{}, metrics.New(), zap.NewNop())

	body := `{"event":"endpoint.url_validation","payload":{"plainToken":"abc123"}}`
	rec := httptest.NewRecorder()
	if err := h.Handle(e.NewContext(zoomRequest(t, body, true), rec)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out webhook.ZoomURLValidationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.PlainToken != "abc123" || out.EncryptedToken != signature.HMACSHA256(zoomSecret, []byte("abc123")) {
		t.Fatalf("unexpected validation response %+v", out)
	}
}

func TestZoomWebhook_RejectsBadSignature(t *testing.T) {
	e := newEcho()
	h := NewZoomWebhook(zoomSecret, &fakeMeetings{}, fakeResolver{}, nil, zap.NewNop())

	req := zoomRequest(t, `{"event":"meeting.ended"}`, false)
	req.Header.Set("x-zm-request-timestamp", "1700000000")
	req.Header.Set("x-zm-signature", "v0=deadbeef")
	rec := httptest.NewRecorder()
	_ = h.Handle(e.NewContext(req, rec))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestZoomWebhook_RecordingCompleted(t *testing.T) {
	wsID := uuid.New()
	resolver := fakeResolver{"zoom:acct-1": wsID}

	transcript := `{"event":"recording.completed","payload":{"account_id":"acct-1","object":{
		"uuid":"uuid-1","id":42,"host_id":"host-1","topic":"Planning","start_time":"2026-03-10T15:00:00Z","duration":30,
		"recording_files":[
			{"file_type":"MP4","download_url":"https://us02web.zoom.us/rec/download/video"},
			{"file_type":"TRANSCRIPT","download_url":"https://us02web.zoom.us/rec/download/vtt"}
		]}}}`
	audioOnly := `{"event":"recording.completed","payload":{"account_id":"acct-1","object":{
		"id":43,"topic":"Sync","recording_files":[{"file_type":"M4A","download_url":"https://zoom.us/rec/download/audio"}]}}}`
	noFiles := `{"event":"recording.completed","payload":{"account_id":"acct-1","object":{"uuid":"uuid-3","recording_files":[]}}}`
	unknownAccount := `{"event":"recording.completed","payload":{"account_id":"acct-9","object":{"uuid":"uuid-4",
		"recording_files":[{"file_type":"TRANSCRIPT","download_url":"https://us02web.zoom.us/rec/download/vtt"}]}}}`
	foreignHost := `{"event":"recording.completed","payload":{"account_id":"acct-1","object":{"uuid":"uuid-5",
		"recording_files":[{"file_type":"TRANSCRIPT","download_url":"https://zoom.us.evil.example/vtt"}]}}}`

	e := newEcho()
	svc := &fakeMeetings{}
	h := NewZoomWebhook("", svc, resolver, metrics.New(), zap.NewNop())

	for _, tc := range []struct {
		name   string
		body   string
		status int
	}{
		{"transcript", transcript, http.StatusOK},
		{"audio only", audioOnly, http.StatusOK},
		{"no usable file", noFiles, http.StatusBadRequest},
		{"unknown account", unknownAccount, http.StatusOK},
		{"foreign download host", foreignHost, http.StatusBadRequest},
	} {
		rec := httptest.NewRecorder()
		_ = h.Handle(e.NewContext(zoomRequest(t, tc.body, false), rec))
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.status, rec.Code, rec.Body.String())
		}
	}

	if len(svc.intakes) != 2 {
		t.Fatalf("expected 2 intakes, got %d", len(svc.intakes))
	}
	first := svc.intakes[0]
	if first.WorkspaceID != wsID || first.ExternalID != "uuid-1" || first.TranscriptURL != "https://us02web.zoom.us/rec/download/vtt" || first.AudioURL != "" {
		t.Fatalf("unexpected transcript intake %+v", first)
	}
	if first.Title != "Planning" || first.HostID != "host-1" || first.DurationMinutes != 30 || first.StartedAt == nil {
		t.Fatalf("meeting details not carried: %+v", first)
	}
	second := svc.intakes[1]
	if second.ExternalID != "43" || second.AudioURL != "https://zoom.us/rec/download/audio" || second.TranscriptURL != "" {
		t.Fatalf("unexpected audio intake %+v", second)
	}
}

func TestTeamsWebhook_Validation(t *testing.T) {
	e := newEcho()
	h := NewTeamsWebhook("", &fakeMeetings{}, fakeResolver{}, fakeWorkspaces{}, nil, nil, zap.NewNop())

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(method, "/v1/webhooks/teams?validationToken=tok%20en", nil), rec)
		var err error
		if method == http.MethodGet {
			err = h.Validate(c)
		} else {
			err = h.Handle(c)
		}
		if err != nil {
			t.Fatalf("%s: %v", method, err)
		}
		if rec.Code != http.StatusOK || rec.Body.String() != "tok en" {
			t.Fatalf("%s: unexpected response %d %q", method, rec.Code, rec.Body.String())
		}
		if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMETextPlain) {
			t.Fatalf("%s: expected text/plain, got %q", method, rec.Header().Get(echo.HeaderContentType))
		}
	}
}

func teamsBody(notifications ...string) string {
	return `{"value":[` + strings.Join(notifications, ",") + `]}`
}

func TestTeamsWebhook_Notifications(t *testing.T) {
	stateWS, organizerWS := uuid.New(), uuid.New()
	e := newEcho()
	svc := &fakeMeetings{}
	h := NewTeamsWebhook("", svc,
		fakeResolver{"teams:org-1": organizerWS},
		fakeWorkspaces{stateWS: true},
		fakeGraph{}, metrics.New(), zap.NewNop())

	body := teamsBody(
		// client state names the workspace
		`{"changeType":"created","clientState":"`+stateWS.String()+`","resourceData":{"id":"t1","content":"Ada: hi",
			"createdDateTime":"2026-03-10T15:00:00Z","endDateTime":"2026-03-10T15:44:40Z",
			"meetingOrganizer":{"id":"org-1","displayName":"Ada"}}}`,
		// organizer fallback and a transcript fetched from Graph
		`{"changeType":"created","resource":"users/org-1/onlineMeetings/m1/transcripts/t2","resourceData":{"id":"t2",
			"meetingOrganizer":{"id":"org-1"}}}`,
		`{"changeType":"updated","resourceData":{"id":"t3","content":"x"}}`,
		`{"changeType":"created","resourceData":{"id":"t4"}}`,
		`{"changeType":"created","resourceData":{"id":"t5","content":"x","meetingOrganizer":{"id":"org-unknown"}}}`,
		// absolute resources never get the workspace's Graph token
		`{"changeType":"created","resource":"https://evil.example/x/transcripts/y","resourceData":{"id":"t6",
			"meetingOrganizer":{"id":"org-1"}}}`,
	)
	rec := httptest.NewRecorder()
	if err := h.Handle(e.NewContext(jsonRequest(http.MethodPost, "/", body), rec)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	var result webhook.TeamsResult
	if err := json.Unmarshal(decode(t, rec).Data, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Accepted != 2 || result.Skipped != 4 {
		t.Fatalf("unexpected counts %+v", result)
	}

	first, second := svc.intakes[0], svc.intakes[1]
	if first.WorkspaceID != stateWS || first.RawTranscript != "Ada: hi" || first.Title != "Ada" || first.DurationMinutes != 45 || first.HostID != "org-1" {
		t.Fatalf("unexpected first intake %+v", first)
	}
	if second.WorkspaceID != organizerWS || second.Title != defaultTeamsTitle {
		t.Fatalf("unexpected second intake %+v", second)
	}
	if second.TranscriptURL != "https://graph.example/v1.0/users/org-1/onlineMeetings/m1/transcripts/t2/content?$format=text/vtt" {
		t.Fatalf("unexpected transcript url %q", second.TranscriptURL)
	}
}

func TestTeamsWebhook_ClientStateSecret(t *testing.T) {
	stateWS, organizerWS := uuid.New(), uuid.New()
	e := newEcho()
	svc := &fakeMeetings{}
	h := NewTeamsWebhook("s3cret", svc,
		fakeResolver{"teams:org-1": organizerWS},
		fakeWorkspaces{stateWS: true},
		fakeGraph{}, nil, zap.NewNop())

	body := teamsBody(
		// a known organizer does not stand in for the secret
		`{"changeType":"created","clientState":"nope","resource":"users/org-1/onlineMeetings/m1/transcripts/t1",
			"resourceData":{"id":"t1","meetingOrganizer":{"id":"org-1"}}}`,
		`{"changeType":"created","resourceData":{"id":"t2","content":"x","meetingOrganizer":{"id":"org-1"}}}`,
		// a bare workspace id is not trusted once a secret is set
		`{"changeType":"created","clientState":"`+stateWS.String()+`","resourceData":{"id":"t3","content":"x"}}`,
		`{"changeType":"created","clientState":"s3cret","resourceData":{"id":"t4","content":"x","meetingOrganizer":{"id":"org-1"}}}`,
	)
	rec := httptest.NewRecorder()
	_ = h.Handle(e.NewContext(jsonRequest(http.MethodPost, "/", body), rec))

	if len(svc.intakes) != 1 || svc.intakes[0].WorkspaceID != organizerWS || svc.intakes[0].ExternalID != "t4" {
		t.Fatalf("expected only the notification carrying the secret, got %+v", svc.intakes)
	}
}

func TestTeamsWebhook_InvalidPayload(t *testing.T) {
	e := newEcho()
	h := NewTeamsWebhook("", &fakeMeetings{}, fakeResolver{}, nil, nil, nil, zap.NewNop())
	for _, body := range []string{`{}`, `not json`} {
		rec := httptest.NewRecorder()
		_ = h.Handle(e.NewContext(jsonRequest(http.MethodPost, "/", body), rec))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %d", body, rec.Code)
		}
	}
}

type fakeBilling struct {
	gotPayload   string
	gotSignature string
	err          error
}

func (f *fakeBilling) StripeCheckout(context.Context, uuid.UUID, uuid.UUID, string) (*billing.CheckoutResponse, error) {
	return nil, errors.ErrInvalidPlan("free")
}

func (f *fakeBilling) StripePortal(context.Context, uuid.UUID) (string, error) {
	return "https://billing.stripe.example/session", nil
}

func (f *fakeBilling) HandleStripeWebhook(_ context.Context, payload []byte, sig string) error {
	f.gotPayload, f.gotSignature = string(payload), sig
	return f.err
}

func (f *fakeBilling) PaystackCheckout(context.Context, uuid.UUID, uuid.UUID, string, string) (*billing.CheckoutResponse, error) {
	return &billing.CheckoutResponse{URL: "https://paystack.example/pay", Reference: "ref-1"}, nil
}

func (f *fakeBilling) PaystackCallback(_ context.Context, reference string) string {
	if reference == "ok" {
		return "https://app.example/dashboard/billing?success=true"
	}
	return "https://app.example/dashboard/billing?error=payment_failed"
}

func (f *fakeBilling) HandlePaystackWebhook(_ context.Context, body []byte, sig string) error {
	f.gotPayload, f.gotSignature = string(body), sig
	return f.err
}

func TestBillingWebhooks(t *testing.T) {
	e := newEcho()
	svc := &fakeBilling{}
	h := NewBillingHandler(svc, metrics.New(), zap.NewNop())

	req := jsonRequest(http.MethodPost, "/", `{"id":"evt_1"}`)
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	_ = h.StripeWebhook(e.NewContext(req, rec))
	if rec.Code != http.StatusOK || svc.gotPayload != `{"id":"evt_1"}` || svc.gotSignature != "t=1,v1=abc" {
		t.Fatalf("stripe webhook not forwarded: %d %+v", rec.Code, svc)
	}

	svc.err = errors.ErrInvalidSignature("paystack")
	req = jsonRequest(http.MethodPost, "/", `{"event":"charge.success"}`)
	req.Header.Set("x-paystack-signature", "bad")
	rec = httptest.NewRecorder()
	_ = h.PaystackWebhook(e.NewContext(req, rec))
	if rec.Code != http.StatusUnauthorized || svc.gotSignature != "bad" {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	svc.err = stdErrors.New("boom")
	rec = httptest.NewRecorder()
	_ = h.PaystackWebhook(e.NewContext(jsonRequest(http.MethodPost, "/", `{}`), rec))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 so the provider retries, got %d", rec.Code)
	}
}

func TestBillingCheckoutAndCallback(t *testing.T) {
	e := newEcho()
	h := NewBillingHandler(&fakeBilling{}, nil, zap.NewNop())
	wsID, userID := uuid.New(), uuid.New()

	c, rec := scoped(e, jsonRequest(http.MethodPost, "/", `{"plan":"free"}`), wsID, userID)
	_ = h.StripeCheckout(c)
	if body := decode(t, rec); rec.Code != http.StatusBadRequest || body.Code != int(errors.ErrorCode_BILLING_INVALID_PLAN) {
		t.Fatalf("expected invalid plan, got %d %+v", rec.Code, body)
	}

	c, rec = scoped(e, jsonRequest(http.MethodPost, "/", `{}`), wsID, userID)
	_ = h.PaystackCheckout(c)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a plan, got %d", rec.Code)
	}

	c, rec = scoped(e, jsonRequest(http.MethodPost, "/", `{"plan":"pro","currency":"NGN"}`), wsID, userID)
	_ = h.PaystackCheckout(c)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ref-1") {
		t.Fatalf("unexpected checkout response %d %s", rec.Code, rec.Body.String())
	}

	for ref, want := range map[string]string{
		"ok":  "https://app.example/dashboard/billing?success=true",
		"bad": "https://app.example/dashboard/billing?error=payment_failed",
	} {
		rec := httptest.NewRecorder()
		_ = h.PaystackCallback(e.NewContext(httptest.NewRequest(http.MethodGet, "/?reference="+ref, nil), rec))
		if rec.Code != http.StatusFound || rec.Header().Get(echo.HeaderLocation) != want {
			t.Fatalf("%s: unexpected redirect %d %q", ref, rec.Code, rec.Header().Get(echo.HeaderLocation))
		}
	}
}
