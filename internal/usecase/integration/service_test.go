package integration

import (
	"context"
	stdErrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	slackgo "github.com/slack-go/slack"
	"golang.org/x/oauth2"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository/repotest"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/linear"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/slack"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/zoom"
)

type fakeProvider struct {
	kind      entities.IntegrationType
	token     *oauth2.Token
	account   *oauth.Account
	refreshed int
}

func (p *fakeProvider) Type() entities.IntegrationType { return p.kind }

func (p *fakeProvider) AuthURL(state string) string {
	return "https://auth.example.com/" + string(p.kind) + "?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if code == "bad" {
		return nil, stdErrors.New("invalid_grant")
	}
	return p.token, nil
}

func (p *fakeProvider) Account(context.Context, *oauth2.Token) (*oauth.Account, error) {
	return p.account, nil
}

func (p *fakeProvider) Refresh(_ context.Context, refreshToken string) (*oauth2.Token, error) {
	p.refreshed++
	return &oauth2.Token{AccessToken: "fresh-" + refreshToken, Expiry: time.Now().Add(time.Hour)}, nil
}

type fakeSlack struct {
	token, channel, text string
}

func (f *fakeSlack) PostMessage(_ context.Context, token, channel, text string, _ []slackgo.Block) (string, error) {
	f.token, f.channel, f.text = token, channel, text
	return "1700000000.000100", nil
}

func (f *fakeSlack) ListChannels(context.Context, string) ([]slack.Channel, error) {
	return []slack.Channel{{ID: "C1", Name: "general"}}, nil
}

type fakeLinear struct {
	in linear.IssueInput
}

func (f *fakeLinear) CreateIssue(_ context.Context, _ string, in linear.IssueInput) (*linear.Issue, error) {
	f.in = in
	return &linear.Issue{ID: "iss-9", Identifier: "ENG-9", URL: "https://linear.app/i/ENG-9"}, nil
}

func (f *fakeLinear) ListTeams(context.Context, string) ([]linear.Team, error) {
	return []linear.Team{{ID: "team-1", Key: "ENG", Name: "Engineering"}}, nil
}

type fakeDownloader struct {
	token string
}

func (f *fakeDownloader) DownloadTranscript(_ context.Context, token, _ string) (string, error) {
	f.token = token
	return "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nAlice: hi", nil
}

func (f *fakeDownloader) AuthorizedURL(downloadURL, token string) (string, error) {
	return zoom.NewClient(nil).AuthorizedURL(downloadURL, token)
}

type fixture struct {
	svc    *Service
	repo   *repository.IntegrationRepository
	user   *entities.User
	ws     *entities.Workspace
	slack  *fakeSlack
	linear *fakeLinear
	zoom   *fakeDownloader
	zoomP  *fakeProvider
}

func newFixture(t *testing.T, plan entities.PlanType) *fixture {
	t.Helper()
	db := repotest.NewDB(t)
	user, ws := repotest.Seed(t, db, plan)
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		repo:   repository.NewIntegrationRepository(db),
		user:   user,
		ws:     ws,
		slack:  &fakeSlack{},
		linear: &fakeLinear{},
		zoom:   &fakeDownloader{},
		zoomP: &fakeProvider{
			kind:    entities.IntegrationZoom,
			token:   &oauth2.Token{AccessToken: "zoom-at", RefreshToken: "zoom-rt", Expiry: time.Now().Add(time.Hour)},
			account: &oauth.Account{TeamID: "acct-1", TeamName: "Acme", Metadata: map[string]interface{}{entities.MetaAccountEmail: "host@acme.io"}},
		},
	}
	providers := oauth.Providers{
		entities.IntegrationZoom: f.zoomP,
		entities.IntegrationSlack: &fakeProvider{
			kind:    entities.IntegrationSlack,
			token:   &oauth2.Token{AccessToken: "xoxb-1"},
			account: &oauth.Account{TeamID: "T1", TeamName: "Acme Slack"},
		},
		entities.IntegrationLinear: &fakeProvider{
			kind:    entities.IntegrationLinear,
			token:   &oauth2.Token{AccessToken: "lin-1"},
			account: &oauth.Account{TeamID: "org-1"},
		},
	}
	f.svc = NewService(
		providers,
		oauth.NewStateManager(store),
		f.repo,
		repository.NewWorkspaceRepository(db),
		Clients{Slack: f.slack, Linear: f.linear, Zoom: f.zoom},
		"https://app.example.com/",
		nil,
	)
	return f
}

func (f *fixture) connect(t *testing.T, typ entities.IntegrationType) string {
	t.Helper()
	ctx := context.Background()
	authURL, err := f.svc.ConnectURL(ctx, f.ws.ID, f.user.ID, typ)
	if err != nil {
		t.Fatalf("ConnectURL: %v", err)
	}
	u, _ := url.Parse(authURL)
	return f.svc.HandleCallback(ctx, typ, CallbackParams{Code: "ok", State: u.Query().Get("state")})
}

func appCode(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestConnect_StoresIntegration(t *testing.T) {
	f := newFixture(t, entities.PlanFree)
	redirect := f.connect(t, entities.IntegrationZoom)

	if redirect != "https://app.example.com/dashboard/integrations?success=zoom" {
		t.Fatalf("unexpected redirect %s", redirect)
	}
	integ, err := f.repo.Find(context.Background(), f.ws.ID, entities.IntegrationZoom)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if integ.AccessToken != "zoom-at" || integ.RefreshToken == nil || *integ.RefreshToken != "zoom-rt" {
		t.Fatalf("tokens not stored: %+v", integ)
	}
	if integ.TeamID == nil || *integ.TeamID != "acct-1" || integ.ConnectedBy != f.user.ID {
		t.Fatalf("account not stored: %+v", integ)
	}
	if integ.StringSetting(entities.MetaAccountEmail) != "host@acme.io" {
		t.Fatalf("metadata not stored: %v", integ.Metadata)
	}

	ws, err := f.svc.ResolveWorkspace(context.Background(), entities.IntegrationZoom, "acct-1")
	if err != nil || ws != f.ws.ID {
		t.Fatalf("ResolveWorkspace = %s, %v", ws, err)
	}
}

func TestHandleCallback_Errors(t *testing.T) {
	f := newFixture(t, entities.PlanFree)
	ctx := context.Background()

	cases := []struct {
		name   string
		typ    entities.IntegrationType
		params func() CallbackParams
		reason string
	}{
		{"provider error", entities.IntegrationSlack, func() CallbackParams { return CallbackParams{Error: "access_denied"} }, "access_denied"},
		{"missing code", entities.IntegrationSlack, func() CallbackParams { return CallbackParams{State: "x"} }, "missing_params"},
		{"unknown state", entities.IntegrationSlack, func() CallbackParams { return CallbackParams{Code: "c", State: "forged"} }, "invalid_state"},
		{"state for another type", entities.IntegrationLinear, func() CallbackParams {
			authURL, _ := f.svc.ConnectURL(ctx, f.ws.ID, f.user.ID, entities.IntegrationSlack)
			u, _ := url.Parse(authURL)
			return CallbackParams{Code: "c", State: u.Query().Get("state")}
		}, "invalid_state"},
		{"exchange failure", entities.IntegrationSlack, func() CallbackParams {
			authURL, _ := f.svc.ConnectURL(ctx, f.ws.ID, f.user.ID, entities.IntegrationSlack)
			u, _ := url.Parse(authURL)
			return CallbackParams{Code: "bad", State: u.Query().Get("state")}
		}, "token_exchange_failed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			redirect := f.svc.HandleCallback(ctx, tc.typ, tc.params())
			if !strings.HasSuffix(redirect, "?error="+tc.reason) {
				t.Fatalf("expected error %q, got %s", tc.reason, redirect)
			}
		})
	}
}

func TestConnect_EnforcesPlanLimit(t *testing.T) {
	f := newFixture(t, entities.PlanFree)
	ctx := context.Background()
	f.connect(t, entities.IntegrationZoom)

	// Started while under the limit, finished after it was reached
	pending, err := f.svc.ConnectURL(ctx, f.ws.ID, f.user.ID, entities.IntegrationLinear)
	if err != nil {
		t.Fatalf("ConnectURL: %v", err)
	}
	f.connect(t, entities.IntegrationSlack)

	u, _ := url.Parse(pending)
	redirect := f.svc.HandleCallback(ctx, entities.IntegrationLinear, CallbackParams{Code: "ok", State: u.Query().Get("state")})
	if !strings.HasSuffix(redirect, "?error=plan_limit_exceeded") {
		t.Fatalf("third integration on free plan must be refused, got %s", redirect)
	}

	_, err = f.svc.ConnectURL(ctx, f.ws.ID, f.user.ID, entities.IntegrationLinear)
	if appCode(t, err) != errors.ErrorCode_PLAN_LIMIT_EXCEEDED {
		t.Fatalf("expected plan limit before redirecting, got %v", err)
	}

	// Reconnecting an existing type does not count against the limit
	if redirect := f.connect(t, entities.IntegrationSlack); !strings.HasSuffix(redirect, "?success=slack") {
		t.Fatalf("reconnect must succeed, got %s", redirect)
	}
}

func TestConnectURL_UnconfiguredProvider(t *testing.T) {
	f := newFixture(t, entities.PlanFree)
	_, err := f.svc.ConnectURL(context.Background(), f.ws.ID, f.user.ID, entities.IntegrationTeams)
	if appCode(t, err) != errors.ErrorCode_INTEGRATION_UNSUPPORTED {
		t.Fatalf("expected unsupported, got %v", err)
	}
}

func TestUpdateSettingsAndSlackPost(t *testing.T) {
	f := newFixture(t, entities.PlanPro)
	f.connect(t, entities.IntegrationSlack)
	ctx := context.Background()

	if _, err := f.svc.PostSlackMessage(ctx, f.ws.ID, "", "hello", nil); appCode(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("post without channel must fail, got %v", err)
	}

	channel := "C42"
	if _, err := f.svc.UpdateSettings(ctx, f.ws.ID, entities.IntegrationSlack, Settings{ChannelID: &channel}); err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	auto := true
	if _, err := f.svc.UpdateSettings(ctx, f.ws.ID, entities.IntegrationSlack, Settings{AutoCreate: &auto}); appCode(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("slack must reject auto_create, got %v", err)
	}

	ts, err := f.svc.PostSlackMessage(ctx, f.ws.ID, "", "hello", nil)
	if err != nil {
		t.Fatalf("PostSlackMessage: %v", err)
	}
	if ts == "" || f.slack.channel != "C42" || f.slack.token != "xoxb-1" {
		t.Fatalf("unexpected post %+v ts=%s", f.slack, ts)
	}
}

func TestCreateLinearIssue_UsesConfiguredTeam(t *testing.T) {
	f := newFixture(t, entities.PlanPro)
	f.connect(t, entities.IntegrationLinear)
	ctx := context.Background()

	if _, err := f.svc.CreateLinearIssue(ctx, f.ws.ID, linear.IssueInput{Title: "x"}); appCode(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("issue without team must fail, got %v", err)
	}

	team := "team-1"
	auto := true
	integ, err := f.svc.UpdateSettings(ctx, f.ws.ID, entities.IntegrationLinear, Settings{TeamID: &team, AutoCreate: &auto})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if !integ.BoolSetting(entities.SettingAutoCreate) {
		t.Fatalf("auto_create not set")
	}

	issue, err := f.svc.CreateLinearIssue(ctx, f.ws.ID, linear.IssueInput{Title: "Ship it", Priority: 2})
	if err != nil {
		t.Fatalf("CreateLinearIssue: %v", err)
	}
	if issue.Identifier != "ENG-9" || f.linear.in.TeamID != "team-1" {
		t.Fatalf("unexpected issue %+v input %+v", issue, f.linear.in)
	}
}

func TestNotConnected(t *testing.T) {
	f := newFixture(t, entities.PlanFree)
	ctx := context.Background()

	if _, err := f.svc.PostSlackMessage(ctx, f.ws.ID, "C1", "hi", nil); appCode(t, err) != errors.ErrorCode_INTEGRATION_NOT_CONNECTED {
		t.Fatalf("expected not connected, got %v", err)
	}
	if err := f.svc.Disconnect(ctx, f.ws.ID, entities.IntegrationSlack); appCode(t, err) != errors.ErrorCode_INTEGRATION_NOT_CONNECTED {
		t.Fatalf("expected not connected, got %v", err)
	}
}

func TestFetchTranscript_RefreshesExpiringToken(t *testing.T) {
	f := newFixture(t, entities.PlanFree)
	f.zoomP.token = &oauth2.Token{AccessToken: "stale", RefreshToken: "rt", Expiry: time.Now().Add(30 * time.Second)}
	f.connect(t, entities.IntegrationZoom)
	ctx := context.Background()

	text, err := f.svc.FetchTranscript(ctx, f.ws.ID, entities.MeetingSourceZoom, "https://zoom.us/rec/download/x")
	if err != nil {
		t.Fatalf("FetchTranscript: %v", err)
	}
	if !strings.Contains(text, "Alice: hi") {
		t.Fatalf("unexpected transcript %q", text)
	}
	if f.zoomP.refreshed != 1 || f.zoom.token != "fresh-rt" {
		t.Fatalf("expected refreshed token, refreshed=%d token=%s", f.zoomP.refreshed, f.zoom.token)
	}

	stored, _ := f.repo.Find(ctx, f.ws.ID, entities.IntegrationZoom)
	if stored.AccessToken != "fresh-rt" || stored.NeedsRefresh(refreshSkew) {
		t.Fatalf("refreshed token not persisted: %+v", stored)
	}

	audio, err := f.svc.AudioURL(ctx, f.ws.ID, entities.MeetingSourceZoom, "https://zoom.us/rec/download/a.m4a")
	if err != nil || !strings.Contains(audio, "access_token=fresh-rt") {
		t.Fatalf("unexpected audio url %s %v", audio, err)
	}
}

func TestFetchTranscript_ForeignHostGetsNoToken(t *testing.T) {
	var leaked []string
	evil := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		leaked = append(leaked, r.Header.Get("Authorization"))
		w.Write([]byte("WEBVTT"))
	}))
	defer evil.Close()

	f := newFixture(t, entities.PlanFree)
	f.connect(t, entities.IntegrationZoom)
	f.svc.clients.Zoom = zoom.NewClient(evil.Client())
	ctx := context.Background()

	if _, err := f.svc.FetchTranscript(ctx, f.ws.ID, entities.MeetingSourceZoom, evil.URL+"/rec/download/x"); appCode(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("expected foreign zoom url refused, got %v", err)
	}
	if _, err := f.svc.AudioURL(ctx, f.ws.ID, entities.MeetingSourceZoom, evil.URL+"/rec/a.m4a"); appCode(t, err) != errors.ErrorCode_INVALID_ARGUMENT {
		t.Fatalf("expected foreign audio url refused, got %v", err)
	}
	if len(leaked) != 0 {
		t.Fatalf("foreign host received %d requests: %v", len(leaked), leaked)
	}
}

func TestDisconnect(t *testing.T) {
	f := newFixture(t, entities.PlanFree)
	f.connect(t, entities.IntegrationSlack)
	ctx := context.Background()

	if err := f.svc.Disconnect(ctx, f.ws.ID, entities.IntegrationSlack); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	list, err := f.svc.List(ctx, f.ws.ID)
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no integrations, got %v %v", list, err)
	}
	if _, err := f.svc.ResolveWorkspace(ctx, entities.IntegrationSlack, uuid.NewString()); !stdErrors.Is(err, entities.ErrIntegrationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
