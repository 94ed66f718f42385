package auth

import (
	"context"
	stdErrors "errors"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository"
	"github.com/johnquangdev/meeting-actions/internal/adapter/repository/repotest"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-actions/pkg/jwt"
)

type fakeGoogle struct {
	profile *oauth.Profile
	err     error
}

func (f *fakeGoogle) AuthURL(state string) string {
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (f *fakeGoogle) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &oauth2.Token{AccessToken: "google-" + code}, nil
}

func (f *fakeGoogle) Profile(_ context.Context, _ *oauth2.Token) (*oauth.Profile, error) {
	return f.profile, nil
}

type fixture struct {
	svc        *OAuthService
	google     *fakeGoogle
	users      *repository.UserRepository
	workspaces *repository.WorkspaceRepository
	sessions   *repository.SessionRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := repotest.NewDB(t)
	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	f := &fixture{
		google: &fakeGoogle{profile: &oauth.Profile{
			ID:      "g-123",
			Email:   "grace@example.com",
			Name:    "Grace",
			Picture: "https://example.com/grace.png",
		}},
		users:      repository.NewUserRepository(db),
		workspaces: repository.NewWorkspaceRepository(db),
		sessions:   repository.NewSessionRepository(db),
	}
	f.svc = NewOAuthService(
		f.users, f.sessions, f.workspaces, f.google,
		oauth.NewStateManager(store),
		jwt.NewManager("access-secret", "refresh-secret", 15*time.Minute, 24*time.Hour),
		nil,
	)
	return f
}

func (f *fixture) login(t *testing.T) *AuthResponse {
	t.Helper()
	ctx := context.Background()
	authURL, err := f.svc.GetGoogleAuthURL(ctx)
	if err != nil {
		t.Fatalf("GetGoogleAuthURL: %v", err)
	}
	resp, err := f.svc.HandleGoogleCallback(ctx, &GoogleCallbackRequest{
		Code:      "code",
		State:     authURL.State,
		IPAddress: "10.0.0.1",
		UserAgent: "test",
	})
	if err != nil {
		t.Fatalf("HandleGoogleCallback: %v", err)
	}
	return resp
}

func codeOf(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestHandleGoogleCallback_CreatesUserAndWorkspace(t *testing.T) {
	f := newFixture(t)
	resp := f.login(t)

	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", resp)
	}
	if resp.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expires_in %d", resp.ExpiresIn)
	}

	memberships, err := f.workspaces.ListMembershipsForUser(context.Background(), resp.User.ID)
	if err != nil {
		t.Fatalf("ListMembershipsForUser: %v", err)
	}
	if len(memberships) != 1 || memberships[0].Role != "owner" {
		t.Fatalf("expected one owner membership, got %+v", memberships)
	}
	ws, err := f.workspaces.FindByID(context.Background(), memberships[0].WorkspaceID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if ws.Name != "Grace's Workspace" || ws.Plan != "free" {
		t.Fatalf("unexpected workspace %+v", ws)
	}

	// The raw refresh token is never stored
	if _, err := f.sessions.FindByTokenHash(context.Background(), resp.RefreshToken); err == nil {
		t.Fatalf("session must be keyed by the token hash")
	}
}

func TestHandleGoogleCallback_SecondLoginReusesAccount(t *testing.T) {
	f := newFixture(t)
	first := f.login(t)
	second := f.login(t)

	if first.User.ID != second.User.ID {
		t.Fatalf("expected same user, got %s and %s", first.User.ID, second.User.ID)
	}
	memberships, _ := f.workspaces.ListMembershipsForUser(context.Background(), first.User.ID)
	if len(memberships) != 1 {
		t.Fatalf("second login must not create another workspace, got %d", len(memberships))
	}
}

func TestHandleGoogleCallback_RejectsUnknownState(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.HandleGoogleCallback(context.Background(), &GoogleCallbackRequest{Code: "c", State: "forged"})
	if codeOf(t, err) != errors.ErrorCode_AUTH_OAUTH_STATE_MISMATCH {
		t.Fatalf("expected state mismatch, got %v", err)
	}
}

func TestHandleGoogleCallback_StateIsSingleUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	authURL, _ := f.svc.GetGoogleAuthURL(ctx)

	if _, err := f.svc.HandleGoogleCallback(ctx, &GoogleCallbackRequest{Code: "c", State: authURL.State}); err != nil {
		t.Fatalf("first callback: %v", err)
	}
	if _, err := f.svc.HandleGoogleCallback(ctx, &GoogleCallbackRequest{Code: "c", State: authURL.State}); err == nil {
		t.Fatalf("replayed state must be rejected")
	}
}

func TestRefreshAccessToken(t *testing.T) {
	f := newFixture(t)
	resp := f.login(t)

	refreshed, err := f.svc.RefreshAccessToken(context.Background(), resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.User.ID != resp.User.ID {
		t.Fatalf("unexpected refresh response %+v", refreshed)
	}

	if _, err := f.svc.RefreshAccessToken(context.Background(), "not-a-token"); codeOf(t, err) != errors.ErrorCode_AUTH_INVALID_REFRESH_TOKEN {
		t.Fatalf("expected invalid refresh token, got %v", err)
	}
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	f := newFixture(t)
	resp := f.login(t)

	if err := f.svc.Logout(context.Background(), resp.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := f.svc.RefreshAccessToken(context.Background(), resp.RefreshToken); err == nil {
		t.Fatalf("refresh after logout must fail")
	}
}

func TestValidateSession(t *testing.T) {
	f := newFixture(t)
	resp := f.login(t)

	user, err := f.svc.ValidateSession(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if user.Email != "grace@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}

	if _, err := f.svc.ValidateSession(context.Background(), resp.RefreshToken); codeOf(t, err) != errors.ErrorCode_AUTH_INVALID_TOKEN {
		t.Fatalf("refresh token must not validate as access token, got %v", err)
	}
}

func TestLogoutAll(t *testing.T) {
	f := newFixture(t)
	a := f.login(t)
	b := f.login(t)

	if err := f.svc.LogoutAll(context.Background(), a.User.ID); err != nil {
		t.Fatalf("LogoutAll: %v", err)
	}
	for _, token := range []string{a.RefreshToken, b.RefreshToken} {
		if _, err := f.svc.RefreshAccessToken(context.Background(), token); err == nil {
			t.Fatalf("expected all sessions revoked")
		}
	}
}

func TestLogoutEverywhere(t *testing.T) {
	f := newFixture(t)
	a := f.login(t)
	b := f.login(t)

	if err := f.svc.LogoutEverywhere(context.Background(), b.RefreshToken); err != nil {
		t.Fatalf("LogoutEverywhere: %v", err)
	}
	if _, err := f.svc.RefreshAccessToken(context.Background(), a.RefreshToken); err == nil {
		t.Fatalf("expected the other session revoked too")
	}
	if err := f.svc.LogoutEverywhere(context.Background(), b.RefreshToken); err == nil {
		t.Fatalf("a revoked token cannot log out again")
	}
}
