package oauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/pkg/config"
)

// Profile is the identity a sign-in provider vouches for
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProvider signs dashboard users in. It shares the integration
// plumbing but is not an integration itself.
type GoogleProvider struct {
	*provider
}

// NewGoogleProvider creates the Google sign-in provider
func NewGoogleProvider(c config.OAuthClientConfig, httpClient *http.Client) *GoogleProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &GoogleProvider{&provider{
		kind: entities.IntegrationType("google"),
		config: oauthConfig(c, google.Endpoint,
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		),
		authParams: []oauth2.AuthCodeOption{oauth2.SetAuthURLParam("prompt", "select_account")},
		httpClient: httpClient,
		apiBase:    "https://www.googleapis.com/oauth2/v2",
	}}
}

// Profile loads the signed-in user's profile. Accounts without an email
// cannot sign in.
func (g *GoogleProvider) Profile(ctx context.Context, token *oauth2.Token) (*Profile, error) {
	var p Profile
	if err := g.get(ctx, "/userinfo", token, &p); err != nil {
		return nil, fmt.Errorf("google: failed to load profile: %w", err)
	}
	if p.Email == "" {
		return nil, errors.New("google: profile has no email")
	}
	return &p, nil
}
