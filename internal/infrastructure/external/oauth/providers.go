package oauth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/pkg/config"
	"github.com/johnquangdev/meeting-actions/pkg/httpclient"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Account is the external account an integration was connected to
type Account struct {
	TeamID   string
	TeamName string
	Metadata map[string]interface{}
}

// Provider is an OAuth2 integration provider
type Provider interface {
	Type() entities.IntegrationType
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Account(ctx context.Context, token *oauth2.Token) (*Account, error)
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

// Providers maps integration types to their configured provider
type Providers map[entities.IntegrationType]Provider

// NewProviders builds a provider for every integration with client credentials
func NewProviders(cfg config.OAuthConfig, httpClient *http.Client) Providers {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	ps := Providers{}
	if cfg.Zoom.Configured() {
		ps[entities.IntegrationZoom] = NewZoomProvider(cfg.Zoom, httpClient)
	}
	if cfg.Slack.Configured() {
		ps[entities.IntegrationSlack] = NewSlackProvider(cfg.Slack, httpClient)
	}
	if cfg.Linear.Configured() {
		ps[entities.IntegrationLinear] = NewLinearProvider(cfg.Linear, httpClient)
	}
	if cfg.Teams.Configured() {
		ps[entities.IntegrationTeams] = NewTeamsProvider(cfg.Teams, httpClient)
	}
	return ps
}

// provider is the shared oauth2 plumbing behind every integration
type provider struct {
	kind       entities.IntegrationType
	config     *oauth2.Config
	authParams []oauth2.AuthCodeOption
	httpClient *http.Client
	apiBase    string
	account    func(ctx context.Context, p *provider, token *oauth2.Token) (*Account, error)
}

func (p *provider) Type() entities.IntegrationType {
	return p.kind
}

func (p *provider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, p.authParams...)
}

func (p *provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

func (p *provider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(p.clientContext(ctx), code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to exchange code: %w", p.kind, err)
	}
	return token, nil
}

func (p *provider) Account(ctx context.Context, token *oauth2.Token) (*Account, error) {
	acct, err := p.account(ctx, p, token)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load account: %w", p.kind, err)
	}
	if acct.Metadata == nil {
		acct.Metadata = map[string]interface{}{}
	}
	return acct, nil
}

func (p *provider) Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	src := p.config.TokenSource(p.clientContext(ctx), &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to refresh token: %w", p.kind, err)
	}
	return token, nil
}

func (p *provider) get(ctx context.Context, path string, token *oauth2.Token, out interface{}) error {
	return httpclient.DoJSON(ctx, p.httpClient, http.MethodGet, p.apiBase+path, httpclient.Bearer(token.AccessToken), nil, out)
}

func oauthConfig(c config.OAuthClientConfig, endpoint oauth2.Endpoint, scopes ...string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		RedirectURL:  c.RedirectURL,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

// NewZoomProvider creates the Zoom provider. Zoom wants client credentials in the Basic auth header.
func NewZoomProvider(c config.OAuthClientConfig, httpClient *http.Client) Provider {
	return &provider{
		kind: entities.IntegrationZoom,
		config: oauthConfig(c, oauth2.Endpoint{
			AuthURL:   "https://zoom.us/oauth/authorize",
			TokenURL:  "https://zoom.us/oauth/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		}),
		httpClient: httpClient,
		apiBase:    "https://api.zoom.us/v2",
		account:    zoomAccount,
	}
}

func zoomAccount(ctx context.Context, p *provider, token *oauth2.Token) (*Account, error) {
	var me struct {
		ID        string `json:"id"`
		AccountID string `json:"account_id"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := p.get(ctx, "/users/me", token, &me); err != nil {
		return nil, err
	}
	return &Account{
		TeamID:   me.AccountID,
		TeamName: strings.TrimSpace(me.FirstName + " " + me.LastName),
		Metadata: map[string]interface{}{
			entities.MetaAccountEmail: me.Email,
			"zoom_user_id":            me.ID,
		},
	}, nil
}

// NewSlackProvider creates the Slack provider (bot token, v2 OAuth)
func NewSlackProvider(c config.OAuthClientConfig, httpClient *http.Client) Provider {
	return &provider{
		kind: entities.IntegrationSlack,
		config: oauthConfig(c, oauth2.Endpoint{
			AuthURL:   "https://slack.com/oauth/v2/authorize",
			TokenURL:  "https://slack.com/api/oauth.v2.access",
			AuthStyle: oauth2.AuthStyleInParams,
		}),
		authParams: []oauth2.AuthCodeOption{
			oauth2.SetAuthURLParam("scope", "chat:write,channels:read,groups:read"),
		},
		httpClient: httpClient,
		account:    slackAccount,
	}
}

// slackAccount reads the workspace from the token response itself
func slackAccount(_ context.Context, _ *provider, token *oauth2.Token) (*Account, error) {
	acct := &Account{Metadata: map[string]interface{}{}}
	if team, ok := token.Extra("team").(map[string]interface{}); ok {
		acct.TeamID, _ = team["id"].(string)
		acct.TeamName, _ = team["name"].(string)
	}
	if acct.TeamID == "" {
		return nil, fmt.Errorf("token response has no team")
	}
	if v, ok := token.Extra("bot_user_id").(string); ok {
		acct.Metadata[entities.MetaBotUserID] = v
	}
	if v, ok := token.Extra("scope").(string); ok {
		acct.Metadata[entities.MetaScope] = v
	}
	return acct, nil
}

// NewLinearProvider creates the Linear provider
func NewLinearProvider(c config.OAuthClientConfig, httpClient *http.Client) Provider {
	return &provider{
		kind: entities.IntegrationLinear,
		config: oauthConfig(c, oauth2.Endpoint{
			AuthURL:   "https://linear.app/oauth/authorize",
			TokenURL:  "https://api.linear.app/oauth/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}),
		authParams: []oauth2.AuthCodeOption{
			oauth2.SetAuthURLParam("scope", "read,write"),
			oauth2.SetAuthURLParam("prompt", "consent"),
		},
		httpClient: httpClient,
		apiBase:    "https://api.linear.app",
		account:    linearAccount,
	}
}

func linearAccount(ctx context.Context, p *provider, token *oauth2.Token) (*Account, error) {
	var resp struct {
		Data struct {
			Viewer struct {
				ID           string `json:"id"`
				Email        string `json:"email"`
				Organization struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"organization"`
			} `json:"viewer"`
		} `json:"data"`
	}
	query := map[string]string{"query": "query { viewer { id email organization { id name } } }"}
	if err := httpclient.DoJSON(ctx, p.httpClient, http.MethodPost, p.apiBase+"/graphql", httpclient.Bearer(token.AccessToken), query, &resp); err != nil {
		return nil, err
	}
	org := resp.Data.Viewer.Organization
	if org.ID == "" {
		return nil, fmt.Errorf("viewer has no organization")
	}
	return &Account{
		TeamID:   org.ID,
		TeamName: org.Name,
		Metadata: map[string]interface{}{entities.MetaAccountEmail: resp.Data.Viewer.Email},
	}, nil
}

// NewTeamsProvider creates the Microsoft Teams provider on the Azure AD common tenant
func NewTeamsProvider(c config.OAuthClientConfig, httpClient *http.Client) Provider {
	return &provider{
		kind: entities.IntegrationTeams,
		config: oauthConfig(c, microsoft.AzureADEndpoint("common"),
			"User.Read", "OnlineMeetings.Read", "OnlineMeetings.ReadWrite", "Calendars.Read", "offline_access"),
		authParams: []oauth2.AuthCodeOption{
			oauth2.SetAuthURLParam("response_mode", "query"),
		},
		httpClient: httpClient,
		apiBase:    "https://graph.microsoft.com/v1.0",
		account:    teamsAccount,
	}
}

func teamsAccount(ctx context.Context, p *provider, token *oauth2.Token) (*Account, error) {
	var me struct {
		ID                string `json:"id"`
		DisplayName       string `json:"displayName"`
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := p.get(ctx, "/me", token, &me); err != nil {
		return nil, err
	}
	email := me.Mail
	if email == "" {
		email = me.UserPrincipalName
	}
	return &Account{
		TeamID:   me.ID,
		TeamName: me.DisplayName,
		Metadata: map[string]interface{}{entities.MetaAccountEmail: email},
	}, nil
}
