package integration

import (
	"context"
	stdErrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	slackgo "github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-actions/errors"
	"github.com/johnquangdev/meeting-actions/internal/domain/entities"
	"github.com/johnquangdev/meeting-actions/internal/domain/repositories"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/linear"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/msgraph"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/oauth"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/slack"
	"github.com/johnquangdev/meeting-actions/internal/infrastructure/external/zoom"
)

// refreshSkew refreshes tokens that expire within this window
const refreshSkew = 2 * time.Minute

// SlackAPI is the Slack surface the service uses
type SlackAPI interface {
	PostMessage(ctx context.Context, token, channel, text string, blocks []slackgo.Block) (string, error)
	ListChannels(ctx context.Context, token string) ([]slack.Channel, error)
}

// LinearAPI is the Linear surface the service uses
type LinearAPI interface {
	CreateIssue(ctx context.Context, token string, in linear.IssueInput) (*linear.Issue, error)
	ListTeams(ctx context.Context, token string) ([]linear.Team, error)
}

// TranscriptDownloader fetches a transcript file with an OAuth token
type TranscriptDownloader interface {
	DownloadTranscript(ctx context.Context, accessToken, url string) (string, error)
}

// ZoomAPI downloads recordings and signs them for the speech-to-text provider.
// Both refuse URLs outside Zoom's hosts.
type ZoomAPI interface {
	TranscriptDownloader
	AuthorizedURL(downloadURL, accessToken string) (string, error)
}

// Clients groups the external APIs called with integration tokens
type Clients struct {
	Slack  SlackAPI
	Linear LinearAPI
	Zoom   ZoomAPI
	Graph  TranscriptDownloader
}

// Service connects workspaces to third-party services and calls them with the stored tokens
type Service struct {
	providers    oauth.Providers
	states       *oauth.StateManager
	integrations repositories.IntegrationRepository
	workspaces   repositories.WorkspaceRepository
	clients      Clients
	appURL       string
	logger       *zap.Logger
}

// NewService creates an integration service
func NewService(
	providers oauth.Providers,
	states *oauth.StateManager,
	integrations repositories.IntegrationRepository,
	workspaces repositories.WorkspaceRepository,
	clients Clients,
	appURL string,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		providers:    providers,
		states:       states,
		integrations: integrations,
		workspaces:   workspaces,
		clients:      clients,
		appURL:       strings.TrimRight(appURL, "/"),
		logger:       logger,
	}
}

// connectState is bound to the OAuth state parameter of a connect flow
type connectState struct {
	WorkspaceID uuid.UUID                `json:"workspace_id"`
	UserID      uuid.UUID                `json:"user_id"`
	Type        entities.IntegrationType `json:"type"`
}

func (s *Service) provider(t entities.IntegrationType) (oauth.Provider, error) {
	if !t.IsValid() {
		return nil, errors.ErrIntegrationUnsupported(string(t))
	}
	p, ok := s.providers[t]
	if !ok {
		return nil, errors.ErrIntegrationUnsupported(string(t))
	}
	return p, nil
}

// ConnectURL starts an OAuth connect flow and returns the provider's authorize URL
func (s *Service) ConnectURL(ctx context.Context, workspaceID, userID uuid.UUID, t entities.IntegrationType) (string, error) {
	p, err := s.provider(t)
	if err != nil {
		return "", err
	}
	if ok, limit, err := s.withinIntegrationLimit(ctx, workspaceID, t); err != nil {
		return "", errors.ErrInternal(err)
	} else if !ok {
		return "", errors.ErrPlanLimitExceeded("integrations", limit)
	}
	state, err := s.states.GenerateStateFor(ctx, connectState{WorkspaceID: workspaceID, UserID: userID, Type: t})
	if err != nil {
		return "", errors.ErrCacheFailed("store oauth state", err)
	}
	return p.AuthURL(state), nil
}

// CallbackParams are the query parameters of a provider redirect
type CallbackParams struct {
	Code  string
	State string
	Error string
}

// HandleCallback completes a connect flow and returns the dashboard URL to
// redirect to, carrying either ?success=<type> or ?error=<reason>
func (s *Service) HandleCallback(ctx context.Context, t entities.IntegrationType, params CallbackParams) string {
	integ, reason := s.completeConnect(ctx, t, params)
	if reason != "" {
		s.logger.Warn("⚠️ Integration connect failed",
			zap.String("type", string(t)),
			zap.String("reason", reason),
		)
		return s.dashboardURL("error", reason)
	}

	s.logger.Info("🔗 Integration connected",
		zap.String("workspace_id", integ.WorkspaceID.String()),
		zap.String("type", string(t)),
	)
	return s.dashboardURL("success", string(t))
}

func (s *Service) dashboardURL(key, value string) string {
	return s.appURL + "/dashboard/integrations?" + url.Values{key: {value}}.Encode()
}

func (s *Service) completeConnect(ctx context.Context, t entities.IntegrationType, params CallbackParams) (*entities.Integration, string) {
	if params.Error != "" {
		return nil, params.Error
	}
	if params.Code == "" || params.State == "" {
		return nil, "missing_params"
	}

	var st connectState
	if err := s.states.Consume(ctx, params.State, &st); err != nil || st.Type != t {
		return nil, "invalid_state"
	}

	p, err := s.provider(t)
	if err != nil {
		return nil, "unsupported"
	}

	token, err := p.Exchange(ctx, params.Code)
	if err != nil {
		s.logger.Error("token exchange failed", zap.String("type", string(t)), zap.Error(err))
		return nil, "token_exchange_failed"
	}
	account, err := p.Account(ctx, token)
	if err != nil {
		s.logger.Error("account lookup failed", zap.String("type", string(t)), zap.Error(err))
		return nil, "account_lookup_failed"
	}

	// Checked again here: two connect flows can be in flight at once
	if ok, _, err := s.withinIntegrationLimit(ctx, st.WorkspaceID, t); err != nil {
		s.logger.Error("integration limit check failed", zap.Error(err))
		return nil, "internal_error"
	} else if !ok {
		return nil, entities.FailureReasonPlanLimit
	}

	integ := entities.NewIntegration(st.WorkspaceID, t, st.UserID)
	integ.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		integ.RefreshToken = &token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry
		integ.ExpiresAt = &expiry
	}
	if account.TeamID != "" {
		integ.TeamID = &account.TeamID
	}
	if account.TeamName != "" {
		integ.TeamName = &account.TeamName
	}
	for k, v := range account.Metadata {
		integ.SetSetting(k, v)
	}

	// Keep the settings of a reconnected integration
	if existing, err := s.integrations.Find(ctx, st.WorkspaceID, t); err == nil {
		for k, v := range existing.Metadata {
			if _, set := integ.Metadata[k]; !set {
				integ.SetSetting(k, v)
			}
		}
	}

	if err := s.integrations.Upsert(ctx, integ); err != nil {
		s.logger.Error("failed to store integration", zap.Error(err))
		return nil, "internal_error"
	}
	return integ, ""
}

// withinIntegrationLimit reports whether t may be connected. Reconnecting an
// existing type never counts against the plan.
func (s *Service) withinIntegrationLimit(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) (bool, int, error) {
	if _, err := s.integrations.Find(ctx, workspaceID, t); err == nil {
		return true, 0, nil
	} else if !stdErrors.Is(err, entities.ErrIntegrationNotFound) {
		return false, 0, err
	}

	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return false, 0, err
	}
	count, err := s.integrations.CountByWorkspace(ctx, workspaceID)
	if err != nil {
		return false, 0, err
	}
	limit := entities.LimitsFor(ws.Plan).Integrations
	return entities.WithinLimit(limit, int(count)), limit, nil
}

// List returns a workspace's integrations. Tokens never leave the service.
func (s *Service) List(ctx context.Context, workspaceID uuid.UUID) ([]*entities.Integration, error) {
	list, err := s.integrations.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, errors.ErrInternal(err)
	}
	if list == nil {
		list = []*entities.Integration{}
	}
	return list, nil
}

// Get returns one integration of a workspace
func (s *Service) Get(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) (*entities.Integration, error) {
	if !t.IsValid() {
		return nil, errors.ErrIntegrationUnsupported(string(t))
	}
	integ, err := s.integrations.Find(ctx, workspaceID, t)
	if err != nil {
		if stdErrors.Is(err, entities.ErrIntegrationNotFound) {
			return nil, errors.ErrIntegrationNotConnected(string(t))
		}
		return nil, errors.ErrInternal(err)
	}
	return integ, nil
}

// Find returns the integration or entities.ErrIntegrationNotFound
func (s *Service) Find(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) (*entities.Integration, error) {
	return s.integrations.Find(ctx, workspaceID, t)
}

// Disconnect removes an integration
func (s *Service) Disconnect(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) error {
	if _, err := s.Get(ctx, workspaceID, t); err != nil {
		return err
	}
	if err := s.integrations.Delete(ctx, workspaceID, t); err != nil {
		return errors.ErrInternal(err)
	}
	s.logger.Info("🔌 Integration disconnected",
		zap.String("workspace_id", workspaceID.String()),
		zap.String("type", string(t)),
	)
	return nil
}

// Settings are the user-editable options of an integration
type Settings struct {
	ChannelID  *string `json:"channel_id,omitempty"`
	TeamID     *string `json:"team_id,omitempty"`
	AutoCreate *bool   `json:"auto_create,omitempty"`
}

// UpdateSettings changes the Slack channel or the Linear team and auto-create flag
func (s *Service) UpdateSettings(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType, in Settings) (*entities.Integration, error) {
	integ, err := s.Get(ctx, workspaceID, t)
	if err != nil {
		return nil, err
	}

	switch t {
	case entities.IntegrationSlack:
		if in.TeamID != nil || in.AutoCreate != nil {
			return nil, errors.ErrInvalidArgument("slack only accepts channel_id")
		}
		if in.ChannelID != nil {
			integ.SetSetting(entities.SettingChannelID, strings.TrimSpace(*in.ChannelID))
		}
	case entities.IntegrationLinear:
		if in.ChannelID != nil {
			return nil, errors.ErrInvalidArgument("linear accepts team_id and auto_create")
		}
		if in.TeamID != nil {
			integ.SetSetting(entities.SettingTeamID, strings.TrimSpace(*in.TeamID))
		}
		if in.AutoCreate != nil {
			integ.SetSetting(entities.SettingAutoCreate, *in.AutoCreate)
		}
	default:
		return nil, errors.ErrInvalidArgument(fmt.Sprintf("%s has no settings", t))
	}

	if err := s.integrations.UpdateMetadata(ctx, integ.ID, integ.Metadata); err != nil {
		return nil, errors.ErrInternal(err)
	}
	return integ, nil
}

// AccessToken returns a usable token, refreshing and persisting it when it is
// about to expire and a refresh token is available
func (s *Service) AccessToken(ctx context.Context, integ *entities.Integration) (string, error) {
	if !integ.NeedsRefresh(refreshSkew) || integ.RefreshToken == nil || *integ.RefreshToken == "" {
		return integ.AccessToken, nil
	}
	p, ok := s.providers[integ.Type]
	if !ok {
		return integ.AccessToken, nil
	}

	token, err := p.Refresh(ctx, *integ.RefreshToken)
	if err != nil {
		return "", errors.ErrExternalAPIFailed(string(integ.Type), fmt.Errorf("token refresh failed: %w", err))
	}

	refresh := integ.RefreshToken
	if token.RefreshToken != "" {
		refresh = &token.RefreshToken
	}
	var expiry *time.Time
	if !token.Expiry.IsZero() {
		e := token.Expiry
		expiry = &e
	}
	if err := s.integrations.UpdateTokens(ctx, integ.ID, token.AccessToken, refresh, expiry); err != nil {
		return "", errors.ErrInternal(err)
	}

	integ.AccessToken = token.AccessToken
	integ.RefreshToken = refresh
	integ.ExpiresAt = expiry

	s.logger.Info("🔄 Integration token refreshed",
		zap.String("workspace_id", integ.WorkspaceID.String()),
		zap.String("type", string(integ.Type)),
	)
	return token.AccessToken, nil
}

func (s *Service) tokenFor(ctx context.Context, workspaceID uuid.UUID, t entities.IntegrationType) (*entities.Integration, string, error) {
	integ, err := s.Get(ctx, workspaceID, t)
	if err != nil {
		return nil, "", err
	}
	token, err := s.AccessToken(ctx, integ)
	if err != nil {
		return nil, "", err
	}
	return integ, token, nil
}

// FetchTranscript downloads a meeting transcript with the token of the
// integration the meeting came from
func (s *Service) FetchTranscript(ctx context.Context, workspaceID uuid.UUID, source entities.MeetingSource, fileURL string) (string, error) {
	var (
		t          entities.IntegrationType
		downloader TranscriptDownloader
	)
	switch source {
	case entities.MeetingSourceZoom:
		t = entities.IntegrationZoom
		if s.clients.Zoom != nil {
			downloader = s.clients.Zoom
		}
	case entities.MeetingSourceTeams:
		t, downloader = entities.IntegrationTeams, s.clients.Graph
	default:
		return "", fmt.Errorf("no transcript download for source %q", source)
	}
	if downloader == nil {
		return "", errors.ErrIntegrationUnsupported(string(t))
	}

	_, token, err := s.tokenFor(ctx, workspaceID, t)
	if err != nil {
		return "", err
	}
	text, err := downloader.DownloadTranscript(ctx, token, fileURL)
	if stdErrors.Is(err, zoom.ErrForeignHost) || stdErrors.Is(err, msgraph.ErrForeignResource) {
		return "", errors.ErrValidation(err)
	}
	if err != nil {
		return "", errors.ErrExternalAPIFailed(string(t), err)
	}
	return text, nil
}

// AudioURL returns a recording URL a transcription service can fetch. Zoom
// recordings need the workspace's token in the URL.
func (s *Service) AudioURL(ctx context.Context, workspaceID uuid.UUID, source entities.MeetingSource, fileURL string) (string, error) {
	if source != entities.MeetingSourceZoom {
		return fileURL, nil
	}
	if s.clients.Zoom == nil {
		return "", errors.ErrIntegrationUnsupported(string(entities.IntegrationZoom))
	}
	_, token, err := s.tokenFor(ctx, workspaceID, entities.IntegrationZoom)
	if err != nil {
		return "", err
	}
	signed, err := s.clients.Zoom.AuthorizedURL(fileURL, token)
	if err != nil {
		return "", errors.ErrValidation(err)
	}
	return signed, nil
}

// PostSlackMessage posts to channel, or to the configured channel when empty,
// and returns the message timestamp
func (s *Service) PostSlackMessage(ctx context.Context, workspaceID uuid.UUID, channel, text string, blocks []slackgo.Block) (string, error) {
	if s.clients.Slack == nil {
		return "", errors.ErrIntegrationUnsupported(string(entities.IntegrationSlack))
	}
	integ, token, err := s.tokenFor(ctx, workspaceID, entities.IntegrationSlack)
	if err != nil {
		return "", err
	}
	if channel == "" {
		channel = integ.StringSetting(entities.SettingChannelID)
	}
	if channel == "" {
		return "", errors.ErrInvalidArgument("channel is required")
	}
	if strings.TrimSpace(text) == "" && len(blocks) == 0 {
		return "", errors.ErrInvalidArgument("text or blocks are required")
	}

	ts, err := s.clients.Slack.PostMessage(ctx, token, channel, text, blocks)
	if err != nil {
		return "", errors.ErrExternalAPIFailed(string(entities.IntegrationSlack), err)
	}
	return ts, nil
}

// ListSlackChannels lists the channels the Slack bot can post to
func (s *Service) ListSlackChannels(ctx context.Context, workspaceID uuid.UUID) ([]slack.Channel, error) {
	if s.clients.Slack == nil {
		return nil, errors.ErrIntegrationUnsupported(string(entities.IntegrationSlack))
	}
	_, token, err := s.tokenFor(ctx, workspaceID, entities.IntegrationSlack)
	if err != nil {
		return nil, err
	}
	channels, err := s.clients.Slack.ListChannels(ctx, token)
	if err != nil {
		return nil, errors.ErrExternalAPIFailed(string(entities.IntegrationSlack), err)
	}
	return channels, nil
}

// CreateLinearIssue files an issue, defaulting to the configured team
func (s *Service) CreateLinearIssue(ctx context.Context, workspaceID uuid.UUID, in linear.IssueInput) (*linear.Issue, error) {
	if s.clients.Linear == nil {
		return nil, errors.ErrIntegrationUnsupported(string(entities.IntegrationLinear))
	}
	integ, token, err := s.tokenFor(ctx, workspaceID, entities.IntegrationLinear)
	if err != nil {
		return nil, err
	}
	if in.TeamID == "" {
		in.TeamID = integ.StringSetting(entities.SettingTeamID)
	}
	if in.TeamID == "" {
		return nil, errors.ErrInvalidArgument("team_id is required")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.ErrInvalidArgument("title is required")
	}

	issue, err := s.clients.Linear.CreateIssue(ctx, token, in)
	if err != nil {
		return nil, errors.ErrExternalAPIFailed(string(entities.IntegrationLinear), err)
	}
	return issue, nil
}

// ListLinearTeams lists the teams issues can be filed to
func (s *Service) ListLinearTeams(ctx context.Context, workspaceID uuid.UUID) ([]linear.Team, error) {
	if s.clients.Linear == nil {
		return nil, errors.ErrIntegrationUnsupported(string(entities.IntegrationLinear))
	}
	_, token, err := s.tokenFor(ctx, workspaceID, entities.IntegrationLinear)
	if err != nil {
		return nil, err
	}
	teams, err := s.clients.Linear.ListTeams(ctx, token)
	if err != nil {
		return nil, errors.ErrExternalAPIFailed(string(entities.IntegrationLinear), err)
	}
	return teams, nil
}

// ResolveWorkspace finds the workspace connected to an external account
func (s *Service) ResolveWorkspace(ctx context.Context, t entities.IntegrationType, teamID string) (uuid.UUID, error) {
	if teamID == "" {
		return uuid.Nil, entities.ErrIntegrationNotFound
	}
	integ, err := s.integrations.FindByTeamID(ctx, t, teamID)
	if err != nil {
		return uuid.Nil, err
	}
	return integ.WorkspaceID, nil
}
