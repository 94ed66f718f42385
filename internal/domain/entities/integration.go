package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IntegrationType names a third-party service a workspace can connect
type IntegrationType string

const (
	IntegrationZoom   IntegrationType = "zoom"
	IntegrationSlack  IntegrationType = "slack"
	IntegrationLinear IntegrationType = "linear"
	IntegrationTeams  IntegrationType = "teams"
)

// IntegrationTypes lists every supported integration
var IntegrationTypes = []IntegrationType{IntegrationZoom, IntegrationSlack, IntegrationLinear, IntegrationTeams}

// IsValid checks if the type is supported
func (t IntegrationType) IsValid() bool {
	for _, it := range IntegrationTypes {
		if it == t {
			return true
		}
	}
	return false
}

// Setting keys stored in Integration.Metadata
const (
	SettingChannelID  = "channel_id"
	SettingTeamID     = "team_id"
	SettingAutoCreate = "auto_create"
	MetaBotUserID     = "bot_user_id"
	MetaScope         = "scope"
	MetaAccountEmail  = "account_email"
)

// Integration holds the OAuth credentials a workspace granted for one service
type Integration struct {
	ID           uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	WorkspaceID  uuid.UUID         `json:"workspace_id" gorm:"type:uuid;not null;uniqueIndex:idx_integrations_workspace_type,priority:1"`
	Type         IntegrationType   `json:"type" gorm:"type:varchar(20);not null;uniqueIndex:idx_integrations_workspace_type,priority:2"`
	AccessToken  string            `json:"-" gorm:"type:text;not null"`
	RefreshToken *string           `json:"-" gorm:"type:text"`
	ExpiresAt    *time.Time        `json:"expires_at,omitempty"`
	TeamID       *string           `json:"team_id,omitempty" gorm:"type:varchar(255);index"`
	TeamName     *string           `json:"team_name,omitempty" gorm:"type:varchar(255)"`
	Metadata     datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	ConnectedBy  uuid.UUID         `json:"connected_by" gorm:"type:uuid;not null"`
	CreatedAt    time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name
func (Integration) TableName() string {
	return "integrations"
}

// NewIntegration creates an integration row
func NewIntegration(workspaceID uuid.UUID, t IntegrationType, connectedBy uuid.UUID) *Integration {
	now := time.Now()
	return &Integration{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Type:        t,
		ConnectedBy: connectedBy,
		Metadata:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// StringSetting reads a string value from metadata
func (i *Integration) StringSetting(key string) string {
	if i.Metadata == nil {
		return ""
	}
	if v, ok := i.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// BoolSetting reads a boolean value from metadata
func (i *Integration) BoolSetting(key string) bool {
	if i.Metadata == nil {
		return false
	}
	v, ok := i.Metadata[key].(bool)
	return ok && v
}

// SetSetting writes a metadata value
func (i *Integration) SetSetting(key string, value interface{}) {
	if i.Metadata == nil {
		i.Metadata = datatypes.JSONMap{}
	}
	i.Metadata[key] = value
}

// NeedsRefresh reports whether the access token expires within skew
func (i *Integration) NeedsRefresh(skew time.Duration) bool {
	return i.ExpiresAt != nil && time.Now().Add(skew).After(*i.ExpiresAt)
}
