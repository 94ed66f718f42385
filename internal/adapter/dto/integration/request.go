package integration

// UpdateSettingsRequest changes the Slack channel or the Linear team and
// auto-create flag
type UpdateSettingsRequest struct {
	ChannelID  *string `json:"channel_id,omitempty" validate:"omitempty,max=64"`
	TeamID     *string `json:"team_id,omitempty" validate:"omitempty,max=64"`
	AutoCreate *bool   `json:"auto_create,omitempty"`
}

// ConnectResponse carries the provider authorize URL
type ConnectResponse struct {
	URL string `json:"url"`
}
