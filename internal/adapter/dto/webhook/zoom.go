package webhook

import "github.com/johnquangdev/meeting-actions/internal/infrastructure/external/zoom"

// Zoom event names
const (
	ZoomEventURLValidation     = "endpoint.url_validation"
	ZoomEventRecordingComplete = "recording.completed"
	ZoomEventMeetingEnded      = "meeting.ended"
)

// ZoomEvent is the envelope of every Zoom webhook
type ZoomEvent struct {
	Event   string      `json:"event"`
	EventTS int64       `json:"event_ts"`
	Payload ZoomPayload `json:"payload"`
}

// ZoomPayload holds the fields used across the events we handle
type ZoomPayload struct {
	AccountID  string         `json:"account_id"`
	PlainToken string         `json:"plainToken"`
	Object     zoom.Recording `json:"object"`
}

// ZoomURLValidationResponse answers an endpoint.url_validation challenge
type ZoomURLValidationResponse struct {
	PlainToken     string `json:"plainToken"`
	EncryptedToken string `json:"encryptedToken"`
}
