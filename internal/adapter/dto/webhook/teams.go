package webhook

import "time"

// TeamsNotificationBatch is a Microsoft Graph change notification POST
type TeamsNotificationBatch struct {
	Value []TeamsNotification `json:"value"`
}

// TeamsNotification is one change notification
type TeamsNotification struct {
	SubscriptionID string            `json:"subscriptionId"`
	ChangeType     string            `json:"changeType"`
	ClientState    string            `json:"clientState"`
	Resource       string            `json:"resource"`
	ResourceData   TeamsResourceData `json:"resourceData"`
}

// TeamsResourceData is the transcript resource carried by a notification
type TeamsResourceData struct {
	ID               string          `json:"id"`
	Subject          string          `json:"subject"`
	Content          string          `json:"content"`
	CreatedDateTime  *time.Time      `json:"createdDateTime"`
	EndDateTime      *time.Time      `json:"endDateTime"`
	MeetingOrganizer *TeamsOrganizer `json:"meetingOrganizer"`
}

// TeamsOrganizer identifies the meeting organizer
type TeamsOrganizer struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// TeamsResult reports how many notifications became meetings
type TeamsResult struct {
	Accepted int `json:"accepted"`
	Skipped  int `json:"skipped"`
}
