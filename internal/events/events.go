package events

import "context"

// Event types
const (
	EventCampaignSaved        = "campaign_saved"
	EventCampaignUnsaved      = "campaign_unsaved"
	EventApplicationSubmitted = "application_submitted"
	EventCampaignDeleted      = "campaign_deleted"
	EventCampaignCreated      = "campaign_created"
	EventCampaignUpdated      = "campaign_updated"
	EventProfileUpdated       = "profile_updated"
)

// Event is fanned out to websocket clients. Payload["user_id"] names the recipient.
type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// Recipient returns the user id the event is addressed to, or "" for none.
func (e Event) Recipient() string {
	id, _ := e.Payload["user_id"].(string)
	return id
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
