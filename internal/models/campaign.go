package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign statuses
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusClosed    = "closed"
	CampaignStatusCompleted = "completed"
)

var AllCampaignStatuses = []string{
	CampaignStatusDraft, CampaignStatusActive, CampaignStatusClosed, CampaignStatusCompleted,
}

func IsValidCampaignStatus(s string) bool {
	for _, st := range AllCampaignStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// IsClosed is the only place closed-ness is derived from; campaigns carry no separate flag.
func IsClosed(status string) bool {
	return status == CampaignStatusClosed || status == CampaignStatusCompleted
}

type Campaign struct {
	ID          string          `json:"_id"`
	BrandID     string          `json:"brandId"`
	BrandName   string          `json:"brandName,omitempty"`
	BrandAvatar string          `json:"brandAvatar,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	Status      string          `json:"status"`
	Platforms   []string        `json:"platforms,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Location    string          `json:"location,omitempty"`
	Attachments []string        `json:"attachments,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (c *Campaign) IsClosed() bool {
	return IsClosed(c.Status)
}

// SavedCampaign is a bookmark row from /saved-campaigns.
type SavedCampaign struct {
	ID         string    `json:"_id"`
	CampaignID string    `json:"campaignId"`
	Campaign   *Campaign `json:"campaign,omitempty"`
	SavedAt    time.Time `json:"createdAt"`
}

type Application struct {
	ID           string    `json:"_id"`
	CampaignID   string    `json:"campaignId"`
	InfluencerID string    `json:"influencerId"`
	Message      string    `json:"message,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
