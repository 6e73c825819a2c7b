package viewmodel

import (
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/rbac"
	"github.com/shopspring/decimal"
)

type CampaignCard struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	BrandID     string          `json:"brandId"`
	BrandName   string          `json:"brandName"`
	BrandAvatar string          `json:"brandAvatar,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	Status      string          `json:"status"`
	StatusLabel string          `json:"statusLabel"`
	IsClosed    bool            `json:"isClosed"`
	Platforms   []string        `json:"platforms"`
	Tags        []string        `json:"tags"`
	Location    string          `json:"location"`
	Saved       bool            `json:"saved"`
}

func NewCampaignCard(c models.Campaign, saved bool) CampaignCard {
	return CampaignCard{
		ID:          c.ID,
		Name:        c.Name,
		BrandID:     c.BrandID,
		BrandName:   orDefault(c.BrandName, PlaceholderBrandName),
		BrandAvatar: c.BrandAvatar,
		Budget:      c.Budget,
		Status:      c.Status,
		StatusLabel: StatusLabel(c.Status),
		IsClosed:    models.IsClosed(c.Status),
		Platforms:   nonNil(c.Platforms),
		Tags:        nonNil(c.Tags),
		Location:    orDefault(c.Location, PlaceholderLocation),
		Saved:       saved,
	}
}

// CampaignCards builds cards in order; saved may be nil.
func CampaignCards(cs []models.Campaign, saved func(id string) bool) []CampaignCard {
	out := make([]CampaignCard, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewCampaignCard(c, saved != nil && saved(c.ID)))
	}
	return out
}

type CampaignDetail struct {
	CampaignCard
	Description string         `json:"description"`
	Attachments []string       `json:"attachments"`
	CanEdit     bool           `json:"canEdit"`
	CanApply    bool           `json:"canApply"`
	CanSave     bool           `json:"canSave"`
	Similar     []CampaignCard `json:"similar"`
}

// NewCampaignDetail derives the detail view. Applying is offered only while the campaign is open.
func NewCampaignDetail(c models.Campaign, similar []models.Campaign, saved bool, savedIDs func(string) bool, v rbac.Viewer) CampaignDetail {
	card := NewCampaignCard(c, saved)
	return CampaignDetail{
		CampaignCard: card,
		Description:  orDefault(c.Description, PlaceholderDescription),
		Attachments:  nonNil(c.Attachments),
		CanEdit:      v.CanManageCampaign(c.BrandID),
		CanApply:     v.CanApply() && !card.IsClosed,
		CanSave:      v.CanSave(),
		Similar:      CampaignCards(similar, savedIDs),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
