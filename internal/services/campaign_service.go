package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CampaignService struct {
	client *api.Client
	log    *zap.Logger
}

func NewCampaignService(client *api.Client, log *zap.Logger) *CampaignService {
	return &CampaignService{client: client, log: log}
}

// CampaignQuery filters list endpoints. Zero fields are not sent.
type CampaignQuery struct {
	Status    string
	SortBy    string
	SortOrder string
	Limit     int
}

func (q CampaignQuery) values() api.Query {
	return api.Query{}.
		Set("status", q.Status).
		Set("sortBy", q.SortBy).
		Set("sortOrder", q.SortOrder).
		SetInt("limit", q.Limit)
}

// CampaignInput is the create/update payload. Nil fields are left untouched by the API.
type CampaignInput struct {
	Name        string
	Description *string
	Budget      *decimal.Decimal
	Status      string
	Platforms   []string
	Tags        []string
	Location    *string
	Attachments []api.Upload
}

func (in CampaignInput) validate(create bool) error {
	if create && strings.TrimSpace(in.Name) == "" {
		return api.Validation("Campaign name is required")
	}
	if in.Budget != nil && in.Budget.IsNegative() {
		return api.Validation("Budget cannot be negative")
	}
	if in.Status != "" && !models.IsValidCampaignStatus(in.Status) {
		return api.Validation("Unknown campaign status")
	}
	for _, p := range in.Platforms {
		if !models.IsValidPlatform(p) {
			return api.Validation("Unknown platform: " + p)
		}
	}
	return nil
}

func (in CampaignInput) form() *api.Form {
	f := api.NewForm()
	if name := strings.TrimSpace(in.Name); name != "" {
		f.Field("name", name)
	}
	f.Field("description", in.Description).
		Field("budget", in.Budget).
		Field("platforms", in.Platforms).
		Field("tags", in.Tags).
		Field("location", in.Location)
	if in.Status != "" {
		f.Field("status", in.Status)
	}
	for _, u := range in.Attachments {
		f.File("attachments", u)
	}
	return f
}

type ApplyInput struct {
	Message string `json:"message,omitempty"`
}

func (s *CampaignService) List(ctx context.Context, q CampaignQuery) ([]models.Campaign, error) {
	var out []models.Campaign
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         "/campaign",
		Query:        q.values(),
		ErrorMessage: "Failed to fetch campaigns",
	}, &out)
	return out, err
}

func (s *CampaignService) ListByBrand(ctx context.Context, brandID string, q CampaignQuery) ([]models.Campaign, error) {
	var out []models.Campaign
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/campaign/brand/", brandID),
		Query:        q.values(),
		ErrorMessage: "Failed to fetch brand campaigns",
	}, &out)
	return out, err
}

func (s *CampaignService) Get(ctx context.Context, id string) (*models.Campaign, error) {
	var out models.Campaign
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/campaign/", id),
		ErrorMessage: "Failed to fetch campaign",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CampaignService) Similar(ctx context.Context, id string) ([]models.Campaign, error) {
	var out []models.Campaign
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/campaign/similar/", id),
		ErrorMessage: "Failed to fetch similar campaigns",
	}, &out)
	return out, err
}

func (s *CampaignService) Create(ctx context.Context, in CampaignInput) (*models.Campaign, error) {
	if err := in.validate(true); err != nil {
		return nil, err
	}

	var out models.Campaign
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodPost,
		Path:         "/campaign",
		Form:         in.form(),
		ErrorMessage: "Failed to create campaign",
	}, &out); err != nil {
		return nil, err
	}

	s.log.Info("campaign created", zap.String("campaign_id", out.ID))
	return &out, nil
}

func (s *CampaignService) Update(ctx context.Context, id string, in CampaignInput) (*models.Campaign, error) {
	if err := in.validate(false); err != nil {
		return nil, err
	}

	var out models.Campaign
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodPut,
		Path:         resourcePath("/campaign/", id),
		Form:         in.form(),
		ErrorMessage: "Failed to update campaign",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CampaignService) Delete(ctx context.Context, id string) error {
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodDelete,
		Path:         resourcePath("/campaign/", id),
		ErrorMessage: "Failed to delete campaign",
	}, nil)
	if err == nil {
		s.log.Info("campaign deleted", zap.String("campaign_id", id))
	}
	return err
}

func (s *CampaignService) Apply(ctx context.Context, id string, in ApplyInput) (*models.Application, error) {
	var out models.Application
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodPost,
		Path:         resourcePath("/campaign/", id, "/apply"),
		JSON:         in,
		ErrorMessage: "Failed to apply to campaign",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
