package services

import (
	"context"
	"net/http"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
	"go.uber.org/zap"
)

type SavedCampaignService struct {
	client *api.Client
	log    *zap.Logger
}

func NewSavedCampaignService(client *api.Client, log *zap.Logger) *SavedCampaignService {
	return &SavedCampaignService{client: client, log: log}
}

func (s *SavedCampaignService) Save(ctx context.Context, campaignID string) (*models.SavedCampaign, error) {
	var out models.SavedCampaign
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodPost,
		Path:         resourcePath("/saved-campaigns/", campaignID),
		ErrorMessage: "Failed to save campaign",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *SavedCampaignService) Unsave(ctx context.Context, campaignID string) error {
	return s.client.Do(ctx, api.Request{
		Method:       http.MethodDelete,
		Path:         resourcePath("/saved-campaigns/", campaignID),
		ErrorMessage: "Failed to remove saved campaign",
	}, nil)
}

func (s *SavedCampaignService) List(ctx context.Context) ([]models.SavedCampaign, error) {
	var out []models.SavedCampaign
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         "/saved-campaigns",
		ErrorMessage: "Failed to fetch saved campaigns",
	}, &out)
	return out, err
}

func (s *SavedCampaignService) IsSaved(ctx context.Context, campaignID string) (bool, error) {
	var out struct {
		IsSaved bool `json:"isSaved"`
	}
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/saved-campaigns/check/", campaignID),
		ErrorMessage: "Failed to check saved status",
	}, &out)
	return out.IsSaved, err
}

func (s *SavedCampaignService) IDs(ctx context.Context) ([]string, error) {
	var out []string
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         "/saved-campaigns/ids",
		ErrorMessage: "Failed to fetch saved campaigns",
	}, &out)
	return out, err
}
