package services

import (
	"context"
	"net/http"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
	"go.uber.org/zap"
)

type InfluencerService struct {
	client *api.Client
	log    *zap.Logger
}

func NewInfluencerService(client *api.Client, log *zap.Logger) *InfluencerService {
	return &InfluencerService{client: client, log: log}
}

type InfluencerQuery struct {
	Platform  string
	Tag       string
	Location  string
	SortBy    string
	SortOrder string
	Limit     int
}

func (q InfluencerQuery) values() api.Query {
	return api.Query{}.
		Set("platform", q.Platform).
		Set("tag", q.Tag).
		Set("location", q.Location).
		Set("sortBy", q.SortBy).
		Set("sortOrder", q.SortOrder).
		SetInt("limit", q.Limit)
}

type InfluencerInput struct {
	Bio            *string
	Description    *string
	Tags           []string
	Location       *models.Location
	SocialProfiles []models.SocialProfile
	ProfileImage   *api.Upload
	CoverImage     *api.Upload
}

func (in InfluencerInput) form() *api.Form {
	f := api.NewForm().
		Field("bio", in.Bio).
		Field("description", in.Description).
		Field("tags", in.Tags).
		Field("location", in.Location).
		Field("socialProfiles", in.SocialProfiles)
	if in.ProfileImage != nil {
		f.File("profileImage", *in.ProfileImage)
	}
	if in.CoverImage != nil {
		f.File("coverImage", *in.CoverImage)
	}
	return f
}

func (s *InfluencerService) List(ctx context.Context, q InfluencerQuery) ([]models.Influencer, error) {
	var out []models.Influencer
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         "/influencer",
		Query:        q.values(),
		ErrorMessage: "Failed to fetch influencers",
	}, &out)
	return out, err
}

func (s *InfluencerService) Get(ctx context.Context, id string) (*models.Influencer, error) {
	var out models.Influencer
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/influencer/", id),
		ErrorMessage: "Failed to fetch influencer",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *InfluencerService) Update(ctx context.Context, id string, in InfluencerInput) (*models.Influencer, error) {
	var out models.Influencer
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodPut,
		Path:         resourcePath("/influencer/", id),
		Form:         in.form(),
		ErrorMessage: "Failed to update profile",
	}, &out); err != nil {
		return nil, err
	}
	s.log.Info("influencer profile updated", zap.String("influencer_id", id))
	return &out, nil
}

func (s *InfluencerService) FollowerStats(ctx context.Context, id string) (*models.FollowerStats, error) {
	var out models.FollowerStats
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/influencer/", id, "/followers"),
		ErrorMessage: "Failed to fetch follower stats",
	}, &out); err != nil {
		return nil, err
	}
	if out.InfluencerID == "" {
		out.InfluencerID = id
	}
	return &out, nil
}

// Content lists shorts or videos published inside window (7d or 30d).
func (s *InfluencerService) Content(ctx context.Context, id, kind, window string) ([]models.ContentItem, error) {
	if window != "" && !models.IsValidContentWindow(window) {
		return nil, api.Validation("Unsupported time window: " + window)
	}

	var out []models.ContentItem
	err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/influencer/", id, "/content"),
		Query:        api.Query{}.Set("type", kind).Set("window", window),
		ErrorMessage: "Failed to fetch content",
	}, &out)
	return out, err
}
