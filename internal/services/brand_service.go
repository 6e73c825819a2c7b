package services

import (
	"context"
	"net/http"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
	"go.uber.org/zap"
)

type BrandService struct {
	client *api.Client
	log    *zap.Logger
}

func NewBrandService(client *api.Client, log *zap.Logger) *BrandService {
	return &BrandService{client: client, log: log}
}

type BrandInput struct {
	Description *string
	Tags        []string
	Location    *string
	Website     *string
	Logo        *api.Upload
}

func (in BrandInput) form() *api.Form {
	f := api.NewForm().
		Field("description", in.Description).
		Field("tags", in.Tags).
		Field("location", in.Location).
		Field("website", in.Website)
	if in.Logo != nil {
		f.File("logo", *in.Logo)
	}
	return f
}

func (s *BrandService) Get(ctx context.Context, id string) (*models.Brand, error) {
	var out models.Brand
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/brand/", id),
		ErrorMessage: "Failed to fetch brand",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BrandService) GetByUser(ctx context.Context, userID string) (*models.Brand, error) {
	var out models.Brand
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         resourcePath("/brand/user/", userID),
		ErrorMessage: "Failed to fetch brand",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BrandService) Update(ctx context.Context, id string, in BrandInput) (*models.Brand, error) {
	var out models.Brand
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodPut,
		Path:         resourcePath("/brand/", id),
		Form:         in.form(),
		ErrorMessage: "Failed to update brand profile",
	}, &out); err != nil {
		return nil, err
	}
	s.log.Info("brand profile updated", zap.String("brand_id", id))
	return &out, nil
}
