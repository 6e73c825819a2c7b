package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
	"go.uber.org/zap"
)

type AuthService struct {
	client *api.Client
	log    *zap.Logger
}

func NewAuthService(client *api.Client, log *zap.Logger) *AuthService {
	return &AuthService{client: client, log: log}
}

func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodGet,
		Path:         "/auth/me",
		ErrorMessage: "Failed to fetch account",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateName changes the account display name.
func (s *AuthService) UpdateName(ctx context.Context, name string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, api.Validation("Name cannot be empty")
	}

	var out models.User
	if err := s.client.Do(ctx, api.Request{
		Method:       http.MethodPut,
		Path:         "/auth/me",
		JSON:         map[string]string{"name": name},
		ErrorMessage: "Failed to update name",
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
