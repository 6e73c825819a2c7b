// Package pages composes loaders, editors and view models into the marketplace screens.
// A page is built per viewer and per request; it owns its loaders and must be closed.
package pages

import (
	"context"
	"errors"

	"github.com/influencer-marketplace/webclient/internal/discovery"
	"github.com/influencer-marketplace/webclient/internal/linkpreview"
	"github.com/influencer-marketplace/webclient/internal/rbac"
	"github.com/influencer-marketplace/webclient/internal/saved"
	"github.com/influencer-marketplace/webclient/internal/services"
	"go.uber.org/zap"
)

var (
	ErrNotAllowed           = errors.New("not allowed")
	ErrConfirmationRequired = errors.New("confirmation required")
)

type PreviewFetcher interface {
	Fetch(ctx context.Context, url string) (*linkpreview.Preview, error)
}

type Factory struct {
	Campaigns   *services.CampaignService
	Saved       *services.SavedCampaignService
	Brands      *services.BrandService
	Influencers *services.InfluencerService
	Auth        *services.AuthService
	// Previews is optional; without it brand pages carry no website preview.
	Previews  PreviewFetcher
	BatchSize int
	MaxTags   int
	Log       *zap.Logger
}

func (f *Factory) tracker(v rbac.Viewer) *saved.Tracker {
	if !v.CanSave() {
		return nil
	}
	return saved.NewTracker(f.Saved, f.Log)
}

func (f *Factory) Discovery() *DiscoveryPage {
	enricher := discovery.NewEnricher(f.Influencers, discovery.NewMetricsCache(), f.BatchSize, f.Log)
	return &DiscoveryPage{search: discovery.New(f.Influencers, enricher, f.Log)}
}
