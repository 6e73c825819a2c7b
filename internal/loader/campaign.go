package loader

import (
	"context"

	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/services"
	"go.uber.org/zap"
)

type CampaignAPI interface {
	Get(ctx context.Context, id string) (*models.Campaign, error)
	Create(ctx context.Context, in services.CampaignInput) (*models.Campaign, error)
	Update(ctx context.Context, id string, in services.CampaignInput) (*models.Campaign, error)
	Delete(ctx context.Context, id string) error
}

type CampaignLoader struct {
	*Entity[*models.Campaign]
	svc CampaignAPI
	log *zap.Logger
}

func NewCampaignLoader(svc CampaignAPI, opts Options[*models.Campaign], log *zap.Logger) *CampaignLoader {
	return &CampaignLoader{
		Entity: NewEntity(svc.Get, "Failed to fetch campaign", opts),
		svc:    svc,
		log:    log,
	}
}

func (l *CampaignLoader) Create(ctx context.Context, in services.CampaignInput) (*models.Campaign, error) {
	c, err := l.Mutate(ctx, "Failed to create campaign", func(ctx context.Context) (*models.Campaign, error) {
		return l.svc.Create(ctx, in)
	})
	if err != nil {
		return nil, err
	}
	l.remember(c.ID)
	l.log.Info("campaign created", zap.String("campaign_id", c.ID))
	return c, nil
}

func (l *CampaignLoader) Update(ctx context.Context, id string, in services.CampaignInput) (*models.Campaign, error) {
	c, err := l.Mutate(ctx, "Failed to update campaign", func(ctx context.Context) (*models.Campaign, error) {
		return l.svc.Update(ctx, id, in)
	})
	if err != nil {
		return nil, err
	}
	l.remember(c.ID)
	return c, nil
}

func (l *CampaignLoader) Delete(ctx context.Context, id string) error {
	if err := l.Remove(ctx, "Failed to delete campaign", func(ctx context.Context) error {
		return l.svc.Delete(ctx, id)
	}); err != nil {
		return err
	}
	l.log.Info("campaign deleted", zap.String("campaign_id", id))
	return nil
}

type CampaignsAPI interface {
	List(ctx context.Context, q services.CampaignQuery) ([]models.Campaign, error)
	ListByBrand(ctx context.Context, brandID string, q services.CampaignQuery) ([]models.Campaign, error)
	Delete(ctx context.Context, id string) error
}

// CampaignFilter selects the brand's campaigns when BrandID is set, otherwise the public listing.
type CampaignFilter struct {
	BrandID   string
	Status    string
	SortBy    string
	SortOrder string
	Limit     int
}

func (f CampaignFilter) query() services.CampaignQuery {
	return services.CampaignQuery{Status: f.Status, SortBy: f.SortBy, SortOrder: f.SortOrder, Limit: f.Limit}
}

type CampaignsLoader struct {
	*List[models.Campaign, CampaignFilter]
	svc CampaignsAPI
}

func NewCampaignsLoader(svc CampaignsAPI, filter CampaignFilter, autoFetch bool, onChange func(State[[]models.Campaign])) *CampaignsLoader {
	list := func(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
		if f.BrandID != "" {
			return svc.ListByBrand(ctx, f.BrandID, f.query())
		}
		return svc.List(ctx, f.query())
	}
	return &CampaignsLoader{
		List: NewList(list, "Failed to fetch campaigns", filter, autoFetch, onChange),
		svc:  svc,
	}
}

// Delete removes the campaign remotely and drops it from the loaded list.
func (l *CampaignsLoader) Delete(ctx context.Context, id string) error {
	return l.Mutate(ctx, "Failed to delete campaign",
		func(ctx context.Context) error { return l.svc.Delete(ctx, id) },
		func(items []models.Campaign) []models.Campaign {
			out := items[:0:0]
			for _, c := range items {
				if c.ID != id {
					out = append(out, c)
				}
			}
			return out
		})
}
