package loader

import (
	"context"

	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/services"
)

type BrandAPI interface {
	Get(ctx context.Context, id string) (*models.Brand, error)
	Update(ctx context.Context, id string, in services.BrandInput) (*models.Brand, error)
}

type BrandLoader struct {
	*Entity[*models.Brand]
	svc BrandAPI
}

func NewBrandLoader(svc BrandAPI, opts Options[*models.Brand]) *BrandLoader {
	return &BrandLoader{Entity: NewEntity(svc.Get, "Failed to fetch brand", opts), svc: svc}
}

func (l *BrandLoader) Update(ctx context.Context, in services.BrandInput) (*models.Brand, error) {
	id := l.ID()
	return l.Mutate(ctx, "Failed to update brand", func(ctx context.Context) (*models.Brand, error) {
		return l.svc.Update(ctx, id, in)
	})
}

type InfluencerAPI interface {
	Get(ctx context.Context, id string) (*models.Influencer, error)
	Update(ctx context.Context, id string, in services.InfluencerInput) (*models.Influencer, error)
	FollowerStats(ctx context.Context, id string) (*models.FollowerStats, error)
}

type InfluencerLoader struct {
	*Entity[*models.Influencer]
	Stats *Entity[*models.FollowerStats]
	svc   InfluencerAPI
}

// NewInfluencerLoader also prepares a follower-stats entity; stats are fetched on demand only.
func NewInfluencerLoader(svc InfluencerAPI, opts Options[*models.Influencer]) *InfluencerLoader {
	return &InfluencerLoader{
		Entity: NewEntity(svc.Get, "Failed to fetch influencer", opts),
		Stats:  NewEntity(svc.FollowerStats, "Failed to fetch follower stats", Options[*models.FollowerStats]{ID: opts.ID}),
		svc:    svc,
	}
}

func (l *InfluencerLoader) Update(ctx context.Context, in services.InfluencerInput) (*models.Influencer, error) {
	id := l.ID()
	return l.Mutate(ctx, "Failed to update influencer", func(ctx context.Context) (*models.Influencer, error) {
		return l.svc.Update(ctx, id, in)
	})
}

func (l *InfluencerLoader) Close() {
	l.Entity.Close()
	l.Stats.Close()
}
