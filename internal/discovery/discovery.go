// Package discovery serves the influencer search view: list influencers, then enrich them with follower stats.
package discovery

import (
	"context"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/services"
	"github.com/influencer-marketplace/webclient/internal/viewmodel"
	"go.uber.org/zap"
)

type ListAPI interface {
	List(ctx context.Context, q services.InfluencerQuery) ([]models.Influencer, error)
}

type Discovery struct {
	list     ListAPI
	enricher *Enricher
	log      *zap.Logger
}

func New(list ListAPI, enricher *Enricher, log *zap.Logger) *Discovery {
	return &Discovery{list: list, enricher: enricher, log: log}
}

// Search lists influencers matching q and returns cards in list order.
// Only the list call can fail; missing stats leave a card without metrics.
func (d *Discovery) Search(ctx context.Context, q services.InfluencerQuery) ([]viewmodel.InfluencerCard, error) {
	influencers, err := d.list.List(ctx, q)
	if err != nil {
		return nil, api.Normalize(err, "Failed to fetch influencers")
	}

	ids := make([]string, 0, len(influencers))
	for _, in := range influencers {
		ids = append(ids, in.ID)
	}
	stats := d.enricher.Enrich(ctx, ids)

	cards := make([]viewmodel.InfluencerCard, 0, len(influencers))
	for _, in := range influencers {
		cards = append(cards, viewmodel.NewInfluencerCard(in, stats[in.ID]))
	}
	d.log.Debug("discovery search",
		zap.Int("results", len(cards)),
		zap.Int("enriched", len(stats)),
	)
	return cards, nil
}
