package pages

import (
	"context"

	"github.com/influencer-marketplace/webclient/internal/discovery"
	"github.com/influencer-marketplace/webclient/internal/services"
	"github.com/influencer-marketplace/webclient/internal/viewmodel"
)

type DiscoveryView struct {
	Results []viewmodel.InfluencerCard `json:"results"`
	Count   int                        `json:"count"`
}

type DiscoveryPage struct {
	search *discovery.Discovery
}

func (p *DiscoveryPage) Search(ctx context.Context, q services.InfluencerQuery) (DiscoveryView, error) {
	cards, err := p.search.Search(ctx, q)
	if err != nil {
		return DiscoveryView{}, err
	}
	return DiscoveryView{Results: cards, Count: len(cards)}, nil
}
