package pages

import (
	"context"
	"sync"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/loader"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/rbac"
	"github.com/influencer-marketplace/webclient/internal/saved"
	"github.com/influencer-marketplace/webclient/internal/services"
	"github.com/influencer-marketplace/webclient/internal/viewmodel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type CampaignDetailPage struct {
	campaign *loader.CampaignLoader
	svc      *services.CampaignService
	saved    *saved.Tracker
	viewer   rbac.Viewer
	log      *zap.Logger

	mu      sync.Mutex
	similar []models.Campaign
}

func (f *Factory) CampaignDetail(id string, v rbac.Viewer) *CampaignDetailPage {
	log := f.Log.With(zap.String("page", "campaign"), zap.String("campaign_id", id))
	return &CampaignDetailPage{
		campaign: loader.NewCampaignLoader(f.Campaigns, loader.Options[*models.Campaign]{ID: id}, log),
		svc:      f.Campaigns,
		saved:    f.tracker(v),
		viewer:   v,
		log:      log,
	}
}

// Load fetches the campaign, similar campaigns and the viewer's saved ids concurrently.
// Only a campaign failure is returned.
func (p *CampaignDetailPage) Load(ctx context.Context) error {
	var campaignErr error
	var g errgroup.Group
	g.Go(func() error {
		_, campaignErr = p.campaign.Refetch(ctx)
		return nil
	})
	g.Go(func() error {
		similar, err := p.svc.Similar(ctx, p.campaign.ID())
		if err != nil {
			p.log.Warn("similar campaigns unavailable", zap.Error(err))
			return nil
		}
		p.mu.Lock()
		p.similar = similar
		p.mu.Unlock()
		return nil
	})
	if p.saved != nil {
		g.Go(func() error {
			if err := p.saved.Load(ctx); err != nil {
				p.log.Warn("saved campaigns unavailable", zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return campaignErr
}

func (p *CampaignDetailPage) isSaved(id string) bool {
	return p.saved != nil && p.saved.IsSaved(id)
}

func (p *CampaignDetailPage) View() (viewmodel.CampaignDetail, error) {
	st := p.campaign.State()
	if !st.HasData {
		if st.Err != nil {
			return viewmodel.CampaignDetail{}, st.Err
		}
		return viewmodel.CampaignDetail{}, api.Validation("Campaign not loaded")
	}
	p.mu.Lock()
	similar := p.similar
	p.mu.Unlock()

	c := *st.Data
	return viewmodel.NewCampaignDetail(c, similar, p.isSaved(c.ID), p.isSaved, p.viewer), nil
}

// ToggleSave flips the bookmark optimistically and returns the resulting state.
func (p *CampaignDetailPage) ToggleSave(ctx context.Context) (bool, error) {
	if p.saved == nil {
		return false, ErrNotAllowed
	}
	return p.saved.Toggle(ctx, p.campaign.ID())
}

func (p *CampaignDetailPage) Apply(ctx context.Context, message string) (*models.Application, error) {
	if !p.viewer.CanApply() {
		return nil, ErrNotAllowed
	}
	if st := p.campaign.State(); st.HasData && st.Data.IsClosed() {
		return nil, api.Validation("This campaign is no longer accepting applications")
	}
	app, err := p.svc.Apply(ctx, p.campaign.ID(), services.ApplyInput{Message: message})
	if err != nil {
		return nil, api.Normalize(err, "Failed to apply to campaign")
	}
	p.log.Info("applied to campaign", zap.String("application_id", app.ID))
	return app, nil
}

// Delete removes the campaign. confirmed must be true; it stands in for an explicit user confirmation.
func (p *CampaignDetailPage) Delete(ctx context.Context, confirmed bool) error {
	st := p.campaign.State()
	if !st.HasData || !p.viewer.CanManageCampaign(st.Data.BrandID) {
		return ErrNotAllowed
	}
	if !confirmed {
		return ErrConfirmationRequired
	}
	return p.campaign.Delete(ctx, st.Data.ID)
}

// Update saves in over the loaded campaign. Only the owning brand or an admin may edit it.
func (p *CampaignDetailPage) Update(ctx context.Context, in services.CampaignInput) (*models.Campaign, error) {
	st := p.campaign.State()
	if !st.HasData || !p.viewer.CanManageCampaign(st.Data.BrandID) {
		return nil, ErrNotAllowed
	}
	return p.campaign.Update(ctx, st.Data.ID, in)
}

// CreateCampaign publishes a new campaign for the viewer's brand.
func (f *Factory) CreateCampaign(ctx context.Context, v rbac.Viewer, in services.CampaignInput) (*models.Campaign, error) {
	if !v.CanCreateCampaign() {
		return nil, ErrNotAllowed
	}
	l := loader.NewCampaignLoader(f.Campaigns, loader.Options[*models.Campaign]{}, f.Log.With(zap.String("page", "campaign")))
	defer l.Close()
	return l.Create(ctx, in)
}

func (p *CampaignDetailPage) Close() {
	p.campaign.Close()
}

type CampaignListView struct {
	Campaigns []viewmodel.CampaignCard `json:"campaigns"`
	Stats     viewmodel.CampaignStats  `json:"stats"`
}

type CampaignListPage struct {
	list   *loader.CampaignsLoader
	saved  *saved.Tracker
	viewer rbac.Viewer
	log    *zap.Logger
}

func (f *Factory) CampaignList(filter loader.CampaignFilter, v rbac.Viewer) *CampaignListPage {
	return &CampaignListPage{
		list:   loader.NewCampaignsLoader(f.Campaigns, filter, false, nil),
		saved:  f.tracker(v),
		viewer: v,
		log:    f.Log.With(zap.String("page", "campaigns")),
	}
}

func (p *CampaignListPage) Load(ctx context.Context) error {
	var listErr error
	var g errgroup.Group
	g.Go(func() error {
		_, listErr = p.list.Fetch(ctx)
		return nil
	})
	if p.saved != nil {
		g.Go(func() error {
			if err := p.saved.Load(ctx); err != nil {
				p.log.Warn("saved campaigns unavailable", zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return listErr
}

func (p *CampaignListPage) SetFilter(ctx context.Context, f loader.CampaignFilter) error {
	if err := p.list.SetFilter(ctx, f); err != nil {
		return err
	}
	_, err := p.list.Fetch(ctx)
	return err
}

func (p *CampaignListPage) View() (CampaignListView, error) {
	st := p.list.State()
	if st.Err != nil && !st.HasData {
		return CampaignListView{}, st.Err
	}
	var isSaved func(string) bool
	if p.saved != nil {
		isSaved = p.saved.IsSaved
	}
	return CampaignListView{
		Campaigns: viewmodel.CampaignCards(st.Data, isSaved),
		Stats:     viewmodel.ComputeCampaignStats(st.Data),
	}, nil
}

func (p *CampaignListPage) Close() {
	p.list.Close()
}
