package pages

import (
	"context"
	"sync"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/editor"
	"github.com/influencer-marketplace/webclient/internal/loader"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/rbac"
	"github.com/influencer-marketplace/webclient/internal/services"
	"github.com/influencer-marketplace/webclient/internal/viewmodel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type InfluencerView struct {
	Detail viewmodel.InfluencerDetail `json:"detail"`
	Window string                     `json:"window"`
	Kind   string                     `json:"kind"`
}

type influencerKey struct{ profile, stats, content uint64 }

type InfluencerDetailPage struct {
	inf    *loader.InfluencerLoader
	svc    *services.InfluencerService
	viewer rbac.Viewer
	log    *zap.Logger

	mu             sync.Mutex
	window         string
	kind           string
	content        []models.ContentItem
	contentVersion uint64

	memo viewmodel.Memo[influencerKey, viewmodel.InfluencerDetail]

	Description *editor.DescriptionEditor
	Tags        *editor.TagsEditor
	Location    *editor.LocationEditor
	Photo       *editor.ProfilePhotoEditor
	Social      *editor.SocialAccountsEditor
}

func (f *Factory) InfluencerDetail(id string, v rbac.Viewer) *InfluencerDetailPage {
	p := &InfluencerDetailPage{
		inf:    loader.NewInfluencerLoader(f.Influencers, loader.Options[*models.Influencer]{ID: id}),
		svc:    f.Influencers,
		viewer: v,
		log:    f.Log.With(zap.String("page", "influencer"), zap.String("influencer_id", id)),
		window: models.ContentWindow7d,
		kind:   models.ContentShorts,
	}

	p.Description = editor.NewDescriptionEditor(func(ctx context.Context, d string) error {
		return p.update(ctx, services.InfluencerInput{Description: &d})
	})
	p.Tags = editor.NewTagsEditor(func(ctx context.Context, tags []string) error {
		return p.update(ctx, services.InfluencerInput{Tags: tags})
	}, editor.WithMaxTags(f.MaxTags))
	p.Location = editor.NewLocationEditor(func(ctx context.Context, l models.Location) error {
		return p.update(ctx, services.InfluencerInput{Location: &l})
	})
	p.Photo = editor.NewProfilePhotoEditor(func(ctx context.Context, u api.Upload) error {
		return p.update(ctx, services.InfluencerInput{ProfileImage: &u})
	})
	p.Social = editor.NewSocialAccountsEditor(func(ctx context.Context, sp []models.SocialProfile) error {
		return p.update(ctx, services.InfluencerInput{SocialProfiles: sp})
	})
	return p
}

func (p *InfluencerDetailPage) update(ctx context.Context, in services.InfluencerInput) error {
	if _, err := p.inf.Update(ctx, in); err != nil {
		return err
	}
	if _, err := p.inf.Refetch(ctx); err != nil {
		p.log.Warn("refetch after save failed", zap.Error(err))
	}
	return nil
}

// Load fetches the profile, then follower stats and content concurrently.
// Stats and content are optional: failures are logged and the view falls back to profile data.
func (p *InfluencerDetailPage) Load(ctx context.Context) error {
	if _, err := p.inf.Refetch(ctx); err != nil {
		return err
	}

	var g errgroup.Group
	g.Go(func() error {
		if _, err := p.inf.Stats.Refetch(ctx); err != nil {
			p.log.Warn("follower stats unavailable", zap.Error(err))
		}
		return nil
	})
	g.Go(func() error {
		p.loadContent(ctx)
		return nil
	})
	return g.Wait()
}

func (p *InfluencerDetailPage) loadContent(ctx context.Context) {
	p.mu.Lock()
	kind, window := p.kind, p.window
	p.mu.Unlock()

	items, err := p.svc.Content(ctx, p.inf.ID(), kind, window)
	if err != nil {
		p.log.Warn("content unavailable", zap.String("window", window), zap.Error(err))
		items = nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.kind != kind || p.window != window {
		return
	}
	p.content = items
	p.contentVersion++
}

// SetWindow switches the content listing (kind shorts|videos, window 7d|30d) and reloads it.
func (p *InfluencerDetailPage) SetWindow(ctx context.Context, kind, window string) error {
	if !models.IsValidContentWindow(window) {
		return api.Validation("Unsupported time window: " + window)
	}
	if kind != models.ContentShorts && kind != models.ContentVideos {
		return api.Validation("Unsupported content type: " + kind)
	}
	p.mu.Lock()
	p.kind, p.window = kind, window
	p.mu.Unlock()

	p.loadContent(ctx)
	return nil
}

func (p *InfluencerDetailPage) View() (InfluencerView, error) {
	st := p.inf.State()
	if !st.HasData {
		if st.Err != nil {
			return InfluencerView{}, st.Err
		}
		return InfluencerView{}, api.Validation("Influencer not loaded")
	}
	ss := p.inf.Stats.State()

	p.mu.Lock()
	content, cv, kind, window := p.content, p.contentVersion, p.kind, p.window
	p.mu.Unlock()

	detail := p.memo.Get(influencerKey{st.Version, ss.Version, cv}, func() viewmodel.InfluencerDetail {
		var stats *models.FollowerStats
		if ss.HasData {
			stats = ss.Data
		}
		return viewmodel.NewInfluencerDetail(*st.Data, stats, content, p.viewer)
	})
	return InfluencerView{Detail: detail, Window: window, Kind: kind}, nil
}

func (p *InfluencerDetailPage) OpenEditors() error {
	st := p.inf.State()
	if !st.HasData || !p.viewer.CanEditOwned(st.Data.UserID) {
		return ErrNotAllowed
	}
	in := st.Data
	p.Description.Open(in.Description)
	p.Tags.Open(in.Tags)
	p.Location.Open(in.Location)
	p.Photo.Open(in.ProfileImage)
	p.Social.Open(in.SocialProfiles)
	return nil
}

func (p *InfluencerDetailPage) Close() {
	p.inf.Close()
}
