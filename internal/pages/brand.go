package pages

import (
	"context"

	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/editor"
	"github.com/influencer-marketplace/webclient/internal/linkpreview"
	"github.com/influencer-marketplace/webclient/internal/loader"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/rbac"
	"github.com/influencer-marketplace/webclient/internal/services"
	"github.com/influencer-marketplace/webclient/internal/viewmodel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type BrandView struct {
	Profile viewmodel.BrandProfile `json:"profile"`
	Website *linkpreview.Preview   `json:"website,omitempty"`
}

type brandKey struct{ brand, campaigns uint64 }

type BrandProfilePage struct {
	brand     *loader.BrandLoader
	campaigns *loader.CampaignsLoader
	auth      *services.AuthService
	previews  PreviewFetcher
	viewer    rbac.Viewer
	log       *zap.Logger

	website *linkpreview.Preview
	memo    viewmodel.Memo[brandKey, viewmodel.BrandProfile]

	Name        *editor.NameEditor
	Description *editor.DescriptionEditor
	Tags        *editor.TagsEditor
	Location    *editor.LocationEditor
	Logo        *editor.ProfilePhotoEditor
}

func (f *Factory) BrandProfile(brandID string, v rbac.Viewer) *BrandProfilePage {
	p := &BrandProfilePage{
		brand:     loader.NewBrandLoader(f.Brands, loader.Options[*models.Brand]{ID: brandID}),
		campaigns: loader.NewCampaignsLoader(f.Campaigns, loader.CampaignFilter{BrandID: brandID}, false, nil),
		auth:      f.Auth,
		previews:  f.Previews,
		viewer:    v,
		log:       f.Log.With(zap.String("page", "brand"), zap.String("brand_id", brandID)),
	}

	p.Name = editor.NewNameEditor(func(ctx context.Context, name string) error {
		if _, err := p.auth.UpdateName(ctx, name); err != nil {
			return err
		}
		return p.refetch(ctx)
	})
	p.Description = editor.NewDescriptionEditor(func(ctx context.Context, d string) error {
		return p.update(ctx, services.BrandInput{Description: &d})
	})
	p.Tags = editor.NewTagsEditor(func(ctx context.Context, tags []string) error {
		return p.update(ctx, services.BrandInput{Tags: tags})
	}, editor.WithMaxTags(f.MaxTags))
	p.Location = editor.NewLocationEditor(func(ctx context.Context, l models.Location) error {
		loc := ""
		if !l.IsEmpty() {
			loc = viewmodel.FormatLocation(l)
		}
		return p.update(ctx, services.BrandInput{Location: &loc})
	})
	p.Logo = editor.NewProfilePhotoEditor(func(ctx context.Context, u api.Upload) error {
		return p.update(ctx, services.BrandInput{Logo: &u})
	})
	return p
}

// MyBrand builds the profile page of the brand owned by v.
func (f *Factory) MyBrand(ctx context.Context, v rbac.Viewer) (*BrandProfilePage, error) {
	if v.Anonymous() {
		return nil, ErrNotAllowed
	}
	b, err := f.Brands.GetByUser(ctx, v.UserID)
	if err != nil {
		return nil, err
	}
	return f.BrandProfile(b.ID, v), nil
}

func (p *BrandProfilePage) update(ctx context.Context, in services.BrandInput) error {
	if _, err := p.brand.Update(ctx, in); err != nil {
		return err
	}
	return p.refetch(ctx)
}

// refetch reloads after a successful save; a failure here is logged, the save itself already succeeded.
func (p *BrandProfilePage) refetch(ctx context.Context) error {
	if _, err := p.brand.Refetch(ctx); err != nil {
		p.log.Warn("refetch after save failed", zap.Error(err))
	}
	return nil
}

// Load fetches the brand and its campaigns concurrently. Only a brand failure is returned.
func (p *BrandProfilePage) Load(ctx context.Context) error {
	var brandErr error
	var g errgroup.Group
	g.Go(func() error {
		_, brandErr = p.brand.Refetch(ctx)
		return nil
	})
	g.Go(func() error {
		if _, err := p.campaigns.Fetch(ctx); err != nil {
			p.log.Warn("brand campaigns unavailable", zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()
	if brandErr != nil {
		return brandErr
	}

	st := p.brand.State()
	if p.previews != nil && st.HasData && st.Data.Website != "" {
		w, err := p.previews.Fetch(ctx, st.Data.Website)
		if err != nil {
			p.log.Debug("website preview unavailable", zap.Error(err))
		}
		p.website = w
	}
	return nil
}

// View derives the profile; it is recomputed only after either loader commits new data.
func (p *BrandProfilePage) View() (BrandView, error) {
	bs, cs := p.brand.State(), p.campaigns.State()
	if !bs.HasData {
		if bs.Err != nil {
			return BrandView{}, bs.Err
		}
		return BrandView{}, api.Validation("Brand not loaded")
	}
	profile := p.memo.Get(brandKey{bs.Version, cs.Version}, func() viewmodel.BrandProfile {
		return viewmodel.NewBrandProfile(*bs.Data, cs.Data, p.viewer)
	})
	return BrandView{Profile: profile, Website: p.website}, nil
}

func (p *BrandProfilePage) canEdit() bool {
	st := p.brand.State()
	return st.HasData && p.viewer.CanEditOwned(st.Data.UserID)
}

// OpenEditors seeds every editor from the loaded brand's stored fields, never from display placeholders.
// Viewers who do not own the brand are refused.
func (p *BrandProfilePage) OpenEditors() error {
	if !p.canEdit() {
		return ErrNotAllowed
	}
	b := p.brand.State().Data
	name := b.Name
	if b.User != nil && b.User.Name != "" {
		name = b.User.Name
	}
	p.Name.Open(name)
	p.Description.Open(b.Description)
	p.Tags.Open(b.Tags)
	loc := models.Location{}
	if b.Location != "" {
		city := b.Location
		loc.City = &city
	}
	p.Location.Open(loc)
	p.Logo.Open(b.Logo)
	return nil
}

func (p *BrandProfilePage) Close() {
	p.brand.Close()
	p.campaigns.Close()
}
