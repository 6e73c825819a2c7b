package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/editor"
	"github.com/influencer-marketplace/webclient/internal/events"
	"github.com/influencer-marketplace/webclient/internal/http/dto"
	"github.com/influencer-marketplace/webclient/internal/middleware"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/pages"
	"github.com/influencer-marketplace/webclient/internal/services"
	"github.com/shopspring/decimal"
)

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: msg, Kind: string(api.KindValidation), RequestID: middleware.GetRequestID(c)})
}

// editBrand loads the brand, opens its editors for the viewer and runs save.
// The refreshed profile is returned and a profile_updated event goes to the editor.
func (h *PagesHandler) editBrand(c *fiber.Ctx, save func(ctx context.Context, p *pages.BrandProfilePage) error) error {
	v := middleware.GetViewer(c)
	id := c.Params("id")
	p := h.factory.BrandProfile(id, v)
	defer p.Close()

	ctx := c.UserContext()
	if err := p.Load(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to fetch brand")
	}
	if err := p.OpenEditors(); err != nil {
		return respondError(c, h.log, err, "Failed to update brand")
	}
	if err := save(ctx, p); err != nil {
		return respondError(c, h.log, err, "Failed to update brand")
	}

	h.publish(c, events.Event{Type: events.EventProfileUpdated, Payload: map[string]any{
		"user_id":  v.UserID,
		"brand_id": id,
	}})

	view, err := p.View()
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch brand")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

func (h *PagesHandler) editInfluencer(c *fiber.Ctx, save func(ctx context.Context, p *pages.InfluencerDetailPage) error) error {
	v := middleware.GetViewer(c)
	id := c.Params("id")
	p := h.factory.InfluencerDetail(id, v)
	defer p.Close()

	ctx := c.UserContext()
	if err := p.Load(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to fetch influencer")
	}
	if err := p.OpenEditors(); err != nil {
		return respondError(c, h.log, err, "Failed to update profile")
	}
	if err := save(ctx, p); err != nil {
		return respondError(c, h.log, err, "Failed to update profile")
	}

	h.publish(c, events.Event{Type: events.EventProfileUpdated, Payload: map[string]any{
		"user_id":       v.UserID,
		"influencer_id": id,
	}})

	view, err := p.View()
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch influencer")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// GET /pages/brands/me
func (h *PagesHandler) GetMyBrand(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p, err := h.factory.MyBrand(ctx, middleware.GetViewer(c))
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch brand")
	}
	defer p.Close()

	if err := p.Load(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to fetch brand")
	}
	view, err := p.View()
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch brand")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// PUT /pages/brands/:id/name
func (h *PagesHandler) UpdateBrandName(c *fiber.Ctx) error {
	var req dto.NameRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return h.editBrand(c, func(ctx context.Context, p *pages.BrandProfilePage) error {
		if err := p.Name.SetName(req.Name); err != nil {
			return err
		}
		return p.Name.Save(ctx)
	})
}

// PUT /pages/brands/:id/description
func (h *PagesHandler) UpdateBrandDescription(c *fiber.Ctx) error {
	var req dto.DescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return h.editBrand(c, func(ctx context.Context, p *pages.BrandProfilePage) error {
		if err := p.Description.SetText(req.Description); err != nil {
			return err
		}
		return p.Description.Save(ctx)
	})
}

// PUT /pages/brands/:id/tags
func (h *PagesHandler) UpdateBrandTags(c *fiber.Ctx) error {
	var req dto.TagsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return h.editBrand(c, func(ctx context.Context, p *pages.BrandProfilePage) error {
		return saveTags(ctx, p.Tags, req.Tags)
	})
}

// PUT /pages/brands/:id/location
func (h *PagesHandler) UpdateBrandLocation(c *fiber.Ctx) error {
	var req dto.LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return h.editBrand(c, func(ctx context.Context, p *pages.BrandProfilePage) error {
		return saveLocation(ctx, p.Location, req)
	})
}

// PUT /pages/brands/:id/logo (multipart, field "logo")
func (h *PagesHandler) UpdateBrandLogo(c *fiber.Ctx) error {
	u, closeFile, err := formUpload(c, "logo")
	if err != nil {
		return respondError(c, h.log, err, "Failed to read upload")
	}
	defer closeFile()
	return h.editBrand(c, func(ctx context.Context, p *pages.BrandProfilePage) error {
		return savePhoto(ctx, p.Logo, u)
	})
}

// PUT /pages/influencers/:id/description
func (h *PagesHandler) UpdateInfluencerDescription(c *fiber.Ctx) error {
	var req dto.DescriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return h.editInfluencer(c, func(ctx context.Context, p *pages.InfluencerDetailPage) error {
		if err := p.Description.SetText(req.Description); err != nil {
			return err
		}
		return p.Description.Save(ctx)
	})
}

// PUT /pages/influencers/:id/tags
func (h *PagesHandler) UpdateInfluencerTags(c *fiber.Ctx) error {
	var req dto.TagsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return h.editInfluencer(c, func(ctx context.Context, p *pages.InfluencerDetailPage) error {
		return saveTags(ctx, p.Tags, req.Tags)
	})
}

// PUT /pages/influencers/:id/location
func (h *PagesHandler) UpdateInfluencerLocation(c *fiber.Ctx) error {
	var req dto.LocationRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return h.editInfluencer(c, func(ctx context.Context, p *pages.InfluencerDetailPage) error {
		return saveLocation(ctx, p.Location, req)
	})
}

// PUT /pages/influencers/:id/photo (multipart, field "profileImage")
func (h *PagesHandler) UpdateInfluencerPhoto(c *fiber.Ctx) error {
	u, closeFile, err := formUpload(c, "profileImage")
	if err != nil {
		return respondError(c, h.log, err, "Failed to read upload")
	}
	defer closeFile()
	return h.editInfluencer(c, func(ctx context.Context, p *pages.InfluencerDetailPage) error {
		return savePhoto(ctx, p.Photo, u)
	})
}

// PUT /pages/influencers/:id/social
func (h *PagesHandler) UpdateInfluencerSocial(c *fiber.Ctx) error {
	var req dto.SocialAccountsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	return h.editInfluencer(c, func(ctx context.Context, p *pages.InfluencerDetailPage) error {
		for platform, username := range req.Accounts {
			if err := p.Social.SetUsername(platform, username); err != nil {
				return err
			}
		}
		for _, platform := range models.AllPlatforms {
			if _, ok := req.Accounts[platform]; !ok {
				if err := p.Social.SetUsername(platform, ""); err != nil {
					return err
				}
			}
		}
		return p.Social.Save(ctx)
	})
}

// POST /pages/campaigns (multipart; files under "attachments")
func (h *PagesHandler) CreateCampaign(c *fiber.Ctx) error {
	in, closeFiles, err := campaignForm(c)
	if err != nil {
		return respondError(c, h.log, err, "Failed to read campaign")
	}
	defer closeFiles()

	v := middleware.GetViewer(c)
	created, err := h.factory.CreateCampaign(c.UserContext(), v, in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to create campaign")
	}

	h.publish(c, events.Event{Type: events.EventCampaignCreated, Payload: map[string]any{
		"user_id":     v.UserID,
		"campaign_id": created.ID,
	}})
	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: created})
}

// PUT /pages/campaigns/:id (multipart; omitted fields are left unchanged)
func (h *PagesHandler) UpdateCampaign(c *fiber.Ctx) error {
	in, closeFiles, err := campaignForm(c)
	if err != nil {
		return respondError(c, h.log, err, "Failed to read campaign")
	}
	defer closeFiles()

	v := middleware.GetViewer(c)
	id := c.Params("id")
	p := h.factory.CampaignDetail(id, v)
	defer p.Close()

	ctx := c.UserContext()
	if err := p.Load(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaign")
	}
	updated, err := p.Update(ctx, in)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update campaign")
	}

	h.publish(c, events.Event{Type: events.EventCampaignUpdated, Payload: map[string]any{
		"user_id":     v.UserID,
		"campaign_id": id,
	}})
	return c.JSON(dto.SuccessResponse{OK: true, Data: updated})
}

// saveTags replaces the draft with tags; entries past the editor's limit are dropped.
func saveTags(ctx context.Context, e *editor.TagsEditor, tags []string) error {
	for _, t := range e.Tags() {
		if _, err := e.Remove(t); err != nil {
			return err
		}
	}
	for _, t := range tags {
		if _, err := e.Add(t); err != nil {
			return err
		}
	}
	return e.Save(ctx)
}

func saveLocation(ctx context.Context, e *editor.LocationEditor, req dto.LocationRequest) error {
	if err := e.Set(editor.LocationFields{
		City:    req.City,
		State:   req.State,
		Country: req.Country,
		Address: req.Address,
		Pincode: req.Pincode,
	}); err != nil {
		return err
	}
	return e.Save(ctx)
}

func savePhoto(ctx context.Context, e *editor.ProfilePhotoEditor, u api.Upload) error {
	if err := e.Select(u); err != nil {
		return err
	}
	return e.Save(ctx)
}

func openUpload(fh *multipart.FileHeader) (api.Upload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return api.Upload{}, nil, err
	}
	return api.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}, f, nil
}

// formUpload opens the single file under field. The returned func closes it.
func formUpload(c *fiber.Ctx, field string) (api.Upload, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return api.Upload{}, func() {}, api.Validation("Please select a file to upload")
	}
	u, closer, err := openUpload(fh)
	if err != nil {
		return api.Upload{}, func() {}, err
	}
	return u, func() { _ = closer.Close() }, nil
}

// campaignForm reads campaign fields from a multipart or urlencoded body.
// Lists are comma separated; an empty field is left out of the input.
func campaignForm(c *fiber.Ctx) (services.CampaignInput, func(), error) {
	in := services.CampaignInput{
		Name:      strings.TrimSpace(c.FormValue("name")),
		Status:    strings.TrimSpace(c.FormValue("status")),
		Platforms: splitList(c.FormValue("platforms")),
		Tags:      splitList(c.FormValue("tags")),
	}
	if v := c.FormValue("description"); v != "" {
		in.Description = &v
	}
	if v := c.FormValue("location"); v != "" {
		in.Location = &v
	}
	if v := strings.TrimSpace(c.FormValue("budget")); v != "" {
		budget, err := decimal.NewFromString(v)
		if err != nil {
			return in, func() {}, api.Validation("Budget must be a number")
		}
		in.Budget = &budget
	}

	var closers []io.Closer
	closeAll := func() {
		for _, cl := range closers {
			_ = cl.Close()
		}
	}
	if form, err := c.MultipartForm(); err == nil {
		for _, fh := range form.File["attachments"] {
			u, closer, err := openUpload(fh)
			if err != nil {
				closeAll()
				return in, func() {}, err
			}
			closers = append(closers, closer)
			in.Attachments = append(in.Attachments, u)
		}
	}
	return in, closeAll, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
