package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/influencer-marketplace/webclient/internal/events"
	"github.com/influencer-marketplace/webclient/internal/http/dto"
	"github.com/influencer-marketplace/webclient/internal/loader"
	"github.com/influencer-marketplace/webclient/internal/middleware"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/pages"
	"github.com/influencer-marketplace/webclient/internal/services"
	"go.uber.org/zap"
)

// PagesHandler serves page view models. A page is built, loaded and closed within one request.
type PagesHandler struct {
	factory   *pages.Factory
	publisher events.Publisher
	stream    string
	log       *zap.Logger
}

func NewPagesHandler(factory *pages.Factory, publisher events.Publisher, stream string, log *zap.Logger) *PagesHandler {
	return &PagesHandler{factory: factory, publisher: publisher, stream: stream, log: log}
}

func (h *PagesHandler) publish(c *fiber.Ctx, event events.Event) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(c.UserContext(), h.stream, event); err != nil {
		h.log.Warn("failed to publish event", zap.String("type", event.Type), zap.Error(err))
	}
}

// GET /pages/brands/:id
func (h *PagesHandler) GetBrand(c *fiber.Ctx) error {
	p := h.factory.BrandProfile(c.Params("id"), middleware.GetViewer(c))
	defer p.Close()

	if err := p.Load(c.UserContext()); err != nil {
		return respondError(c, h.log, err, "Failed to fetch brand")
	}
	view, err := p.View()
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch brand")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// GET /pages/influencers/:id?window=7d&type=shorts
func (h *PagesHandler) GetInfluencer(c *fiber.Ctx) error {
	p := h.factory.InfluencerDetail(c.Params("id"), middleware.GetViewer(c))
	defer p.Close()

	ctx := c.UserContext()
	if err := p.Load(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to fetch influencer")
	}

	window := c.Query("window", models.ContentWindow7d)
	kind := c.Query("type", models.ContentShorts)
	if window != models.ContentWindow7d || kind != models.ContentShorts {
		if err := p.SetWindow(ctx, kind, window); err != nil {
			return respondError(c, h.log, err, "Failed to fetch content")
		}
	}

	view, err := p.View()
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch influencer")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// GET /pages/campaigns/:id
func (h *PagesHandler) GetCampaign(c *fiber.Ctx) error {
	p := h.factory.CampaignDetail(c.Params("id"), middleware.GetViewer(c))
	defer p.Close()

	if err := p.Load(c.UserContext()); err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaign")
	}
	view, err := p.View()
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaign")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// GET /pages/campaigns?brandId=&status=&sortBy=&sortOrder=&limit=
func (h *PagesHandler) ListCampaigns(c *fiber.Ctx) error {
	status := c.Query("status")
	if status != "" && !models.IsValidCampaignStatus(status) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid status filter", Kind: "validation", RequestID: middleware.GetRequestID(c)})
	}

	filter := loader.CampaignFilter{
		BrandID:   c.Query("brandId"),
		Status:    status,
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Limit:     c.QueryInt("limit", 0),
	}

	p := h.factory.CampaignList(filter, middleware.GetViewer(c))
	defer p.Close()

	if err := p.Load(c.UserContext()); err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaigns")
	}
	view, err := p.View()
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaigns")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// GET /pages/discover?platform=&tag=&location=&sortBy=&limit=
func (h *PagesHandler) Discover(c *fiber.Ctx) error {
	platform := c.Query("platform")
	if platform != "" && !models.IsValidPlatform(platform) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid platform", Kind: "validation", RequestID: middleware.GetRequestID(c)})
	}

	view, err := h.factory.Discovery().Search(c.UserContext(), services.InfluencerQuery{
		Platform:  platform,
		Tag:       c.Query("tag"),
		Location:  c.Query("location"),
		SortBy:    c.Query("sortBy"),
		SortOrder: c.Query("sortOrder"),
		Limit:     c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, h.log, err, "Failed to fetch influencers")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: view})
}

// POST /pages/campaigns/:id/save-toggle
func (h *PagesHandler) ToggleSave(c *fiber.Ctx) error {
	v := middleware.GetViewer(c)
	id := c.Params("id")
	p := h.factory.CampaignDetail(id, v)
	defer p.Close()

	ctx := c.UserContext()
	if err := p.Load(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaign")
	}
	saved, err := p.ToggleSave(ctx)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update saved campaigns")
	}

	eventType := events.EventCampaignUnsaved
	if saved {
		eventType = events.EventCampaignSaved
	}
	h.publish(c, events.Event{Type: eventType, Payload: map[string]any{
		"user_id":     v.UserID,
		"campaign_id": id,
	}})

	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.ToggleSaveResponse{CampaignID: id, Saved: saved}})
}

// POST /pages/campaigns/:id/apply
func (h *PagesHandler) Apply(c *fiber.Ctx) error {
	var req dto.ApplyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body", Kind: "validation", RequestID: middleware.GetRequestID(c)})
	}

	v := middleware.GetViewer(c)
	p := h.factory.CampaignDetail(c.Params("id"), v)
	defer p.Close()

	ctx := c.UserContext()
	if err := p.Load(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaign")
	}
	app, err := p.Apply(ctx, req.Message)
	if err != nil {
		return respondError(c, h.log, err, "Failed to apply to campaign")
	}

	h.publish(c, events.Event{Type: events.EventApplicationSubmitted, Payload: map[string]any{
		"user_id":        v.UserID,
		"campaign_id":    c.Params("id"),
		"application_id": app.ID,
	}})

	return c.Status(fiber.StatusCreated).JSON(dto.SuccessResponse{OK: true, Data: app})
}

// DELETE /pages/campaigns/:id?confirm=true
func (h *PagesHandler) DeleteCampaign(c *fiber.Ctx) error {
	v := middleware.GetViewer(c)
	id := c.Params("id")
	p := h.factory.CampaignDetail(id, v)
	defer p.Close()

	ctx := c.UserContext()
	if err := p.Load(ctx); err != nil {
		return respondError(c, h.log, err, "Failed to fetch campaign")
	}
	if err := p.Delete(ctx, c.QueryBool("confirm", false)); err != nil {
		return respondError(c, h.log, err, "Failed to delete campaign")
	}

	h.publish(c, events.Event{Type: events.EventCampaignDeleted, Payload: map[string]any{
		"user_id":     v.UserID,
		"campaign_id": id,
	}})

	return c.JSON(dto.SuccessResponse{OK: true})
}
