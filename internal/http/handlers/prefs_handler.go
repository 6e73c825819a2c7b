package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/influencer-marketplace/webclient/internal/http/dto"
	"github.com/influencer-marketplace/webclient/internal/middleware"
	"github.com/influencer-marketplace/webclient/internal/prefs"
	"go.uber.org/zap"
)

// PrefsHandler exposes the per-user UI preferences. Every key is scoped to the caller.
type PrefsHandler struct {
	store prefs.Storage
	log   *zap.Logger
}

func NewPrefsHandler(store prefs.Storage, log *zap.Logger) *PrefsHandler {
	return &PrefsHandler{store: store, log: log}
}

func (h *PrefsHandler) service(c *fiber.Ctx) *prefs.Service {
	return prefs.NewService(prefs.Scoped(h.store, middleware.GetViewer(c).UserID), h.log)
}

// GET /prefs/floating-button. Data is null when no position was saved.
func (h *PrefsHandler) GetFloatingButton(c *fiber.Ctx) error {
	pos, err := h.service(c).FloatingButtonPosition(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "Failed to read preferences")
	}
	if pos == nil {
		return c.JSON(fiber.Map{"ok": true, "data": nil})
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: pos})
}

// PUT /prefs/floating-button
func (h *PrefsHandler) PutFloatingButton(c *fiber.Ctx) error {
	var req dto.PositionRequest
	if err := c.BodyParser(&req); err != nil || req.X == nil || req.Y == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "x and y are required", Kind: "validation", RequestID: middleware.GetRequestID(c)})
	}

	pos := prefs.Position{X: *req.X, Y: *req.Y}
	if err := h.service(c).SetFloatingButtonPosition(c.UserContext(), pos); err != nil {
		return respondError(c, h.log, err, "Failed to save preferences")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: pos})
}

// GET /prefs/profile-completion
func (h *PrefsHandler) GetProfileCompletion(c *fiber.Ctx) error {
	dismissed, err := h.service(c).ProfileCompletionDismissed(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err, "Failed to read preferences")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.DismissedResponse{Dismissed: dismissed}})
}

// PUT /prefs/profile-completion dismisses the prompt.
func (h *PrefsHandler) DismissProfileCompletion(c *fiber.Ctx) error {
	if err := h.service(c).DismissProfileCompletion(c.UserContext()); err != nil {
		return respondError(c, h.log, err, "Failed to save preferences")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.DismissedResponse{Dismissed: true}})
}

// DELETE /prefs/profile-completion brings the prompt back.
func (h *PrefsHandler) ResetProfileCompletion(c *fiber.Ctx) error {
	if err := h.service(c).ResetProfileCompletion(c.UserContext()); err != nil {
		return respondError(c, h.log, err, "Failed to save preferences")
	}
	return c.JSON(dto.SuccessResponse{OK: true, Data: dto.DismissedResponse{Dismissed: false}})
}
