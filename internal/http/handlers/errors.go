package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/http/dto"
	"github.com/influencer-marketplace/webclient/internal/middleware"
	"github.com/influencer-marketplace/webclient/internal/pages"
	"go.uber.org/zap"
)

// statusFor maps a page or upstream failure onto the gateway's HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pages.ErrNotAllowed):
		return fiber.StatusForbidden
	case errors.Is(err, pages.ErrConfirmationRequired):
		return fiber.StatusPreconditionRequired
	}

	ae := api.Normalize(err, "")
	switch ae.Kind {
	case api.KindValidation:
		return fiber.StatusBadRequest
	case api.KindAPI:
		if ae.Status >= 400 && ae.Status < 500 {
			return ae.Status
		}
		return fiber.StatusBadGateway
	case api.KindNetwork, api.KindDecode:
		return fiber.StatusBadGateway
	case api.KindTimeout:
		return fiber.StatusGatewayTimeout
	case api.KindCanceled:
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, log *zap.Logger, err error, fallback string) error {
	status := statusFor(err)
	resp := dto.ErrorResponse{RequestID: middleware.GetRequestID(c)}

	switch {
	case errors.Is(err, pages.ErrNotAllowed), errors.Is(err, pages.ErrConfirmationRequired):
		resp.Error = err.Error()
	default:
		ae := api.Normalize(err, fallback)
		resp.Error = ae.Message
		resp.Kind = string(ae.Kind)
	}

	if status >= fiber.StatusInternalServerError {
		log.Error("request failed", zap.String("request_id", resp.RequestID), zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(resp)
}
