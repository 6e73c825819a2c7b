package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/auth"
	"github.com/influencer-marketplace/webclient/internal/config"
	"github.com/influencer-marketplace/webclient/internal/http/dto"
	"github.com/influencer-marketplace/webclient/internal/models"
	"github.com/influencer-marketplace/webclient/internal/rbac"
	"go.uber.org/zap"
)

const (
	CtxViewer   = "viewer"
	ctxVerified = "session_verified"
)

// AuthMiddleware resolves the session from the bearer token. Requests without
// a token continue as anonymous; a malformed or expired token is rejected.
// The raw token is put on the user context so upstream calls carry it.
// Without JWT_SECRET the claims are read unverified and only shape what a page renders;
// RequireVerifiedUser must guard anything scoped to the caller's identity.
func AuthMiddleware(cfg *config.Config, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			c.Locals(CtxViewer, rbac.Viewer{})
			return c.Next()
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenStr == authHeader {
			return unauthorized(c, "invalid authorization format")
		}

		claims, err := auth.ParseSession(cfg.JWTSecret, tokenStr)
		if err != nil {
			log.Debug("jwt parse error", zap.Error(err))
			return unauthorized(c, "invalid or expired token")
		}

		c.Locals(CtxViewer, claims.Viewer())
		c.Locals(ctxVerified, cfg.JWTSecret != "")
		c.SetUserContext(api.WithToken(c.UserContext(), tokenStr))

		return c.Next()
	}
}

func GetViewer(c *fiber.Ctx) rbac.Viewer {
	v, ok := c.Locals(CtxViewer).(rbac.Viewer)
	if !ok {
		return rbac.Viewer{}
	}
	return v
}

// Identity confirms who a bearer token belongs to by asking the upstream API.
type Identity interface {
	Me(ctx context.Context) (*models.User, error)
}

// QueryToken lifts ?<name>= into the Authorization header; browsers cannot set headers on a websocket handshake.
func QueryToken(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			if tok := c.Query(name); tok != "" {
				c.Request().Header.Set("Authorization", "Bearer "+tok)
			}
		}
		return c.Next()
	}
}

// RequireVerifiedUser admits only callers whose token is known to be genuine: either its
// signature was checked against JWT_SECRET, or the upstream accepted it on /auth/me.
// The viewer's user id and role are then taken from the confirmed identity.
func RequireVerifiedUser(ident Identity, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v := GetViewer(c)
		if v.Anonymous() {
			return unauthorized(c, "authentication required")
		}
		if verified, _ := c.Locals(ctxVerified).(bool); verified {
			return c.Next()
		}

		me, err := ident.Me(c.UserContext())
		if err != nil {
			var ae *api.Error
			if errors.As(err, &ae) && ae.Kind == api.KindAPI && ae.Status >= 400 && ae.Status < 500 {
				log.Debug("session rejected upstream", zap.Int("status", ae.Status))
				return unauthorized(c, "invalid or expired token")
			}
			log.Warn("session verification failed", zap.Error(err))
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: "could not verify session", RequestID: GetRequestID(c)})
		}
		if me == nil || me.ID == "" {
			return unauthorized(c, "invalid or expired token")
		}

		v.UserID = me.ID
		if me.Role != "" {
			v.Role = me.Role
		}
		c.Locals(CtxViewer, v)
		c.Locals(ctxVerified, true)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: msg, RequestID: GetRequestID(c)})
}
