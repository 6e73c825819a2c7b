package http

import (
	"strings"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/influencer-marketplace/webclient/internal/config"
	"github.com/influencer-marketplace/webclient/internal/http/handlers"
	"github.com/influencer-marketplace/webclient/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Handlers struct {
	Pages *handlers.PagesHandler
	Prefs *handlers.PrefsHandler
	Meta  *handlers.MetaHandler
	WS    *handlers.WSHub

	// Identity confirms tokens upstream when no JWT_SECRET is configured.
	Identity middleware.Identity
}

// SetupRouter mounts the gateway. limiter may be nil, which disables rate limiting.
// gatherer serves /metrics; metrics may be nil.
func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	limiter middleware.Counter,
	metrics *middleware.HTTPMetrics,
	gatherer prometheus.Gatherer,
	h Handlers,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))
	if metrics != nil {
		app.Use(metrics.Handler())
	}

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api/v1")

	if limiter != nil {
		api.Use(middleware.RateLimitMiddleware(limiter, cfg.RateLimitPerMinute, time.Minute))
	}

	// Meta (public)
	api.Get("/meta/platforms", h.Meta.GetPlatforms)
	api.Get("/meta/tags", h.Meta.GetTags)

	// Pages render for anonymous viewers too; the session only widens what they may do.
	// Anything that writes or is scoped to the caller needs a verified identity.
	verified := middleware.RequireVerifiedUser(h.Identity, log)

	pages := api.Group("/pages", middleware.AuthMiddleware(cfg, log))
	pages.Get("/brands/me", verified, h.Pages.GetMyBrand)
	pages.Get("/brands/:id", h.Pages.GetBrand)
	pages.Get("/influencers/:id", h.Pages.GetInfluencer)
	pages.Get("/campaigns", h.Pages.ListCampaigns)
	pages.Get("/campaigns/:id", h.Pages.GetCampaign)
	pages.Get("/discover", h.Pages.Discover)

	pages.Put("/brands/:id/name", verified, h.Pages.UpdateBrandName)
	pages.Put("/brands/:id/description", verified, h.Pages.UpdateBrandDescription)
	pages.Put("/brands/:id/tags", verified, h.Pages.UpdateBrandTags)
	pages.Put("/brands/:id/location", verified, h.Pages.UpdateBrandLocation)
	pages.Put("/brands/:id/logo", verified, h.Pages.UpdateBrandLogo)

	pages.Put("/influencers/:id/description", verified, h.Pages.UpdateInfluencerDescription)
	pages.Put("/influencers/:id/tags", verified, h.Pages.UpdateInfluencerTags)
	pages.Put("/influencers/:id/location", verified, h.Pages.UpdateInfluencerLocation)
	pages.Put("/influencers/:id/photo", verified, h.Pages.UpdateInfluencerPhoto)
	pages.Put("/influencers/:id/social", verified, h.Pages.UpdateInfluencerSocial)

	pages.Post("/campaigns", verified, h.Pages.CreateCampaign)
	pages.Put("/campaigns/:id", verified, h.Pages.UpdateCampaign)
	pages.Post("/campaigns/:id/save-toggle", verified, h.Pages.ToggleSave)
	pages.Post("/campaigns/:id/apply", verified, h.Pages.Apply)
	pages.Delete("/campaigns/:id", verified, h.Pages.DeleteCampaign)

	prefs := api.Group("/prefs", middleware.AuthMiddleware(cfg, log), verified)
	prefs.Get("/floating-button", h.Prefs.GetFloatingButton)
	prefs.Put("/floating-button", h.Prefs.PutFloatingButton)
	prefs.Get("/profile-completion", h.Prefs.GetProfileCompletion)
	prefs.Put("/profile-completion", h.Prefs.DismissProfileCompletion)
	prefs.Delete("/profile-completion", h.Prefs.ResetProfileCompletion)

	// WebSocket: the token rides in ?token= and is verified before the upgrade.
	if h.WS != nil {
		app.Get("/ws",
			middleware.QueryToken("token"),
			middleware.AuthMiddleware(cfg, log),
			verified,
			handlers.WSUpgradeMiddleware(),
			websocket.New(h.WS.HandleWS),
		)
	}
}
