package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/influencer-marketplace/webclient/internal/api"
	"github.com/influencer-marketplace/webclient/internal/config"
	"github.com/influencer-marketplace/webclient/internal/db"
	"github.com/influencer-marketplace/webclient/internal/events"
	apphttp "github.com/influencer-marketplace/webclient/internal/http"
	"github.com/influencer-marketplace/webclient/internal/http/dto"
	"github.com/influencer-marketplace/webclient/internal/http/handlers"
	"github.com/influencer-marketplace/webclient/internal/linkpreview"
	"github.com/influencer-marketplace/webclient/internal/middleware"
	"github.com/influencer-marketplace/webclient/internal/pages"
	"github.com/influencer-marketplace/webclient/internal/prefs"
	"github.com/influencer-marketplace/webclient/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, _ := zap.NewProduction()
	if cfg.LogLevel == "debug" {
		log, _ = zap.NewDevelopment()
	}
	defer log.Sync()

	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connect := db.ConnectOptions{Attempts: cfg.StoreConnectAttempts, Backoff: cfg.StoreConnectBackoff}

	// Redis
	var rdb *redis.Client
	if cfg.NeedsRedis() {
		var err error
		rdb, err = db.OpenRedis(ctx, cfg.RedisURL, connect, log)
		switch {
		case err != nil && cfg.PrefsBackend == config.PrefsRedis:
			log.Fatal("failed to connect to redis", zap.Error(err))
		case err != nil:
			log.Warn("redis unavailable, rate limiting and cross-instance events disabled", zap.Error(err))
			rdb = nil
		default:
			defer rdb.Close()
		}
	}

	// Preferences
	var store prefs.Storage
	switch cfg.PrefsBackend {
	case config.PrefsRedis:
		store = prefs.NewRedisStorage(rdb, "prefs:", cfg.PrefsTTL)
	case config.PrefsPostgres:
		pool, err := db.OpenPrefsPool(ctx, cfg.PostgresDSN, db.PoolOptions{
			MaxConns: int32(cfg.PostgresMaxConns),
			Connect:  connect,
		}, log)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer pool.Close()

		if err := db.RunMigrations(ctx, pool, os.DirFS(cfg.MigrationsDir), log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		store = prefs.NewPostgresStorage(pool)
	default:
		store = prefs.NewMemoryStorage()
	}

	// Events
	var publisher events.Publisher
	var subscriber events.Subscriber
	if rdb != nil {
		publisher = events.NewRedisPublisher(rdb, log)
		subscriber = events.NewRedisSubscriber(rdb, log)
	} else {
		bus := events.NewMemoryBus()
		publisher, subscriber = bus, bus
	}

	// Upstream API
	client := api.NewClient(cfg.APIBaseURL, api.ContextToken{}, log,
		api.WithTimeout(cfg.APITimeout),
		api.WithMetrics(api.NewMetrics(prometheus.DefaultRegisterer)),
	)

	authSvc := services.NewAuthService(client, log)
	factory := &pages.Factory{
		Campaigns:   services.NewCampaignService(client, log),
		Saved:       services.NewSavedCampaignService(client, log),
		Brands:      services.NewBrandService(client, log),
		Influencers: services.NewInfluencerService(client, log),
		Auth:        authSvc,
		Previews:    linkpreview.NewFetcher(cfg.PreviewFetchTimeoutMS, cfg.PreviewFetchMaxRetries, log),
		BatchSize:   cfg.EnrichBatchSize,
		MaxTags:     cfg.MaxTags,
		Log:         log,
	}

	// Handlers
	wsHub := handlers.NewWSHub(cfg, subscriber, log)
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to subscribe to events", zap.Error(err))
	}

	h := apphttp.Handlers{
		Pages: handlers.NewPagesHandler(factory, publisher, cfg.EventsChannel, log),
		Prefs: handlers.NewPrefsHandler(store, log),
		Meta:  handlers.NewMetaHandler(cfg.MaxTags),
		WS:    wsHub,

		Identity: authSvc,
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		// photos and campaign attachments arrive as multipart bodies
		BodyLimit: 16 << 20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(dto.ErrorResponse{Error: err.Error(), RequestID: middleware.GetRequestID(c)})
		},
	})

	var limiter middleware.Counter
	if rdb != nil && cfg.RateLimitPerMinute > 0 {
		limiter = rdb
	}
	apphttp.SetupRouter(app, cfg, log, limiter, middleware.NewHTTPMetrics(prometheus.DefaultRegisterer), prometheus.DefaultGatherer, h)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.GatewayPort)
	log.Info("starting gateway", zap.String("addr", addr), zap.String("upstream", cfg.APIBaseURL), zap.String("prefs", cfg.PrefsBackend))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
