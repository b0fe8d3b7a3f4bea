package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vitrinelabs/vitrine/internal/cache"
	"github.com/vitrinelabs/vitrine/internal/collections"
	"github.com/vitrinelabs/vitrine/internal/config"
	"github.com/vitrinelabs/vitrine/internal/httpserver"
	"github.com/vitrinelabs/vitrine/internal/httpserver/deps"
	"github.com/vitrinelabs/vitrine/internal/index"
	"github.com/vitrinelabs/vitrine/internal/logger"
	"github.com/vitrinelabs/vitrine/internal/redis"
	"github.com/vitrinelabs/vitrine/internal/scheduler"
	"github.com/vitrinelabs/vitrine/internal/sources/gallery"
	redisstore "github.com/vitrinelabs/vitrine/internal/store/redis"
	"github.com/vitrinelabs/vitrine/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	listing     *index.ListingCache
	detailCache *cache.DetailCache
	revalidator *scheduler.Revalidator
	janitor     *scheduler.Janitor
	collections *collections.Store
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Redis is optional: without it the process still works, just without
	// cache durability across restarts.
	var redisClient *goredis.Client
	var store *redisstore.Store
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		loggerClient.Info("Redis initialized successfully")
		redisClient = client
		store = redisstore.NewStore(client)
	} else {
		loggerClient.Info("redis not configured, durable cache tier disabled")
	}

	// Cache tiers
	listing := index.NewListingCache()
	detailCache := cache.NewDetailCache(cfg.DetailTTL, nil)

	// Gallery upstream
	galleryClient := gallery.NewClient(cfg.GalleryBaseURL, cfg.GalleryToken, cfg.GalleryTimeout)
	fetcher := gallery.NewFetcher(galleryClient, cfg.GalleryPageSize)

	// Warm the listing from the durable tier so a restart can serve
	// immediately instead of blocking on the first upstream sync.
	if store != nil {
		warmer := scheduler.NewRedisWarmer(store, listing, loggerClient)
		if err := warmer.Warm(context.Background()); err != nil {
			loggerClient.Warn("failed to warm listing from redis, will load from gallery",
				logger.Error(err))
		}
	}

	// Manual refresh trigger channel (capacity 1 => coalesced)
	refreshTrigger := make(chan struct{}, 1)

	revalidator := scheduler.NewRevalidator(
		fetcher,
		listing,
		store,
		loggerClient,
		cfg.RevalidateInterval,
		refreshTrigger,
	)

	var janitor *scheduler.Janitor
	if store != nil {
		janitor = scheduler.NewJanitor(store, loggerClient, cfg.JanitorInterval)
	}

	colStore := collections.NewStore(gallery.NewCollections(galleryClient), loggerClient)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		TrustProxy:     cfg.TrustProxy,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		AllowedOrigins: cfg.AllowedOrigins,
		Listing:        listing,
		DetailCache:    detailCache,
		Store:          store,
		Gallery:        galleryClient,
		Collections:    colStore,
		RefreshTrigger: refreshTrigger,
		SyncInFlight:   revalidator.InFlight,
		PageSize:       cfg.PageSize,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		listing:     listing,
		detailCache: detailCache,
		revalidator: revalidator,
		janitor:     janitor,
		collections: colStore,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Vitrine v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Vitrine %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the revalidator. A failed first sync with a warm cache is only
	// logged; with an empty cache the listing endpoints answer 503 until a
	// sync succeeds, so surface it loudly but keep serving health endpoints.
	if err := a.revalidator.Start(ctx); err != nil {
		a.logger.Error("initial gallery sync failed, listing unavailable until retry",
			logger.Error(err))
	}
	a.logger.Info("revalidator started",
		logger.Duration("interval", a.cfg.RevalidateInterval))

	// Start the durable-tier janitor
	if a.janitor != nil {
		if err := a.janitor.Start(ctx); err != nil {
			return fmt.Errorf("failed to start janitor: %w", err)
		}
		a.logger.Info("janitor started",
			logger.Duration("interval", a.cfg.JanitorInterval))
	}

	// Load collections once at startup; failures are retried lazily by the
	// reconciling refetch after the first mutation.
	if err := a.collections.Refresh(ctx); err != nil {
		a.logger.Warn("initial collections load failed", logger.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.revalidator.Stop()
	if a.janitor != nil {
		a.janitor.Stop()
	}
	a.detailCache.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Vitrine stopped cleanly")
	return nil
}
