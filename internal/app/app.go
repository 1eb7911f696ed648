// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/endzone-defense/campaign-engine/internal/bootstrap"
	"github.com/endzone-defense/campaign-engine/internal/config"
	"github.com/endzone-defense/campaign-engine/internal/server"
	"github.com/endzone-defense/campaign-engine/pkg/campaign"
	"github.com/endzone-defense/campaign-engine/pkg/engine"
	"github.com/endzone-defense/campaign-engine/pkg/handler"
	"github.com/endzone-defense/campaign-engine/pkg/pipeline"
	"github.com/endzone-defense/campaign-engine/pkg/service"
	"github.com/endzone-defense/campaign-engine/pkg/stage"
	"github.com/endzone-defense/campaign-engine/pkg/upgrade"

	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/factory"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/iam"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/platform"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	sdkAuth "github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/utils/auth"
	"github.com/cenkalti/backoff/v4"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	actionBuiltin "github.com/endzone-defense/campaign-engine/pkg/action/builtin"
)

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	grpcServer        *server.GRPCServer
	httpServer        *server.HTTPServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	sqliteStore       *campaign.SQLiteStore
	pool              *engine.Pool
	hub               *handler.Hub
	shutdownTelemetry func(context.Context) error

	// AccelByte SDK repositories, shared across all platform services.
	// Nil when no credentials are configured.
	configRepo *sdkAuth.ConfigRepositoryImpl
	tokenRepo  *sdkAuth.TokenRepositoryImpl
}

// New creates and initializes a new application instance.
//
// Components are initialized in dependency order:
// 1. AccelByte SDK (optional, for prize and statistic actions)
// 2. Redis (entries ledger, and campaign state unless SQLite is chosen)
// 3. Campaign store and stage catalog
// 4. Pipeline config and external services
// 5. Results pipeline (signal → rule → action)
// 6. Engine pool and notification hub
// 7. Servers (gRPC, HTTP API, metrics)
// 8. Telemetry (OpenTelemetry tracing)
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}

	// ============================================================
	// Step 1: Initialize Client Auth using AccelByte SDK
	// ============================================================
	if cfg.PlatformEnabled() {
		if err := app.initAccelByteSDKAuth(); err != nil {
			return nil, fmt.Errorf("failed to init AccelByte SDK: %w", err)
		}
	} else {
		logrus.Warn("AccelByte credentials not set, platform actions run in test mode")
	}

	// ============================================================
	// Step 2: Initialize Redis
	// ============================================================
	if err := app.initRedis(ctx); err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	// ============================================================
	// Step 3: Campaign store and stage catalog
	// ============================================================
	store, err := app.initStore()
	if err != nil {
		return nil, fmt.Errorf("failed to init campaign store: %w", err)
	}

	catalog, err := stage.LoadCatalogOrDefault(cfg.StageCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load stage catalog: %w", err)
	}
	logrus.Infof("stage catalog has %d stages, championship is stage %d", catalog.Len(), catalog.Championship().ID)

	// ============================================================
	// Step 4: Pipeline config and external services
	// ============================================================
	pipelineConfig, err := pipeline.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load pipeline config from %s: %w", cfg.ConfigPath, err)
	}
	logrus.Infof("loaded pipeline configuration from %s", cfg.ConfigPath)

	deps := &actionBuiltin.Dependencies{
		Ledger: service.NewRedisEntriesLedger(app.redisClient),
	}
	if app.configRepo != nil {
		deps.EntitlementGranter = app.initItemGranter()
		deps.StatisticUpdater = app.initStatisticService()
	}

	// ============================================================
	// Step 5: Results pipeline
	// ============================================================
	pipelineManager, err := bootstrap.InitPipeline(pipelineConfig, store, cfg.ABNamespace, deps)
	if err != nil {
		return nil, fmt.Errorf("failed to init pipeline: %w", err)
	}

	// ============================================================
	// Step 6: Engine pool and notification hub
	// ============================================================
	app.hub = handler.NewHub()
	app.pool = engine.NewPool(catalog, store, app.generatorFactory(),
		engine.WithManagerOptions(campaign.WithPersistRetries(cfg.PersistMaxRetries)),
		engine.WithEngineOptions(
			engine.WithObserver(pipelineManager),
			engine.WithObserver(app.hub),
		),
	)

	// ============================================================
	// Step 7: Setup servers
	// ============================================================
	health := campaign.NewHealthChecker(store)

	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort, health)
	if err := app.grpcServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	api := handler.NewAPI(app.pool, deps.Ledger, app.hub)
	app.httpServer = server.NewHTTPServer(cfg.HTTPPort, api.Routes(), health)
	if err := app.httpServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup HTTP server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 8: Setup telemetry
	// ============================================================
	shutdownTelemetry, err := server.SetupTelemetry(ctx, cfg.ZipkinEndpoint, cfg.ServiceName, cfg.Environment, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to setup telemetry: %w", err)
	}
	app.shutdownTelemetry = shutdownTelemetry

	logrus.Info("application initialized successfully")

	return app, nil
}

// initAccelByteSDKAuth performs the client login. The SDK reads
// AB_BASE_URL, AB_CLIENT_ID and AB_CLIENT_SECRET itself.
func (a *App) initAccelByteSDKAuth() error {
	a.configRepo = sdkAuth.DefaultConfigRepositoryImpl()
	a.tokenRepo = sdkAuth.DefaultTokenRepositoryImpl()
	refreshRepo := &sdkAuth.RefreshTokenImpl{AutoRefresh: true, RefreshRate: 0.8}

	oauthService := iam.OAuth20Service{
		Client:                 factory.NewIamClient(a.configRepo),
		ConfigRepository:       a.configRepo,
		TokenRepository:        a.tokenRepo,
		RefreshTokenRepository: refreshRepo,
	}

	clientID := a.configRepo.GetClientId()
	clientSecret := a.configRepo.GetClientSecret()

	if err := oauthService.LoginClient(&clientID, &clientSecret); err != nil {
		return fmt.Errorf("unable to login using clientId and clientSecret: %w", err)
	}

	logrus.Info("AccelByte SDK initialized and authenticated")
	return nil
}

// initRedis initializes the Redis client.
func (a *App) initRedis(ctx context.Context) error {
	client := redis.NewClient(&redis.Options{
		Addr:         a.cfg.RedisHost + ":" + a.cfg.RedisPort,
		Password:     a.cfg.RedisPassword,
		DB:           0,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	b := backoff.NewExponentialBackOff()
	maxRetries := backoff.WithMaxRetries(b, uint64(max(a.cfg.RedisMaxRetries, 0)))

	err := backoff.Retry(
		func() error {
			_, err := client.Ping(ctx).Result()
			if err != nil {
				logrus.Warnf("Redis connection failed: %v, retrying...", err)
				return err
			}
			return nil
		},
		backoff.WithContext(maxRetries, ctx),
	)

	if err != nil {
		client.Close()
		return err
	}

	a.redisClient = client
	logrus.Info("Redis client initialized")
	return nil
}

// initStore opens the campaign store chosen by STORE_BACKEND.
func (a *App) initStore() (campaign.Store, error) {
	switch a.cfg.StoreBackend {
	case config.StoreSQLite:
		if dir := filepath.Dir(a.cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		store, err := campaign.OpenSQLiteStore(a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.sqliteStore = store
		logrus.Infof("campaign state stored in SQLite at %s", a.cfg.SQLitePath)
		return store, nil
	default:
		logrus.Infof("campaign state stored in Redis (ttl %s)", a.cfg.CampaignStateTTL)
		return campaign.NewRedisStore(a.redisClient, a.cfg.CampaignStateTTL), nil
	}
}

// generatorFactory gives every engine its own offer generator. A non-zero
// OFFER_SEED makes offers reproducible.
func (a *App) generatorFactory() engine.GeneratorFactory {
	size := a.cfg.OfferSize
	seed := a.cfg.OfferSeed
	return func() *upgrade.Generator {
		opts := []upgrade.GeneratorOption{upgrade.WithOfferSize(size)}
		if seed != 0 {
			opts = append(opts, upgrade.WithRandomSource(upgrade.NewSeededRNG(seed)))
		}
		return upgrade.NewGenerator(upgrade.DefaultPool(), opts...)
	}
}

// initItemGranter creates an entitlement service for granting prizes.
// Reuses a.configRepo and a.tokenRepo to share the authenticated session.
func (a *App) initItemGranter() service.EntitlementGranter {
	fulfillmentService := &platform.FulfillmentService{
		Client:           factory.NewPlatformClient(a.configRepo),
		ConfigRepository: a.configRepo,
		TokenRepository:  a.tokenRepo,
	}
	return service.NewEntitlementService(fulfillmentService, a.cfg.ABNamespace)
}

// initStatisticService creates the statistic client for progress stats.
func (a *App) initStatisticService() service.StatisticUpdater {
	statisticService := &social.UserStatisticService{
		Client:           factory.NewSocialClient(a.configRepo),
		ConfigRepository: a.configRepo,
		TokenRepository:  a.tokenRepo,
	}
	return service.NewStatisticService(statisticService, a.cfg.ABNamespace)
}
