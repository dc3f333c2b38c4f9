package application

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"carprice/internal/config"
	"carprice/internal/domain/service/pricing"
	"carprice/internal/infrastructure/olx"
	"carprice/internal/infrastructure/persistence"
	"carprice/internal/infrastructure/vehicledata"
	"carprice/internal/server"
	"carprice/internal/worker"
	"carprice/pkg/application/connectors"
	"carprice/pkg/application/modules"
	"carprice/pkg/logx"
	"carprice/pkg/middlewarex"
)

const (
	serviceName    = "carprice"
	serviceVersion = "2.0.0"

	logFieldMaxLen = 2048
)

func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	db := pg.Client(ctx)
	defer pg.Close(ctx)

	rd := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}
	redisClient := rd.Client(ctx)
	defer rd.Close(ctx)

	listingRepo := persistence.NewListingRepository(db)

	scraper := olx.NewClient().
		WithDelay(cfg.Scraper.RequestDelay).
		WithTimeout(cfg.Scraper.RequestTimeout).
		WithMaxPages(cfg.Scraper.MaxPages)

	engine := pricing.NewEngine(listingRepo)

	acquirer := worker.NewAcquirer(listingRepo, scraper, engine).
		WithFreshness(cfg.Scraper.Freshness).
		WithMinListings(cfg.Scraper.MinListings)

	registry := worker.NewTaskRegistry()
	scrapeHandler := worker.NewScrapeTaskHandler(acquirer, registry)

	asynqClient := asynq.NewClientFromRedisClient(redisClient)
	defer asynqClient.Close() //nolint:errcheck

	makes := vehicledata.NewClient()

	masker := logx.NewSensitiveDataMasker()

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(masker, logFieldMaxLen),
		middlewarex.ResponseLogging(masker, logFieldMaxLen),
	)

	server.NewServer(
		server.NewAnalysisServer(acquirer),
		server.NewScrapeServer(asynqClient, registry),
		server.NewListingServer(listingRepo),
		server.NewCatalogServer(makes),
	).RegisterRoutes(router)

	httpServer := &http.Server{ //nolint:exhaustruct
		Addr:              cfg.Server.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{ShutdownTimeout: cfg.Server.ShutdownTimeout}.
		Run(ctx, g, httpServer)

	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{worker.ScrapeQueue: 1, "default": 1},
		modules.AsynqHandler{Pattern: worker.TypeScrapeListings, Handle: scrapeHandler.Handle},
	)

	modules.ProbeServer{
		Name:          serviceName,
		Version:       serviceVersion,
		ListenAddress: cfg.Server.ProbeListenAddress,
	}.Run(ctx, g)

	modules.MetricServer{ListenAddress: cfg.Server.MetricListenAddress}.
		Run(ctx, g)

	return g.Wait() //nolint:wrapcheck
}
