package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/tableserve-backend/api/routes"
	"github.com/angelmondragon/tableserve-backend/internal/cart"
	"github.com/angelmondragon/tableserve-backend/internal/catalog"
	"github.com/angelmondragon/tableserve-backend/internal/orders"
	"github.com/angelmondragon/tableserve-backend/internal/sessions"
	"github.com/angelmondragon/tableserve-backend/pkg/config"
	"github.com/angelmondragon/tableserve-backend/pkg/db"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/metrics"
	"github.com/angelmondragon/tableserve-backend/pkg/migrate"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox"
	"github.com/angelmondragon/tableserve-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	catalogRepo := catalog.NewRepository(dbClient.DB())

	cartStore, err := cart.NewRedisStore(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}
	locker, err := cart.NewRedisLocker(redisClient, cfg.Cart.SubmitLockTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart locker", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(catalogRepo, cartStore, locker, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	sessionReader := sessions.NewRepository(dbClient.DB())
	tableSelection, err := sessions.NewTableSelection(redisClient, cfg.Cart.TTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create table selection", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, outboxService, sessionReader, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	assembler, err := orders.NewAssembler(orders.AssemblerParams{
		Carts:    cartStore,
		Tables:   tableSelection,
		Sessions: sessionReader,
		Orders:   ordersService,
		Locks:    locker,
		Metrics:  metrics.NewSubmissionMetrics(registry),
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create submission assembler", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			catalogRepo,
			cartService,
			tableSelection,
			assembler,
			ordersService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-runCtx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}
