package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/tableserve-backend/internal/orders"
	"github.com/angelmondragon/tableserve-backend/pkg/config"
	"github.com/angelmondragon/tableserve-backend/pkg/db"
	"github.com/angelmondragon/tableserve-backend/pkg/logger"
	"github.com/angelmondragon/tableserve-backend/pkg/metrics"
	"github.com/angelmondragon/tableserve-backend/pkg/migrate"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox"
	"github.com/angelmondragon/tableserve-backend/pkg/outbox/registry"
	"github.com/angelmondragon/tableserve-backend/pkg/pubsub"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "outbox-publisher"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "outbox-publisher"

	logg = logger.New(logger.Options{
		ServiceName: "outbox-publisher",
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

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	eventRegistry, err := registry.NewEventRegistry(cfg.PubSub)
	if err != nil {
		logg.Error(context.Background(), "failed to build event registry", err)
		os.Exit(1)
	}
	senders := make(map[string]sender)
	for _, topic := range eventRegistry.Topics() {
		publisher := pubsubClient.Publisher(topic)
		if publisher == nil {
			logg.Error(context.Background(), "no publisher for topic "+topic, errors.New("topic not configured"))
			os.Exit(1)
		}
		senders[topic] = func(ctx context.Context, msg *gcppubsub.Message) error {
			_, err := publisher.Publish(ctx, msg).Get(ctx)
			return err
		}
	}

	orderRepo := orders.NewRepository(dbClient.DB())
	forwarder, err := NewForwarder(ForwarderParams{
		Outbox: cfg.Outbox,
		Logger: logg,
		DB:     dbClient,
		Pings: map[string]func(context.Context) error{
			"database": dbClient.Ping,
			"pubsub":   pubsubClient.Ping,
		},
		Repository: outbox.NewRepository(dbClient.DB()),
		DLQ:        outbox.NewDLQRepository(dbClient.DB()),
		Registry:   eventRegistry,
		Senders:    senders,
		MarkForwarded: func(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) error {
			// a failed UPDATE must not abort the publish transaction
			if err := tx.SavePoint("mark_forwarded").Error; err != nil {
				return err
			}
			if err := orderRepo.WithTx(tx).MarkForwarded(ctx, batchID); err != nil {
				return multierr.Append(err, tx.RollbackTo("mark_forwarded").Error)
			}
			return nil
		},
		Metrics: metrics.NewOutboxMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox forwarder", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": "outbox-publisher",
	})
	logg.Info(ctx, "starting outbox publisher")

	if err := forwarder.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "outbox publisher stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "outbox publisher shutting down gracefully")
}
