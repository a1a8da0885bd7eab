package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"

	"github.com/podomall/podomall-backend/internal/shipping"
	"github.com/podomall/podomall-backend/pkg/config"
	"github.com/podomall/podomall-backend/pkg/db"
	"github.com/podomall/podomall-backend/pkg/instance"
	"github.com/podomall/podomall-backend/pkg/logger"
	"github.com/podomall/podomall-backend/pkg/pubsub"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "tracking-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "tracking-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)

	shippingRepo := shipping.NewRepository(dbClient.DB())
	shippingService, err := shipping.NewService(shippingRepo, dbClient)
	requireResource(ctx, logg, "shipping service", err)

	subscription := pubsubClient.TrackingSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "tracking subscription", errors.New("subscription not configured"))
	}

	consumer, err := shipping.NewConsumer(shippingService, subscription, logg)
	requireResource(ctx, logg, "tracking consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{
		"env":      cfg.App.Env,
		"instance": instance.GetID(),
	})
	logg.Info(runCtx, "tracking worker ready")

	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "tracking worker failed", err)
		os.Exit(1)
	}

	var closeErrs error
	closeErrs = multierr.Append(closeErrs, pubsubClient.Close())
	closeErrs = multierr.Append(closeErrs, dbClient.Close())
	if closeErrs != nil {
		logg.Error(runCtx, "shutdown finished with errors", closeErrs)
		os.Exit(1)
	}
	logg.Info(runCtx, "tracking worker shut down")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
