package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/podomall/podomall-backend/api/routes"
	"github.com/podomall/podomall-backend/internal/cart"
	"github.com/podomall/podomall-backend/internal/catalog"
	checkoutsvc "github.com/podomall/podomall-backend/internal/checkout"
	"github.com/podomall/podomall-backend/internal/notifications"
	"github.com/podomall/podomall-backend/internal/orders"
	"github.com/podomall/podomall-backend/internal/pricing"
	"github.com/podomall/podomall-backend/internal/shipping"
	"github.com/podomall/podomall-backend/internal/users"
	"github.com/podomall/podomall-backend/pkg/auth/session"
	"github.com/podomall/podomall-backend/pkg/config"
	"github.com/podomall/podomall-backend/pkg/db"
	"github.com/podomall/podomall-backend/pkg/logger"
	"github.com/podomall/podomall-backend/pkg/metrics"
	"github.com/podomall/podomall-backend/pkg/migrate"
	"github.com/podomall/podomall-backend/pkg/redis"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis)
	requireResource(ctx, logg, "redis", err)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	calculator, err := pricing.NewCalculator(cfg.Pricing)
	requireResource(ctx, logg, "pricing calculator", err)

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	userRepo := users.NewRepository(conn)
	checkoutRepo := checkoutsvc.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)
	shippingRepo := shipping.NewRepository(conn)
	notificationsRepo := notifications.NewRepository(conn)

	catalogService, err := catalog.NewService(catalogRepo)
	requireResource(ctx, logg, "catalog service", err)

	cartService, err := cart.NewService(cartRepo, catalogRepo, calculator)
	requireResource(ctx, logg, "cart service", err)

	usersService, err := users.NewService(userRepo)
	requireResource(ctx, logg, "users service", err)

	notificationsService, err := notifications.NewService(notificationsRepo)
	requireResource(ctx, logg, "notifications service", err)

	ordersService, err := orders.NewService(ordersRepo)
	requireResource(ctx, logg, "orders service", err)

	shippingService, err := shipping.NewService(shippingRepo, dbClient)
	requireResource(ctx, logg, "shipping service", err)

	provisionService, err := users.NewProvisionService(userRepo, cartService, logg)
	requireResource(ctx, logg, "provision service", err)

	checkoutService, err := checkoutsvc.NewService(
		checkoutRepo,
		cartRepo,
		userRepo,
		dbClient,
		calculator,
		notificationsService,
		checkoutMetrics,
		logg,
	)
	requireResource(ctx, logg, "checkout service", err)

	router := routes.NewRouter(routes.Deps{
		Config:         cfg,
		Logger:         logg,
		DB:             dbClient,
		Redis:          redisClient,
		SessionChecker: sessionManager,
		Registry:       registry,

		Catalog:       catalogService,
		Cart:          cartService,
		Checkout:      checkoutService,
		Orders:        ordersService,
		Users:         usersService,
		Provision:     provisionService,
		Notifications: notificationsService,
		Shipping:      shippingService,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(runCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var closeErrs error
	closeErrs = multierr.Append(closeErrs, server.Shutdown(shutdownCtx))
	closeErrs = multierr.Append(closeErrs, redisClient.Close())
	closeErrs = multierr.Append(closeErrs, dbClient.Close())
	if closeErrs != nil {
		logg.Error(runCtx, "shutdown finished with errors", closeErrs)
		os.Exit(1)
	}
	logg.Info(runCtx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
