package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/ShubhamSahu-2005/ezwoods-backend/api/routes"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/cart"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/checkout"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/orders"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/pricing"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/products"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/reviews"
	"github.com/ShubhamSahu-2005/ezwoods-backend/internal/wishlist"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/config"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/db"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/logger"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/metrics"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/migrate"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/razorpay"
	"github.com/ShubhamSahu-2005/ezwoods-backend/pkg/redis"
)

const (
	shutdownTimeout   = 15 * time.Second
	cartSweepInterval = 15 * time.Minute
	cartIdleTTL       = 24 * time.Hour
)

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	var gateway *razorpay.Client
	if cfg.Razorpay.Enabled() {
		gateway, err = razorpay.NewClient(context.Background(), cfg.Razorpay, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create razorpay client", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "razorpay credentials missing, checkout is disabled")
	}

	productRepo := products.NewRepository(dbClient.DB())
	productService, err := products.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.NewRepository(dbClient.DB()), dbClient, productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create review service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.NewRepository(dbClient.DB()), productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	carts := cart.NewManager(logg)

	checkoutParams := checkout.ServiceParams{
		Rules: pricing.Rules{
			FreeShippingThreshold: cfg.Store.FreeShippingThresholdAmount(),
			FlatShippingFee:       cfg.Store.FlatShippingFeeAmount(),
			TaxRate:               cfg.Store.TaxRateAmount(),
			AdvanceRate:           cfg.Store.AdvanceRateAmount(),
		},
		Orders:  orderService,
		Carts:   carts,
		Locks:   redisClient,
		Metrics: checkoutMetrics,
		Logger:  logg,
	}
	if gateway != nil {
		checkoutParams.Gateway = gateway
	}
	checkoutService, err := checkout.NewService(checkoutParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
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
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			IdemKeys: redisClient,
			Registry: registry,
			Carts:    carts,
			Products: productService,
			Reviews:  reviewService,
			Wishlist: wishlistService,
			Orders:   orderService,
			Checkout: checkoutService,
		}),
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(cartSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCtx.Done():
				return
			case <-ticker.C:
				if pruned := carts.PruneIdle(cartIdleTTL); pruned > 0 {
					logg.Info(logg.WithFields(context.Background(), map[string]any{
						"pruned": pruned,
					}), "pruned idle carts")
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	checkoutService.Teardown(shutdownCtx)
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "errors during shutdown", closeErr)
		os.Exit(1)
	}

	logg.Info(ctx, "api server stopped")
}
