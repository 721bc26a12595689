package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/cart"
	"storefront-be/internal/category"
	"storefront-be/internal/checkout"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/events"
	"storefront-be/internal/handler"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/router"
	"storefront-be/internal/user"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = listenAndServe
)

func main() {
	if err := run(); err != nil {
		logger.L().Fatal("server exited", zap.Error(err))
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	logger.L().Info("storefront api listening", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(ctx, addr, h)
}

// newServer wires repositories, services and the HTTP stack. Background work
// it starts stops when ctx is done.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	business := metrics.NewBusiness(cfg.MetricsNamespace, reg)
	httpMetrics := middleware.NewHTTPMetrics(cfg.MetricsNamespace, reg)

	publisher, err := events.New(cfg.NATSURL)
	if err != nil {
		logger.L().Warn("order events disabled", zap.Error(err))
		publisher = events.Noop{}
	}

	tokens := auth.NewManager(cfg.JWTSecret, 0)

	productSvc := product.NewService(product.NewRepository(database))
	categorySvc := category.NewService(category.NewRepository(database))
	userSvc := user.NewService(user.NewRepository(database), tokens)

	cartRepo := cart.NewRepository(database)
	cartSvc := cart.NewService(cartRepo, productSvc, business)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productSvc, publisher, business, order.Policy{
		VerifyTotal:       cfg.VerifyOrderTotal,
		StrictTransitions: cfg.StrictStatusTransitions,
		DefaultShipping:   cfg.ShippingCost,
	})
	checkoutSvc := checkout.NewService(database, cartRepo, orderRepo, orderSvc, productSvc, cfg.ShippingCost, business)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if err := userSvc.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}

	h := &handler.Handler{
		Carts:      cartSvc,
		Checkout:   checkoutSvc,
		Orders:     orderSvc,
		Products:   productSvc,
		Categories: categorySvc,
		Users:      userSvc,
		DB:         database,
	}

	r := router.New()
	h.Register(r)
	r.Handle(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	limiter := middleware.NewRateLimiter()
	go limiter.Run(ctx)
	go func() {
		<-ctx.Done()
		publisher.Close()
	}()

	return middleware.Chain(
		httpMetrics.Middleware(r),
		logger.RequestIDMiddleware,
		logger.LoggingMiddleware,
		middleware.CORS(cfg.CORSOrigin),
		middleware.InternalRequest(cfg.InternalSecretKey),
		middleware.AuthMiddleware(tokens),
		limiter.Middleware,
	), nil
}

// listenAndServe serves until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func listenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
