package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/evtrading/evmarket-gateway/api/routes"
	"github.com/evtrading/evmarket-gateway/internal/backend"
	"github.com/evtrading/evmarket-gateway/internal/listings"
	"github.com/evtrading/evmarket-gateway/internal/moderation"
	"github.com/evtrading/evmarket-gateway/internal/orders"
	"github.com/evtrading/evmarket-gateway/internal/payments"
	"github.com/evtrading/evmarket-gateway/internal/profile"
	"github.com/evtrading/evmarket-gateway/pkg/auth/session"
	"github.com/evtrading/evmarket-gateway/pkg/config"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/metrics"
	"github.com/evtrading/evmarket-gateway/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	backendMetrics := metrics.NewBackendClientMetrics(prometheus.DefaultRegisterer)
	backendClient, err := backend.NewClient(cfg.Backend, logg, backendMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	listingsService, err := listings.NewService(listings.ServiceParams{
		Backend: backendClient,
		Cache:   redisClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create listings service", err)
		os.Exit(1)
	}

	moderationService, err := moderation.NewService(moderation.ServiceParams{
		Backend: backendClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create moderation service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Backend: backendClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Backend: backendClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	profileService, err := profile.NewService(profile.ServiceParams{
		Backend: backendClient,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create profile service", err)
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
		Handler: routes.NewRouter(routes.RouterParams{
			Config:     cfg,
			Logger:     logg,
			Redis:      redisClient,
			Backend:    backendClient,
			Sessions:   sessionManager,
			Listings:   listingsService,
			Moderation: moderationService,
			Orders:     ordersService,
			Payments:   paymentsService,
			Profile:    profileService,
		}),
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-signalCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}
