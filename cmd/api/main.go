package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesalabs/mesa-backend/api/routes"
	"github.com/mesalabs/mesa-backend/internal/cart"
	"github.com/mesalabs/mesa-backend/internal/menu"
	"github.com/mesalabs/mesa-backend/internal/notify"
	"github.com/mesalabs/mesa-backend/internal/orders"
	"github.com/mesalabs/mesa-backend/internal/promotions"
	"github.com/mesalabs/mesa-backend/pkg/config"
	"github.com/mesalabs/mesa-backend/pkg/db"
	"github.com/mesalabs/mesa-backend/pkg/logger"
	"github.com/mesalabs/mesa-backend/pkg/metrics"
	"github.com/mesalabs/mesa-backend/pkg/migrate"
	"github.com/mesalabs/mesa-backend/pkg/redis"
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
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	menuService := menu.NewService(menu.NewRepository(dbClient.DB()))
	promotionService := promotions.NewService(promotions.NewRepository(dbClient.DB()))
	orderService := orders.NewService(orders.NewRepository(dbClient.DB()))

	cartManager := cart.NewManager(cart.Deps{
		Store:    cart.NewRedisStore(redisClient, cfg.Cart.TTL),
		Notifier: notify.NewLogNotifier(logg),
		Metrics:  metrics.NewCartMetrics(prometheus.DefaultRegisterer),
		Logger:   logg,
	})

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
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			cartManager,
			menuService,
			promotionService,
			orderService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
