package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"product-catalog/apperrors"
	"product-catalog/controllers"
	"product-catalog/events"
	"product-catalog/logger"
	"product-catalog/middleware"
	"product-catalog/repository"
	"product-catalog/routes"
	"product-catalog/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log := logger.Initialize(cfg.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- 1. Storage ---
	productRepo := repository.NewMemoryAdapter()
	if cfg.SeedCatalog {
		n, err := repository.Seed(ctx, productRepo)
		if err != nil {
			zap.L().Fatal("Failed to seed catalog", zap.Error(err))
		}
		zap.L().Info("Catalog seeded", zap.Int("products", n))
	}

	// --- 2. Redis (optional) ---
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Failed to parse REDIS_URL, running without cache", zap.Error(err))
		} else {
			rdb = redis.NewClient(opts)
			if err := rdb.Ping(ctx).Err(); err != nil {
				zap.L().Warn("Redis unreachable, cache calls will degrade", zap.Error(err))
			}
		}
	}

	// --- 3. Wiring ---
	bus := events.NewBus()
	if rdb != nil {
		detach := events.NewRedisRelay(rdb, events.DefaultChannel).Attach(bus)
		defer detach()
	}

	productService := services.NewProductService(productRepo, bus, services.Options{
		QueryLatency:    cfg.QueryLatency,
		MutationLatency: cfg.MutationLatency,
	})

	productController := controllers.NewProductController(productService, rdb)
	categoryController := controllers.NewCategoryController()
	eventsController := controllers.NewEventsController(bus)

	// --- 4. HTTP Server & Middleware ---
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, 5*time.Minute)
	go limiter.RunSweeper(ctx)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware(limiter))
	r.Use(apperrors.ErrorMiddleware())

	routes.RegisterRoutes(r, productController, categoryController, eventsController, cfg.RequestTimeout)

	// --- 5. Graceful Shutdown ---
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Product catalog starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zap.L().Info("Shutting down product catalog...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Error("Server forced to shutdown", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}

	zap.L().Info("Product catalog stopped gracefully")
}
