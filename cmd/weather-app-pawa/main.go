package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/kurosakiaduma/weather-app-pawa/internal/api/http"
	"github.com/kurosakiaduma/weather-app-pawa/internal/config"
	"github.com/kurosakiaduma/weather-app-pawa/internal/logger"
	"github.com/kurosakiaduma/weather-app-pawa/internal/scheduler"
	"github.com/kurosakiaduma/weather-app-pawa/internal/store"
	"github.com/kurosakiaduma/weather-app-pawa/internal/weather"
	"github.com/kurosakiaduma/weather-app-pawa/internal/weather/providers"
)

func main() {
	log := logger.GetLogger()
	defer func() { _ = logger.Close() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	// Shared HTTP client for outbound provider calls; the timeout bounds
	// each attempt independently of any caller deadline.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Cache store: redis when configured, in-process otherwise.
	var cache store.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = store.NewRedisStore(rdb, log)
		log.Infow("using redis cache store", "addr", cfg.RedisAddr)
	} else {
		cache = store.NewMemoryStore()
		log.Info("using in-memory cache store")
	}

	client := providers.NewOpenWeatherClient(httpClient, cfg.OpenWeatherAPIKey, providers.RetryConfig{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
	}, log)

	resolver := weather.NewResolver(cache, client, cfg.GeoCacheTTL, log)
	fetcher := weather.NewFetcher(client, log)
	pipeline := weather.NewPipeline(cache, resolver, fetcher, cfg.WeatherCacheTTL, log)

	// Keep configured cities warm so their outer entries never go cold.
	warmer := scheduler.New(cfg.WarmCities, cfg.WarmInterval, pipeline, log)
	if err := warmer.Start(); err != nil {
		log.Fatalw("failed to start cache warmer", "error", err)
	}
	defer warmer.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-app-pawa",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	app.Use(httpapi.RequestID())
	app.Use(fiberlogger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-app-pawa",
		})
	})

	httpapi.RegisterRoutes(app, pipeline, log)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Errorw("fiber server stopped", "error", err)
		}
	}()
	log.Infow("server started", "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Errorw("error during shutdown", "error", err)
	}
}
