package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	httpapi "github.com/i474232898/wind-data-analysis/internal/api/http"
	"github.com/i474232898/wind-data-analysis/internal/config"
	"github.com/i474232898/wind-data-analysis/internal/logging"
	"github.com/i474232898/wind-data-analysis/internal/scheduler"
	"github.com/i474232898/wind-data-analysis/internal/store"
	"github.com/i474232898/wind-data-analysis/internal/wind"
	"github.com/i474232898/wind-data-analysis/internal/wind/sources"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New("info", "console")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Info().Err(envErr).Msg("no .env file loaded")
	}

	// Shared HTTP client for outbound source calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	service := wind.NewService(memStore, buildSources(cfg, httpClient, log), log)

	sched := scheduler.New(cfg.Stations, cfg.RefreshInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "wind-data-analysis",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "wind-data-analysis",
			"stations": len(service.Stations()),
		})
	})

	httpapi.RegisterRoutes(app, service)

	go func() {
		log.Info().Str("port", cfg.Port).Strs("sources", cfg.Sources).Msg("starting http server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
}

// buildSources instantiates the configured sources in fallback order.
func buildSources(cfg *config.AppConfig, client *http.Client, log zerolog.Logger) []wind.Source {
	var srcs []wind.Source
	for _, name := range cfg.Sources {
		switch name {
		case "csv":
			if cfg.SeedDataFile {
				seeded, err := sources.SeedCSV(cfg.DataFile, synthConfig(cfg))
				if err != nil {
					log.Error().Err(err).Str("file", cfg.DataFile).Msg("failed to seed data file")
				} else if seeded {
					log.Info().Str("file", cfg.DataFile).Int("samples", cfg.SynthSamples).Msg("seeded data file with synthetic samples")
				}
			}
			srcs = append(srcs, sources.NewCSVSource(cfg.DataFile))
		case "openmeteo":
			srcs = append(srcs, sources.NewOpenMeteoSource(client, cfg.OpenMeteoPastDays, cfg.GeocoderAPIKey))
		case "synthetic":
			srcs = append(srcs, sources.NewSyntheticSource(synthConfig(cfg)))
		default:
			log.Warn().Str("source", name).Msg("ignoring unknown source")
		}
	}
	return srcs
}

func synthConfig(cfg *config.AppConfig) sources.SyntheticConfig {
	return sources.SyntheticConfig{
		Samples: cfg.SynthSamples,
		Start:   cfg.SynthStart,
		Seed:    cfg.SynthSeed,
	}
}
