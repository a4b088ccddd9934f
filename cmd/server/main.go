package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-zakat-keeper/internal/config"
	"github.com/MKhiriev/go-zakat-keeper/internal/handler"
	"github.com/MKhiriev/go-zakat-keeper/internal/limiter"
	"github.com/MKhiriev/go-zakat-keeper/internal/logger"
	"github.com/MKhiriev/go-zakat-keeper/internal/server"
	"github.com/MKhiriev/go-zakat-keeper/internal/service"
	"github.com/MKhiriev/go-zakat-keeper/internal/store"
	"github.com/MKhiriev/go-zakat-keeper/internal/workers"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("zakat-keeper-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildVersion
	}

	log.Debug().
		Str("address", cfg.Server.HTTPAddress).
		Str("redis", cfg.Limiter.RedisAddress).
		Dur("request_timeout", cfg.Server.RequestTimeout).
		Msg("received configs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, err := store.NewRepositories(ctx, cfg.Storage.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating repositories")
	}
	defer repos.Close()

	services, err := service.NewServices(repos, *cfg, models.NewAppBuildInfo(cfg.App.Version, buildDate, buildCommit), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	var rateLimiter limiter.Limiter
	if cfg.Limiter.RedisAddress != "" {
		redisClient, err := limiter.NewRedisClient(ctx, cfg.Limiter)
		if err != nil {
			log.Fatal().Err(err).Msg("error connecting to redis")
		}
		defer redisClient.Close()

		rateLimiter, err = limiter.NewRedisLimiter(redisClient, cfg.Limiter.Requests, cfg.Limiter.Window)
		if err != nil {
			log.Fatal().Err(err).Msg("error creating rate limiter")
		}
	} else {
		log.Warn().Msg("no redis address configured, prepare-migration is not rate limited")
	}

	handlers, err := handler.NewHandlers(services, rateLimiter, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	go workers.NewWorkers(repos.UserRepository, cfg.Workers, log).Run(ctx)

	if err = srv.RunServer(ctx); err != nil {
		log.Err(err).Msg("server stopped with error")
		cancel()
		repos.Close()
		os.Exit(1)
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
