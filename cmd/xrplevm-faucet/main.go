package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/vriveraPeersyst/xrplevm-faucet/cmd/xrplevm-faucet/cli"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/api"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/db/model"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/observability/healthcheck"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/observability/metrics"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/services"
)

const shutdownTimeout = 10 * time.Second

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	err = model.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up transfer db model")
	}

	chainClients := clients.New(cfg)

	services, err := services.New(ctx, cfg, chainClients)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up services layer")
	}

	err = healthcheck.StartHealthCheckCron(ctx, services, cfg.Server.HealthCheckInterval)
	if err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up faucet api service")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start()
	}()

	// Block until the server fails or a termination signal arrives, then
	// drain in-flight requests and running pollers before exiting.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("error while starting faucet api service")
	case sig := <-quit:
		log.Info().Msgf("Received signal %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error while shutting down api server")
	}
	services.Shutdown()
}
