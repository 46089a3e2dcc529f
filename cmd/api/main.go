package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"skustudio/internal/assets"
	"skustudio/internal/backend"
	httpapi "skustudio/internal/http"
	"skustudio/internal/http/handlers"
	"skustudio/internal/infra"
	"skustudio/internal/orchestrator"
	"skustudio/internal/planner"
	"skustudio/internal/providers/fal"
	"skustudio/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	scenePlanner := planner.NewCerebrasPlanner(planner.CerebrasOptions{
		APIKey:   cfg.CerebrasAPIKey,
		Model:    cfg.CerebrasModel,
		BaseURL:  cfg.CerebrasBaseURL,
		Fallback: planner.NewStaticPlanner(),
		OnFallback: func(reason string, err error) {
			logger.Warn().Err(err).Str("reason", reason).Msg("planner fell back to local synthesis")
		},
	})

	falClient := fal.NewClient(fal.Options{
		APIKey:         cfg.FalAPIKey,
		QueueBaseURL:   cfg.FalQueueURL,
		RESTBaseURL:    cfg.FalRESTBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.StageTimeout,
	})

	fileStore, err := storage.NewFileStore(cfg.StoragePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize local storage")
	}

	var gateway assets.Gateway
	if falClient.HasCredentials() {
		gateway = assets.NewFalGateway(falClient)
	} else {
		gateway = assets.NewFileGateway(fileStore, cfg.StorageBaseURL)
	}

	var strategy backend.Strategy
	switch cfg.Topology {
	case infra.TopologySubjectLocked:
		strategy = backend.NewSubjectLocked(falClient, &logger)
	case infra.TopologyImageToImage:
		strategy = backend.NewImageToImage(falClient, cfg.I2IStrength, &logger)
	default:
		strategy = backend.NewTwoStage(falClient, cfg.Stage2PromptMode == infra.Stage2PromptMinimal, &logger)
	}

	runner := orchestrator.New(orchestrator.Options{
		Gateway:      gateway,
		Strategy:     strategy,
		Mock:         !falClient.HasCredentials(),
		MockDelay:    cfg.MockDelay,
		StageTimeout: cfg.StageTimeout,
		Logger:       &logger,
	})

	app := handlers.NewApp(scenePlanner, runner, logger)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("topology", strategy.Name()).
			Bool("mock", !falClient.HasCredentials()).
			Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
