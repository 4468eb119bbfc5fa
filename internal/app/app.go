// Package app wires configuration to the HTTP server and lifecycle
// orchestration.
package app

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"learnpath/internal/api"
	"learnpath/internal/config"
	"learnpath/internal/generator"
	"learnpath/internal/infrastructure/cache"
	"learnpath/internal/infrastructure/ollama"
	"learnpath/internal/infrastructure/search"
	"learnpath/internal/logging"
	"learnpath/internal/ports"
	"learnpath/internal/usecase"
)

// Application owns the assembled service and its HTTP listener.
type Application struct {
	cfg         config.Config
	logger      *zap.Logger
	server      *http.Server
	resultCache *cache.RedisCache
}

// New builds a runnable application instance.
func New(cfg config.Config, logger *zap.Logger) *Application {
	if logger == nil {
		logger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	searchClient := search.NewClient(search.Config{
		BaseURL:    cfg.Search.BaseURL,
		UserAgent:  cfg.Search.UserAgent,
		Timeout:    cfg.Search.Timeout,
		MaxResults: cfg.Search.MaxResults,
		MinDelay:   cfg.Search.MinDelay,
		MaxDelay:   cfg.Search.MaxDelay,
	}, nil, logger.Named("search"))

	modelClient := ollama.NewClient(ollama.Config{
		BaseURL: cfg.Ollama.BaseURL,
		Model:   cfg.Ollama.Model,
		Timeout: cfg.Ollama.Timeout,
	}, nil)

	resultCache := cache.New(cache.Config{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
		TTL:      cfg.Cache.TTL,
	}, logger.Named("cache"))
	var cachePort ports.ResultCache
	if resultCache != nil {
		cachePort = resultCache
	}

	service := usecase.NewService(usecase.Deps{
		Source:    searchClient,
		Generator: generator.New(modelClient, logger.Named("generator")),
		Cache:     cachePort,
		Logger:    logger.Named("usecase"),
		ModelName: cfg.Ollama.Model,
	})

	restServer := api.NewServer(service, modelClient, api.Config{
		MaxResultsPerQuery: cfg.Search.MaxResults,
	}, logger.Named("api"))

	return &Application{
		cfg:    cfg,
		logger: logger,
		server: &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: restServer.Handler(),
		},
		resultCache: resultCache,
	}
}

// Run serves HTTP until the context is canceled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", zap.String("addr", a.cfg.Server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if a.resultCache != nil {
		if err := a.resultCache.Close(); err != nil {
			a.logger.Warn("closing cache", zap.Error(err))
		}
	}
	return nil
}
