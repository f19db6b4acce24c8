package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"socialexec/internal/compositor"
	"socialexec/internal/fetch"
	"socialexec/internal/http/httpapi"
	"socialexec/internal/infra"
	"socialexec/internal/providers/graph"
	"socialexec/internal/providers/search"
	"socialexec/internal/rpc"
	"socialexec/internal/storage"
)

func main() {
	// Load .env if present, for local runs.
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if !cfg.AuthEnabled() {
		logger.Warn().Msg("MCP_API_KEY not set, allowing unauthenticated requests")
	}

	downloads, err := storage.NewFileStore(cfg.DownloadDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare download directory")
	}
	posts, err := storage.NewFileStore(cfg.PostsDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare posts directory")
	}

	graphClient := graph.NewClient(graph.Options{
		AccessToken: cfg.GraphAccessToken,
		UserID:      cfg.IGUserID,
		BaseURL:     cfg.GraphBaseURL,
		Logger:      &logger,
	})
	searchClient := search.NewClient(search.Options{
		APIKey:   cfg.SearchAPIKey,
		EngineID: cfg.SearchEngineID,
		BaseURL:  cfg.SearchBaseURL,
		Logger:   &logger,
	})
	fetcher := fetch.New(fetch.Options{
		Timeout: cfg.DownloadTimeout,
		Logger:  &logger,
	})

	srv := rpc.NewServer(rpc.Deps{
		Graph:      graphClient,
		Search:     searchClient,
		Fetcher:    fetcher,
		Downloads:  downloads,
		Posts:      posts,
		Compositor: compositor.New(logger),
		Logger:     logger,
	})

	router := httpapi.NewRouter(cfg, logger, srv)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("MCP endpoint listening on :%s", cfg.Port)
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
