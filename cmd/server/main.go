package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vanshika/erdos/backend/internal/config"
	"github.com/vanshika/erdos/backend/internal/graph"
	"github.com/vanshika/erdos/backend/internal/logging"
	"github.com/vanshika/erdos/backend/internal/server"
	"github.com/vanshika/erdos/backend/internal/service"
	"github.com/vanshika/erdos/backend/internal/source"
)

var errNoRecords = errors.New("source returned no records")

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	erdosService, err := buildErdosService(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to build coauthor graph", "error", err)
		os.Exit(1)
	}

	graphClient, err := buildGraphClient(ctx, cfg)
	if err != nil && !errors.Is(err, graph.ErrMissingURI) {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	apiHandlers := server.NewAPIHandlers(logger, erdosService)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           server.GraphHealthService{Client: graphClient},
		API:              apiHandlers,
		AllowedOrigins:   parseAllowedOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	srv := server.New(logger, cfg.HTTP, router, erdosService.Stats())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
}

// buildErdosService loads the bibliography once and builds the immutable graph
// served by every request.
func buildErdosService(ctx context.Context, logger *slog.Logger, cfg config.Config) (*service.ErdosService, error) {
	src, closeSource, err := source.New(ctx, sourceSettings(cfg))
	if err != nil {
		return nil, err
	}
	defer closeSource()

	start := time.Now()
	batch, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	if batch.Empty() {
		return nil, errNoRecords
	}
	logger.Info("records loaded",
		"source", cfg.Source.Kind,
		"authors", len(batch.Authors),
		"articles", len(batch.Articles),
		"authorships", len(batch.Authorships),
		"duration", time.Since(start).String(),
	)

	svc, err := service.NewErdosService(batch, service.Options{
		Mode:           cfg.Erdos.Mode,
		StrictArticles: cfg.Erdos.StrictArticles,
		Workers:        cfg.Erdos.QueryWorkers,
	})
	if err != nil {
		return nil, err
	}
	stats := svc.Stats()
	logger.Info("coauthor graph ready",
		"nodes", stats.Authors,
		"edges", stats.Edges,
		"isolated", stats.Isolated,
		"mode", stats.DistanceMode,
	)
	return svc, nil
}

func sourceSettings(cfg config.Config) source.Settings {
	return source.Settings{
		Kind:        cfg.Source.Kind,
		Authors:     cfg.Source.Authors,
		Articles:    cfg.Source.Articles,
		Authorships: cfg.Source.Authorships,
		DatabaseURL: cfg.Source.DatabaseURL,
		S3: source.S3Options{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		},
		Graph: graphOptions(cfg),
	}
}

func buildGraphClient(ctx context.Context, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, graph.ErrMissingURI
	}
	return graph.NewNeo4jClient(ctx, graphOptions(cfg))
}

func graphOptions(cfg config.Config) graph.Options {
	return graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
}

func parseAllowedOrigins(csv string) []string {
	if csv == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	var origins []string
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		origins = append(origins, origin)
	}
	return origins
}
