package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/vanshika/erdos/backend/internal/config"
	"github.com/vanshika/erdos/backend/internal/generator"
	"github.com/vanshika/erdos/backend/internal/graph"
	"github.com/vanshika/erdos/backend/internal/logging"
	"github.com/vanshika/erdos/backend/internal/repository"
	"github.com/vanshika/erdos/backend/internal/service"
	"github.com/vanshika/erdos/backend/internal/source"
)

var (
	errMissingDataset = errors.New("dataset not found")
)

func main() {
	var (
		datasetDir  = flag.String("dataset-dir", "./data", "Directory containing authors.ndjson, articles.ndjson and authorships.ndjson")
		authors     = flag.String("authors", "", "Authors NDJSON path or s3:// URL (overrides dataset-dir)")
		articles    = flag.String("articles", "", "Articles NDJSON path or s3:// URL (overrides dataset-dir)")
		authorships = flag.String("authorships", "", "Authorships NDJSON path or s3:// URL (overrides dataset-dir)")
		workers     = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	paths, err := resolveDatasetPaths(*datasetDir, *authors, *articles, *authorships)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, closeSource, err := source.New(ctx, source.Settings{
		Kind:        source.KindNDJSON,
		Authors:     paths[0],
		Articles:    paths[1],
		Authorships: paths[2],
		S3: source.S3Options{
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		},
	})
	if err != nil {
		logger.Error("failed to open dataset", "error", err)
		os.Exit(1)
	}
	batch, err := src.Load(ctx)
	closeSource()
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}
	if len(batch.Authors) == 0 {
		logger.Error("authors dataset empty", "path", paths[0])
		os.Exit(1)
	}

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	svc := service.NewBibliographyService(repo)
	ingestor := service.NewBulkIngestor(svc, *workers)

	if err := svc.Prepare(ctx); err != nil {
		logger.Error("failed to create constraints", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	logger.Info("ingesting bibliography",
		"authors", len(batch.Authors),
		"articles", len(batch.Articles),
		"authorships", len(batch.Authorships),
		"workers", *workers,
	)
	if err := ingestor.IngestBatch(ctx, batch); err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	counts, err := svc.Counts(ctx)
	if err != nil {
		logger.Warn("failed to read graph counts", "error", err)
	}
	logger.Info("ingestion complete",
		"duration", time.Since(start).String(),
		"stored_authors", counts.Authors,
		"stored_articles", counts.Articles,
		"stored_authorships", counts.Authorships,
	)
}

// resolveDatasetPaths returns the authors, articles and authorships
// locations. Object storage URLs are passed through unchecked.
func resolveDatasetPaths(baseDir, authorsPath, articlesPath, authorshipsPath string) ([3]string, error) {
	resolve := func(explicitPath, fallbackFile string) (string, error) {
		if explicitPath != "" {
			if strings.HasPrefix(explicitPath, "s3://") {
				return explicitPath, nil
			}
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, fallbackFile)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", errMissingDataset, path)
		}
		return path, nil
	}

	var paths [3]string
	inputs := [3][2]string{
		{authorsPath, generator.AuthorsFile},
		{articlesPath, generator.ArticlesFile},
		{authorshipsPath, generator.AuthorshipsFile},
	}
	for i, in := range inputs {
		path, err := resolve(in[0], in[1])
		if err != nil {
			return paths, err
		}
		paths[i] = path
	}
	return paths, nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graph.Client, error) {
	if cfg.Graph.URI == "" {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	opts := graph.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	}
	client, err := graph.NewNeo4jClient(ctx, opts)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
