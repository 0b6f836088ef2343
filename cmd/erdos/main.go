package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/erdos/backend/internal/coauthor"
	"github.com/vanshika/erdos/backend/internal/config"
	"github.com/vanshika/erdos/backend/internal/graph"
	"github.com/vanshika/erdos/backend/internal/logging"
	"github.com/vanshika/erdos/backend/internal/service"
	"github.com/vanshika/erdos/backend/internal/source"
)

const exitUnreachable = 2

func main() {
	var (
		sourceRef   = flag.String("source", "", "source author id or ORCID")
		targetRef   = flag.String("target", "", "target author id or ORCID")
		mode        = flag.String("mode", "", "distance mode: hops or weighted (defaults to ERDOS_DISTANCE_MODE)")
		showPath    = flag.Bool("path", false, "print one shortest coauthor chain")
		strict      = flag.Bool("strict", false, "reject authorships referencing unknown articles")
		authors     = flag.String("authors", "", "authors NDJSON location (overrides SOURCE_AUTHORS)")
		articles    = flag.String("articles", "", "articles NDJSON location (overrides SOURCE_ARTICLES)")
		authorships = flag.String("authorships", "", "authorships NDJSON location (overrides SOURCE_AUTHORSHIPS)")
	)
	flag.Parse()

	if *sourceRef == "" || *targetRef == "" {
		fmt.Fprintln(os.Stderr, "both -source and -target are required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *mode != "" {
		if cfg.Erdos.Mode, err = coauthor.ParseMode(*mode); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -mode: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Erdos.StrictArticles = cfg.Erdos.StrictArticles || *strict
	overrideLocation(&cfg.Source.Authors, *authors)
	overrideLocation(&cfg.Source.Articles, *articles)
	overrideLocation(&cfg.Source.Authorships, *authorships)

	logger := logging.NewWriter(os.Stderr, cfg.Logging).With("component", "erdos")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	src, closeSource, err := source.New(ctx, source.Settings{
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
		Graph: graph.Options{
			URI:            cfg.Graph.URI,
			Database:       cfg.Graph.Database,
			Username:       cfg.Graph.Username,
			Password:       cfg.Graph.Password,
			MaxConnections: cfg.Graph.MaxConnections,
		},
	})
	if err != nil {
		logger.Error("failed to open source", "error", err)
		os.Exit(1)
	}
	batch, err := src.Load(ctx)
	closeSource()
	if err != nil {
		logger.Error("failed to load records", "error", err, "source", cfg.Source.Kind)
		os.Exit(1)
	}
	if batch.Empty() {
		logger.Error("source returned no records", "source", cfg.Source.Kind)
		os.Exit(1)
	}
	logger.Debug("records loaded", "authors", len(batch.Authors), "articles", len(batch.Articles), "authorships", len(batch.Authorships))

	svc, err := service.NewErdosService(batch, service.Options{
		Mode:           cfg.Erdos.Mode,
		StrictArticles: cfg.Erdos.StrictArticles,
	})
	if err != nil {
		logger.Error("failed to build coauthor graph", "error", err)
		os.Exit(1)
	}

	from, err := svc.ResolveAuthor(*sourceRef)
	if err != nil {
		logger.Error("unknown source author", "ref", *sourceRef, "error", err)
		os.Exit(1)
	}
	to, err := svc.ResolveAuthor(*targetRef)
	if err != nil {
		logger.Error("unknown target author", "ref", *targetRef, "error", err)
		os.Exit(1)
	}

	path, err := svc.Path(ctx, from.ID, to.ID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("distance query failed", "error", err)
		}
		os.Exit(1)
	}

	if !path.Reachable {
		fmt.Println(coauthor.Unreachable)
		os.Exit(exitUnreachable)
	}

	fmt.Println(path.Distance)
	if *showPath {
		for i, author := range path.Authors {
			fmt.Printf("%d\t%d\t%s\t%s\n", i, author.ID, author.ORCID, author.DisplayName())
		}
	}
}

func overrideLocation(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
