package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vanshika/erdos/backend/internal/generator"
	"github.com/vanshika/erdos/backend/internal/source"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		authors       = flag.Int("authors", cfg.NumAuthors, "number of authors to generate")
		articles      = flag.Int("articles", cfg.NumArticles, "number of articles to generate")
		maxPerArticle = flag.Int("max-authors-per-article", cfg.MaxAuthorsPerArticle, "upper bound on authors listed on one article")
		hubAuthors    = flag.Int("hub-authors", cfg.HubAuthors, "number of prolific authors")
		hubChance     = flag.Float64("hub-chance", cfg.HubChance, "probability that an author slot is filled by a hub author")
		dupChance     = flag.Float64("duplicate-link-chance", cfg.DuplicateLinkChance, "probability of emitting an authorship twice")
		firstYear     = flag.Int("first-year", cfg.FirstYear, "earliest publication year")
		lastYear      = flag.Int("last-year", cfg.LastYear, "latest publication year")
		seed          = flag.Int64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir     = flag.String("output-dir", "data", "directory to write the NDJSON files")
		writeStdout   = flag.Bool("stdout", false, "write authorships NDJSON to stdout instead of files")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumAuthors:           *authors,
		NumArticles:          *articles,
		MaxAuthorsPerArticle: *maxPerArticle,
		HubAuthors:           *hubAuthors,
		HubChance:            clampProbability(*hubChance),
		DuplicateLinkChance:  clampProbability(*dupChance),
		FirstYear:            *firstYear,
		LastYear:             *lastYear,
		Seed:                 *seed,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	gen := generator.New(genCfg)
	dataset, err := gen.Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	if *writeStdout {
		if err := source.EncodeBatch(dataset, io.Discard, io.Discard, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write dataset to stdout: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := generator.WriteDataset(dataset, *outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d authors, %d articles and %d authorships into %s\n",
		len(dataset.Authors), len(dataset.Articles), len(dataset.Authorships), *outputDir)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
