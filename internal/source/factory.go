package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vanshika/erdos/backend/internal/graph"
	"github.com/vanshika/erdos/backend/internal/repository"
)

// Kinds accepted by New.
const (
	KindNDJSON   = "ndjson"
	KindPostgres = "postgres"
	KindNeo4j    = "neo4j"
)

// Settings selects and configures a Source.
type Settings struct {
	Kind        string
	Authors     string
	Articles    string
	Authorships string
	DatabaseURL string
	S3          S3Options
	Graph       graph.Options
}

// New opens the source described by settings. The returned close function
// releases any connection the source holds and is never nil.
func New(ctx context.Context, settings Settings) (Source, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(settings.Kind)) {
	case "", KindNDJSON:
		opener := LocationOpener{Files: FileOpener{}}
		if usesS3(settings.Authors, settings.Articles, settings.Authorships) {
			client, err := NewS3Client(ctx, settings.S3)
			if err != nil {
				return nil, noop, err
			}
			opener.S3 = S3Opener{Client: client}
		}
		return NDJSONSource{
			Authors:     settings.Authors,
			Articles:    settings.Articles,
			Authorships: settings.Authorships,
			Opener:      opener,
		}, noop, nil

	case KindPostgres:
		if settings.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("postgres source requires DATABASE_URL")
		}
		pool, err := pgxpool.New(ctx, settings.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("connect postgres: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, noop, fmt.Errorf("ping postgres: %w", err)
		}
		return PostgresSource{DB: pool}, pool.Close, nil

	case KindNeo4j:
		client, err := graph.NewNeo4jClient(ctx, settings.Graph)
		if err != nil {
			return nil, noop, err
		}
		closeFn := func() { _ = client.Close(context.Background()) }
		return Neo4jSource{Repo: repository.New(client)}, closeFn, nil

	default:
		return nil, noop, fmt.Errorf("unknown source kind %q", settings.Kind)
	}
}

func usesS3(locations ...string) bool {
	for _, loc := range locations {
		if strings.HasPrefix(loc, s3Scheme) {
			return true
		}
	}
	return false
}
