package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// NewNeo4jClient establishes a Bolt connection using the official Neo4j driver
// and verifies it before returning.
func NewNeo4jClient(ctx context.Context, opts Options) (Client, error) {
	if opts.URI == "" {
		return nil, ErrMissingURI
	}

	auth := neo4j.NoAuth()
	if opts.Username != "" {
		auth = neo4j.BasicAuth(opts.Username, opts.Password, "")
	}

	driver, err := neo4j.NewDriverWithContext(opts.URI, auth, func(c *neo4j.Config) {
		if opts.MaxConnections > 0 {
			c.MaxConnectionPoolSize = opts.MaxConnections
		}
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify graph connectivity: %w", err)
	}

	return &neo4jClient{
		driver:   driver,
		database: opts.Database,
	}, nil
}

type neo4jClient struct {
	driver   neo4j.DriverWithContext
	database string
}

func (c *neo4jClient) ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return c.execute(ctx, cypher, params, neo4j.ExecuteQueryWithWritersRouting())
}

func (c *neo4jClient) ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	return c.execute(ctx, cypher, params, neo4j.ExecuteQueryWithReadersRouting())
}

// execute runs cypher in a managed transaction, which the driver retries on
// transient cluster errors.
func (c *neo4jClient) execute(ctx context.Context, cypher string, params map[string]any, routing neo4j.ExecuteQueryConfigurationOption) (Result, error) {
	settings := []neo4j.ExecuteQueryConfigurationOption{routing}
	if c.database != "" {
		settings = append(settings, neo4j.ExecuteQueryWithDatabase(c.database))
	}

	res, err := neo4j.ExecuteQuery(ctx, c.driver, cypher, params, neo4j.EagerResultTransformer, settings...)
	if err != nil {
		return Result{}, err
	}
	return toResult(res), nil
}

func (c *neo4jClient) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func toResult(res *neo4j.EagerResult) Result {
	records := make([]Record, 0, len(res.Records))
	for _, rec := range res.Records {
		record := make(Record, len(rec.Keys))
		for i, key := range rec.Keys {
			record[key] = rec.Values[i]
		}
		records = append(records, record)
	}
	return Result{Records: records}
}
