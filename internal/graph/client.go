// Package graph wraps the Bolt connection used to persist and export the
// bibliography as Author and Article nodes joined by AUTHORED relationships.
package graph

import (
	"context"
	"errors"
	"fmt"
)

// Client is the query surface the bibliography repository runs Cypher through.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Result holds the records of one query. Records is nil when the statement
// returned no rows by construction and empty when a MATCH found nothing.
type Result struct {
	Records []Record
}

// First returns the first record, if any.
func (r Result) First() (Record, bool) {
	if len(r.Records) == 0 {
		return nil, false
	}
	return r.Records[0], true
}

// Record maps the RETURN aliases of a row to their values.
type Record map[string]any

// String reads key as text. Missing keys and null properties read as "".
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Int64 reads key as an integer. Bolt returns int64; the other cases cover
// hand-built records. Missing keys and null properties read as 0.
func (r Record) Int64(key string) int64 {
	switch v := r[key].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}

// Options configures a Neo4j connection.
type Options struct {
	URI      string
	Database string
	Username string
	Password string
	// MaxConnections caps the driver pool; zero keeps the driver default.
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
