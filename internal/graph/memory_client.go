package graph

import (
	"context"
	"maps"
	"sync"
)

// MemoryClient is an in-memory Client for exercising repository logic without a
// running graph database. Read results are registered per cypher statement so
// that concurrent readers each get a deterministic answer.
type MemoryClient struct {
	mu           sync.Mutex
	writeCalls   []ExecutedQuery
	readCalls    []ExecutedQuery
	readResults  map[string]Result
	err          error
	connectivity error
	closed       bool
}

// ExecutedQuery captures a cypher statement and parameters executed against the graph.
type ExecutedQuery struct {
	Query  string
	Params map[string]any
}

// NewMemoryClient instantiates an empty in-memory client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{readResults: make(map[string]Result)}
}

// WithError configures the client to return the provided error for subsequent calls.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// SetReadResult registers the result returned whenever cypher is read.
func (m *MemoryClient) SetReadResult(cypher string, res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults[cypher] = res
}

func (m *MemoryClient) ExecuteWrite(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}

	m.writeCalls = append(m.writeCalls, ExecutedQuery{
		Query:  cypher,
		Params: maps.Clone(params),
	})
	return Result{}, nil
}

func (m *MemoryClient) ExecuteRead(_ context.Context, cypher string, params map[string]any) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}

	m.readCalls = append(m.readCalls, ExecutedQuery{
		Query:  cypher,
		Params: maps.Clone(params),
	})
	return m.readResults[cypher], nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemoryClient) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// WriteCalls returns a snapshot of executed write queries.
func (m *MemoryClient) WriteCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.writeCalls...)
}

// ReadCalls returns a snapshot of executed read queries.
func (m *MemoryClient) ReadCalls() []ExecutedQuery {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ExecutedQuery(nil), m.readCalls...)
}
