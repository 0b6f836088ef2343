package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *int64:
			*p = row[i].(int64)
		case *int:
			*p = row[i].(int)
		case *string:
			*p = row[i].(string)
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	results map[string][][]any
	fail    error
}

func (q fakeQuerier) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	if q.fail != nil {
		return nil, q.fail
	}
	return &fakeRows{rows: q.results[sql]}, nil
}

func TestPostgresSourceLoad(t *testing.T) {
	db := fakeQuerier{results: map[string][][]any{
		selectAuthorsSQL: {
			{int64(0), "A", "Erdos", "Paul"},
			{int64(1), "B", "Renyi", ""},
		},
		selectArticlesSQL: {
			{"10.1/x", "X", 1960},
		},
		selectAuthorshipsSQL: {
			{"A", "10.1/x"},
			{"B", "10.1/x"},
		},
	}}

	batch, err := PostgresSource{DB: db}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Authors, 2)
	assert.Equal(t, "Renyi", batch.Authors[1].LastName)
	assert.Equal(t, 1960, batch.Articles[0].PublicationDate)
	assert.Len(t, batch.Authorships, 2)
}

func TestPostgresSourceQueryError(t *testing.T) {
	boom := errors.New("connection refused")
	_, err := PostgresSource{DB: fakeQuerier{fail: boom}}.Load(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestPostgresSourceValidates(t *testing.T) {
	db := fakeQuerier{results: map[string][][]any{
		selectAuthorsSQL: {{int64(0), "", "Nobody", ""}},
	}}
	_, err := PostgresSource{DB: db}.Load(context.Background())
	require.ErrorIs(t, err, ErrInvalidRecord)
}
