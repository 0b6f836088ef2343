package source

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/erdos/backend/internal/domain"
	"github.com/vanshika/erdos/backend/internal/graph"
	"github.com/vanshika/erdos/backend/internal/repository"
)

type stubExporter struct {
	authors []domain.Author
	err     error
}

func (s stubExporter) ExportAuthors(context.Context) ([]domain.Author, error) {
	return s.authors, s.err
}

func (s stubExporter) ExportArticles(context.Context) ([]domain.Article, error) {
	return []domain.Article{{DOI: "10.1/x"}}, nil
}

func (s stubExporter) ExportAuthorships(context.Context) ([]domain.Authorship, error) {
	return []domain.Authorship{{AuthorORCID: "A", ArticleDOI: "10.1/x"}}, nil
}

func TestNeo4jSourceLoad(t *testing.T) {
	src := Neo4jSource{Repo: stubExporter{authors: []domain.Author{{ID: 3, ORCID: "A"}}}}

	batch, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.Author{{ID: 3, ORCID: "A"}}, batch.Authors)
	assert.Len(t, batch.Articles, 1)
	assert.Len(t, batch.Authorships, 1)
}

func TestNeo4jSourceExportError(t *testing.T) {
	boom := errors.New("bolt down")
	_, err := Neo4jSource{Repo: stubExporter{err: boom}}.Load(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestNeo4jSourceOverRepository(t *testing.T) {
	mem := graph.NewMemoryClient()
	src := Neo4jSource{Repo: repository.New(mem)}

	batch, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, batch.Empty())
	assert.Len(t, mem.ReadCalls(), 3)
}

func TestNewRejectsUnknownKind(t *testing.T) {
	_, closeFn, err := New(context.Background(), Settings{Kind: "csv"})
	require.Error(t, err)
	require.NotNil(t, closeFn)

	_, _, err = New(context.Background(), Settings{Kind: KindPostgres})
	require.Error(t, err)
}

func TestNewNDJSONWithoutS3(t *testing.T) {
	src, closeFn, err := New(context.Background(), Settings{
		Authors:     "a.ndjson",
		Articles:    "b.ndjson",
		Authorships: "c.ndjson",
	})
	require.NoError(t, err)
	defer closeFn()

	ndjson, ok := src.(NDJSONSource)
	require.True(t, ok)
	assert.Nil(t, ndjson.Opener.(LocationOpener).S3)
}
