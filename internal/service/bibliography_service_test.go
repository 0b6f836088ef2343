package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/erdos/backend/internal/domain"
	"github.com/vanshika/erdos/backend/internal/repository"
)

type stubRepository struct {
	mu          sync.Mutex
	authors     []domain.Author
	articles    []domain.Article
	links       []domain.Authorship
	constraints int
	linkErr     error
	counts      repository.Counts
}

func (s *stubRepository) EnsureConstraints(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.constraints++
	return nil
}

func (s *stubRepository) UpsertAuthor(ctx context.Context, author domain.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authors = append(s.authors, author)
	return nil
}

func (s *stubRepository) UpsertArticle(ctx context.Context, article domain.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.articles = append(s.articles, article)
	return nil
}

func (s *stubRepository) LinkAuthorship(ctx context.Context, link domain.Authorship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.linkErr != nil {
		return s.linkErr
	}
	s.links = append(s.links, link)
	return nil
}

func (s *stubRepository) Counts(ctx context.Context) (repository.Counts, error) {
	return s.counts, nil
}

func TestBibliographyService_UpsertAuthorNormalizes(t *testing.T) {
	repo := &stubRepository{}
	svc := NewBibliographyService(repo)

	err := svc.UpsertAuthor(context.Background(), domain.Author{
		ID:         4,
		ORCID:      " https://orcid.org/0000-0002-1694-233x ",
		LastName:   "  Erdős ",
		GivenNames: "Paul\t\tP.",
	})
	require.NoError(t, err)

	require.Len(t, repo.authors, 1)
	assert.Equal(t, domain.Author{
		ID:         4,
		ORCID:      "0000-0002-1694-233X",
		LastName:   "Erdős",
		GivenNames: "Paul P.",
	}, repo.authors[0])
}

func TestBibliographyService_Validation(t *testing.T) {
	repo := &stubRepository{}
	svc := NewBibliographyService(repo)
	ctx := context.Background()

	assert.Error(t, svc.UpsertAuthor(ctx, domain.Author{ID: 1, ORCID: "  "}), "blank orcid")
	assert.Error(t, svc.UpsertAuthor(ctx, domain.Author{ID: -1, ORCID: "A"}), "negative id")
	assert.Error(t, svc.UpsertArticle(ctx, domain.Article{DOI: "doi:"}), "empty doi")
	assert.Error(t, svc.LinkAuthorship(ctx, domain.Authorship{AuthorORCID: "A"}), "link without doi")

	assert.Empty(t, repo.authors)
	assert.Empty(t, repo.articles)
	assert.Empty(t, repo.links)
}

func TestBibliographyService_LinkNormalizesDOI(t *testing.T) {
	repo := &stubRepository{}
	svc := NewBibliographyService(repo)

	link := domain.Authorship{AuthorORCID: "0000-0001", ArticleDOI: "https://doi.org/10.1000/ABC"}
	require.NoError(t, svc.LinkAuthorship(context.Background(), link))
	require.Len(t, repo.links, 1)
	assert.Equal(t, "10.1000/abc", repo.links[0].ArticleDOI)
}

func TestBibliographyService_PrepareAndCounts(t *testing.T) {
	repo := &stubRepository{counts: repository.Counts{Authors: 3, Articles: 2, Authorships: 4}}
	svc := NewBibliographyService(repo)

	require.NoError(t, svc.Prepare(context.Background()))
	assert.Equal(t, 1, repo.constraints)

	counts, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repo.counts, counts)
}

func TestBulkIngestor_IngestBatch(t *testing.T) {
	repo := &stubRepository{}
	ingestor := NewBulkIngestor(NewBibliographyService(repo), 3)

	batch := domain.RecordBatch{
		Authors: []domain.Author{{ID: 0, ORCID: "A"}, {ID: 1, ORCID: "B"}, {ID: 2, ORCID: "C"}},
		Articles: []domain.Article{
			{DOI: "10.1/x"}, {DOI: "10.1/y"},
		},
		Authorships: []domain.Authorship{
			{AuthorORCID: "A", ArticleDOI: "10.1/x"},
			{AuthorORCID: "B", ArticleDOI: "10.1/x"},
			{AuthorORCID: "B", ArticleDOI: "10.1/y"},
			{AuthorORCID: "C", ArticleDOI: "10.1/y"},
		},
	}

	require.NoError(t, ingestor.IngestBatch(context.Background(), batch))
	assert.Len(t, repo.authors, 3)
	assert.Len(t, repo.articles, 2)
	assert.Len(t, repo.links, 4)
}

func TestBulkIngestor_AggregatesErrors(t *testing.T) {
	boom := errors.New("author not found")
	repo := &stubRepository{linkErr: boom}
	ingestor := NewBulkIngestor(NewBibliographyService(repo), 2)

	links := []domain.Authorship{
		{AuthorORCID: "A", ArticleDOI: "x"},
		{AuthorORCID: "B", ArticleDOI: "y"},
	}
	err := ingestor.IngestAuthorships(context.Background(), links)

	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 2)
	assert.ErrorIs(t, err, boom)
}

func TestBulkIngestor_StopsOnCancel(t *testing.T) {
	repo := &stubRepository{}
	ingestor := NewBulkIngestor(NewBibliographyService(repo), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ingestor.IngestAuthors(ctx, []domain.Author{{ORCID: "A"}, {ORCID: "B"}})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNormalizers(t *testing.T) {
	cases := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{normalizeDOI, "DOI:10.1000/XYZ", "10.1000/xyz"},
		{normalizeDOI, "https://dx.doi.org/10.5/A", "10.5/a"},
		{normalizeDOI, " 10.5/b ", "10.5/b"},
		{normalizeORCID, "HTTPS://ORCID.ORG/0000-0001-2345-678x", "0000-0001-2345-678X"},
		{normalizeORCID, "0000-0001", "0000-0001"},
		{sanitizeString, "  a \n b  ", "a b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.fn(tc.in), "normalize(%q)", tc.in)
	}
}
