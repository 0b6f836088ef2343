package source

import (
	"context"

	"github.com/vanshika/erdos/backend/internal/domain"
)

// Exporter reads the bibliography back out of the graph store.
type Exporter interface {
	ExportAuthors(ctx context.Context) ([]domain.Author, error)
	ExportArticles(ctx context.Context) ([]domain.Article, error)
	ExportAuthorships(ctx context.Context) ([]domain.Authorship, error)
}

// Neo4jSource reads (:Author), (:Article) and [:AUTHORED] through the
// repository. AUTHORED relationships are unique per pair, so repeated links
// ingested from other sources come back once.
type Neo4jSource struct {
	Repo Exporter
}

// Load implements Source.
func (s Neo4jSource) Load(ctx context.Context) (domain.RecordBatch, error) {
	return loadConcurrently(ctx, loaders{
		authors: func(ctx context.Context) ([]authorRecord, error) {
			authors, err := s.Repo.ExportAuthors(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]authorRecord, len(authors))
			for i, a := range authors {
				out[i] = authorRecord{ID: a.ID, ORCID: a.ORCID, LastName: a.LastName, GivenNames: a.GivenNames}
			}
			return out, nil
		},
		articles: func(ctx context.Context) ([]articleRecord, error) {
			articles, err := s.Repo.ExportArticles(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]articleRecord, len(articles))
			for i, a := range articles {
				out[i] = articleRecord{DOI: a.DOI, Title: a.Title, PublicationDate: a.PublicationDate}
			}
			return out, nil
		},
		authorships: func(ctx context.Context) ([]authorshipRecord, error) {
			links, err := s.Repo.ExportAuthorships(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]authorshipRecord, len(links))
			for i, l := range links {
				out[i] = authorshipRecord{AuthorORCID: l.AuthorORCID, ArticleDOI: l.ArticleDOI}
			}
			return out, nil
		},
	})
}
