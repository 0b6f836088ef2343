// Package source loads the three bibliography collections (authors, articles
// and authorship links) from NDJSON files, Postgres or Neo4j and hands them to
// the graph builder as one validated domain.RecordBatch.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator"
	"golang.org/x/sync/errgroup"

	"github.com/vanshika/erdos/backend/internal/domain"
)

// Source produces a decoded and validated record batch.
type Source interface {
	Load(ctx context.Context) (domain.RecordBatch, error)
}

// ErrInvalidRecord reports a record that violates the field contract.
var ErrInvalidRecord = errors.New("invalid record")

type authorRecord struct {
	ID         int64  `json:"id" validate:"min=0"`
	ORCID      string `json:"orcid" validate:"required"`
	LastName   string `json:"last_name"`
	GivenNames string `json:"given_names"`
}

type articleRecord struct {
	DOI             string `json:"doi" validate:"required"`
	Title           string `json:"title"`
	PublicationDate int    `json:"publication_date" validate:"min=0"`
}

type authorshipRecord struct {
	AuthorORCID string `json:"author_orcid" validate:"required"`
	ArticleDOI  string `json:"article_doi" validate:"required"`
}

var validate = validator.New()

// check validates every record in place, naming the collection and position of
// the first failure.
func check[T any](collection string, records []T) error {
	for i := range records {
		if err := validate.Struct(records[i]); err != nil {
			return fmt.Errorf("%w: %s #%d: %v", ErrInvalidRecord, collection, i+1, err)
		}
	}
	return nil
}

// collections holds the raw records of one load before conversion.
type collections struct {
	authors     []authorRecord
	articles    []articleRecord
	authorships []authorshipRecord
}

func (c collections) batch() (domain.RecordBatch, error) {
	if err := check("authors", c.authors); err != nil {
		return domain.RecordBatch{}, err
	}
	if err := check("articles", c.articles); err != nil {
		return domain.RecordBatch{}, err
	}
	if err := check("authorships", c.authorships); err != nil {
		return domain.RecordBatch{}, err
	}

	batch := domain.RecordBatch{
		Authors:     make([]domain.Author, len(c.authors)),
		Articles:    make([]domain.Article, len(c.articles)),
		Authorships: make([]domain.Authorship, len(c.authorships)),
	}
	for i, r := range c.authors {
		batch.Authors[i] = domain.Author{ID: r.ID, ORCID: r.ORCID, LastName: r.LastName, GivenNames: r.GivenNames}
	}
	for i, r := range c.articles {
		batch.Articles[i] = domain.Article{DOI: r.DOI, Title: r.Title, PublicationDate: r.PublicationDate}
	}
	for i, r := range c.authorships {
		batch.Authorships[i] = domain.Authorship{AuthorORCID: r.AuthorORCID, ArticleDOI: r.ArticleDOI}
	}
	return batch, nil
}

// loaders fetch each collection; loadConcurrently runs them side by side and
// fails as soon as one of them does.
type loaders struct {
	authors     func(ctx context.Context) ([]authorRecord, error)
	articles    func(ctx context.Context) ([]articleRecord, error)
	authorships func(ctx context.Context) ([]authorshipRecord, error)
}

func loadConcurrently(ctx context.Context, l loaders) (domain.RecordBatch, error) {
	var c collections
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		c.authors, err = l.authors(gctx)
		return err
	})
	g.Go(func() (err error) {
		c.articles, err = l.articles(gctx)
		return err
	})
	g.Go(func() (err error) {
		c.authorships, err = l.authorships(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.RecordBatch{}, err
	}
	return c.batch()
}
