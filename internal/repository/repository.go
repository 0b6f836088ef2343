package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/erdos/backend/internal/domain"
	"github.com/vanshika/erdos/backend/internal/graph"
)

// Repository encapsulates graph persistence of the bibliography.
type Repository struct {
	client graph.Client
}

// New instantiates a Repository backed by the supplied graph client.
func New(client graph.Client) *Repository {
	return &Repository{client: client}
}

// Counts reports how many nodes and relationships of each kind are stored.
type Counts struct {
	Authors     int64
	Articles    int64
	Authorships int64
}

// EnsureConstraints creates the uniqueness constraints the upserts rely on.
func (r *Repository) EnsureConstraints(ctx context.Context) error {
	for _, stmt := range constraintStatements {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure constraints: %w", err)
		}
	}
	return nil
}

// UpsertAuthor ensures an author node exists with the latest metadata.
func (r *Repository) UpsertAuthor(ctx context.Context, author domain.Author) error {
	if author.ORCID == "" {
		return errors.New("author orcid is required")
	}

	params := map[string]any{
		"orcid": author.ORCID,
		"props": map[string]any{
			"authorId":   author.ID,
			"lastName":   author.LastName,
			"givenNames": author.GivenNames,
		},
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertAuthorCypher, params); err != nil {
		return fmt.Errorf("upsert author %s: %w", author.ORCID, err)
	}
	return nil
}

// UpsertArticle ensures an article node exists with the latest metadata.
func (r *Repository) UpsertArticle(ctx context.Context, article domain.Article) error {
	if article.DOI == "" {
		return errors.New("article doi is required")
	}

	params := map[string]any{
		"doi": article.DOI,
		"props": map[string]any{
			"title":           article.Title,
			"publicationDate": int64(article.PublicationDate),
		},
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertArticleCypher, params); err != nil {
		return fmt.Errorf("upsert article %s: %w", article.DOI, err)
	}
	return nil
}

// LinkAuthorship records that an author wrote an article. The author must
// already exist; a missing article is created as a bare DOI node. Repeated
// links for the same pair collapse into one relationship.
func (r *Repository) LinkAuthorship(ctx context.Context, link domain.Authorship) error {
	if link.AuthorORCID == "" || link.ArticleDOI == "" {
		return errors.New("both author orcid and article doi are required")
	}

	params := map[string]any{
		"orcid": link.AuthorORCID,
		"doi":   link.ArticleDOI,
	}

	res, err := r.client.ExecuteWrite(ctx, linkAuthorshipCypher, params)
	if err != nil {
		return fmt.Errorf("link %s to %s: %w", link.AuthorORCID, link.ArticleDOI, err)
	}
	if res.Records != nil && len(res.Records) == 0 {
		return fmt.Errorf("link %s to %s: author not found", link.AuthorORCID, link.ArticleDOI)
	}
	return nil
}

// ExportAuthors returns every stored author ordered by id.
func (r *Repository) ExportAuthors(ctx context.Context) ([]domain.Author, error) {
	res, err := r.client.ExecuteRead(ctx, exportAuthorsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("export authors: %w", err)
	}

	authors := make([]domain.Author, 0, len(res.Records))
	for _, record := range res.Records {
		authors = append(authors, domain.Author{
			ID:         record.Int64("authorId"),
			ORCID:      record.String("orcid"),
			LastName:   record.String("lastName"),
			GivenNames: record.String("givenNames"),
		})
	}
	return authors, nil
}

// ExportArticles returns every stored article ordered by DOI.
func (r *Repository) ExportArticles(ctx context.Context) ([]domain.Article, error) {
	res, err := r.client.ExecuteRead(ctx, exportArticlesCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("export articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(res.Records))
	for _, record := range res.Records {
		articles = append(articles, domain.Article{
			DOI:             record.String("doi"),
			Title:           record.String("title"),
			PublicationDate: int(record.Int64("publicationDate")),
		})
	}
	return articles, nil
}

// ExportAuthorships returns every AUTHORED relationship.
func (r *Repository) ExportAuthorships(ctx context.Context) ([]domain.Authorship, error) {
	res, err := r.client.ExecuteRead(ctx, exportAuthorshipsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("export authorships: %w", err)
	}

	links := make([]domain.Authorship, 0, len(res.Records))
	for _, record := range res.Records {
		links = append(links, domain.Authorship{
			AuthorORCID: record.String("orcid"),
			ArticleDOI:  record.String("doi"),
		})
	}
	return links, nil
}

// Counts returns the stored node and relationship totals.
func (r *Repository) Counts(ctx context.Context) (Counts, error) {
	res, err := r.client.ExecuteRead(ctx, countsCypher, nil)
	if err != nil {
		return Counts{}, fmt.Errorf("count bibliography: %w", err)
	}
	record, ok := res.First()
	if !ok {
		return Counts{}, nil
	}
	return Counts{
		Authors:     record.Int64("authors"),
		Articles:    record.Int64("articles"),
		Authorships: record.Int64("authorships"),
	}, nil
}

var constraintStatements = []string{
	`CREATE CONSTRAINT author_orcid IF NOT EXISTS FOR (a:Author) REQUIRE a.orcid IS UNIQUE`,
	`CREATE CONSTRAINT article_doi IF NOT EXISTS FOR (p:Article) REQUIRE p.doi IS UNIQUE`,
}

const upsertAuthorCypher = `
MERGE (a:Author {orcid: $orcid})
SET a += $props
RETURN a.orcid AS orcid
`

const upsertArticleCypher = `
MERGE (p:Article {doi: $doi})
SET p += $props
RETURN p.doi AS doi
`

const linkAuthorshipCypher = `
MATCH (a:Author {orcid: $orcid})
MERGE (p:Article {doi: $doi})
MERGE (a)-[:AUTHORED]->(p)
RETURN a.orcid AS orcid, p.doi AS doi
`

const exportAuthorsCypher = `
MATCH (a:Author)
RETURN a.authorId AS authorId,
       a.orcid AS orcid,
       a.lastName AS lastName,
       a.givenNames AS givenNames
ORDER BY a.authorId
`

const exportArticlesCypher = `
MATCH (p:Article)
RETURN p.doi AS doi,
       p.title AS title,
       p.publicationDate AS publicationDate
ORDER BY p.doi
`

const exportAuthorshipsCypher = `
MATCH (a:Author)-[:AUTHORED]->(p:Article)
RETURN a.orcid AS orcid, p.doi AS doi
ORDER BY p.doi, a.orcid
`

const countsCypher = `
OPTIONAL MATCH (a:Author)
WITH count(a) AS authors
OPTIONAL MATCH (p:Article)
WITH authors, count(p) AS articles
OPTIONAL MATCH (:Author)-[r:AUTHORED]->(:Article)
RETURN authors, articles, count(r) AS authorships
`
