package source

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/vanshika/erdos/backend/internal/domain"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the authors, articles and authorships tables.
type PostgresSource struct {
	DB Querier
}

const (
	selectAuthorsSQL     = `SELECT id, orcid, coalesce(last_name, ''), coalesce(given_names, '') FROM authors ORDER BY id`
	selectArticlesSQL    = `SELECT doi, coalesce(title, ''), coalesce(publication_date, 0) FROM articles ORDER BY doi`
	selectAuthorshipsSQL = `SELECT author_orcid, article_doi FROM authorships`
)

// Load implements Source.
func (s PostgresSource) Load(ctx context.Context) (domain.RecordBatch, error) {
	return loadConcurrently(ctx, loaders{
		authors: func(ctx context.Context) ([]authorRecord, error) {
			return queryRecords(ctx, s.DB, "authors", selectAuthorsSQL, func(rows pgx.Rows) (authorRecord, error) {
				var r authorRecord
				err := rows.Scan(&r.ID, &r.ORCID, &r.LastName, &r.GivenNames)
				return r, err
			})
		},
		articles: func(ctx context.Context) ([]articleRecord, error) {
			return queryRecords(ctx, s.DB, "articles", selectArticlesSQL, func(rows pgx.Rows) (articleRecord, error) {
				var r articleRecord
				err := rows.Scan(&r.DOI, &r.Title, &r.PublicationDate)
				return r, err
			})
		},
		authorships: func(ctx context.Context) ([]authorshipRecord, error) {
			return queryRecords(ctx, s.DB, "authorships", selectAuthorshipsSQL, func(rows pgx.Rows) (authorshipRecord, error) {
				var r authorshipRecord
				err := rows.Scan(&r.AuthorORCID, &r.ArticleDOI)
				return r, err
			})
		},
	})
}

func queryRecords[T any](ctx context.Context, db Querier, table, sql string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return out, nil
}
