package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vanshika/erdos/backend/internal/coauthor"
	"github.com/vanshika/erdos/backend/internal/domain"
)

var (
	// ErrAuthorNotFound is returned when an ORCID or author reference matches no author.
	ErrAuthorNotFound = errors.New("author not found")
	// ErrArticleNotFound is returned when a DOI matches no article.
	ErrArticleNotFound = errors.New("article not found")
)

// ErdosService answers coauthor distance queries over a graph built once from
// a record batch. It is immutable after construction and safe for concurrent use.
type ErdosService struct {
	graph    *coauthor.Graph
	solver   coauthor.Solver
	workers  int
	authors  map[int64]domain.Author
	byORCID  map[string]int64
	articles map[string]domain.FatArticle
	stats    domain.GraphStats
}

// NewErdosService builds the coauthor graph and the lookup indexes for batch.
func NewErdosService(batch domain.RecordBatch, opts Options) (*ErdosService, error) {
	g, err := coauthor.Build(batch, coauthor.Options{StrictArticles: opts.StrictArticles})
	if err != nil {
		return nil, fmt.Errorf("build coauthor graph: %w", err)
	}
	fat, err := coauthor.AttachAuthors(batch)
	if err != nil {
		return nil, fmt.Errorf("attach authors: %w", err)
	}

	svc := &ErdosService{
		graph:    g,
		solver:   coauthor.NewSolver(opts.Mode),
		workers:  opts.Workers,
		authors:  make(map[int64]domain.Author, len(batch.Authors)),
		byORCID:  make(map[string]int64, len(batch.Authors)),
		articles: make(map[string]domain.FatArticle, len(fat)),
	}
	for _, author := range batch.Authors {
		key := normalizeORCID(author.ORCID)
		if other, dup := svc.byORCID[key]; dup {
			return nil, fmt.Errorf("%w: orcids of authors %d and %d both resolve to %s",
				coauthor.ErrDuplicateAuthor, other, author.ID, key)
		}
		svc.authors[author.ID] = author
		svc.byORCID[key] = author.ID
	}
	for _, article := range fat {
		key := normalizeDOI(article.DOI)
		if other, dup := svc.articles[key]; dup {
			return nil, fmt.Errorf("%w: dois %q and %q both resolve to %s",
				coauthor.ErrDuplicateArticle, other.DOI, article.DOI, key)
		}
		svc.articles[key] = article
	}
	svc.stats = computeStats(g, batch, opts.Mode)
	return svc, nil
}

func computeStats(g *coauthor.Graph, batch domain.RecordBatch, mode coauthor.Mode) domain.GraphStats {
	stats := domain.GraphStats{
		Authors:      g.NumNodes(),
		Articles:     len(batch.Articles),
		Authorships:  len(batch.Authorships),
		Edges:        g.NumEdges(),
		DistanceMode: mode.String(),
	}
	for _, id := range g.IDs() {
		degree := g.Degree(id)
		if degree == 0 {
			stats.Isolated++
		}
		stats.MaxDegree = max(stats.MaxDegree, degree)
	}
	return stats
}

// Mode reports how the service costs coauthor links.
func (s *ErdosService) Mode() coauthor.Mode {
	return s.solver.Mode()
}

// Stats summarises the loaded graph.
func (s *ErdosService) Stats() domain.GraphStats {
	return s.stats
}

// Distance returns the coauthor distance between two author ids.
func (s *ErdosService) Distance(ctx context.Context, sourceID, targetID int64) (coauthor.Result, error) {
	if err := ctx.Err(); err != nil {
		return coauthor.Unreachable, err
	}
	return s.solver.Distance(s.graph, sourceID, targetID)
}

// Path returns one shortest coauthor chain between two author ids.
func (s *ErdosService) Path(ctx context.Context, sourceID, targetID int64) (domain.ErdosPath, error) {
	if err := ctx.Err(); err != nil {
		return domain.ErdosPath{}, err
	}
	source, err := s.AuthorByID(sourceID)
	if err != nil {
		return domain.ErdosPath{}, err
	}
	target, err := s.AuthorByID(targetID)
	if err != nil {
		return domain.ErdosPath{}, err
	}

	tree, err := s.solver.ShortestPaths(s.graph, sourceID)
	if err != nil {
		return domain.ErdosPath{}, err
	}
	result, err := tree.DistanceTo(targetID)
	if err != nil {
		return domain.ErdosPath{}, err
	}

	path := domain.ErdosPath{
		Source:    source,
		Target:    target,
		Distance:  result.Distance,
		Reachable: result.Reachable,
		Mode:      s.Mode().String(),
	}
	if !result.Reachable {
		return path, nil
	}

	ids, err := tree.PathTo(targetID)
	if err != nil {
		return domain.ErdosPath{}, err
	}
	path.Authors = make([]domain.Author, 0, len(ids))
	for _, id := range ids {
		path.Authors = append(path.Authors, s.authors[id])
	}
	return path, nil
}

// DistancesFrom lists every author reachable from sourceID, nearest first.
func (s *ErdosService) DistancesFrom(ctx context.Context, sourceID int64) (AuthorDistances, error) {
	if err := ctx.Err(); err != nil {
		return AuthorDistances{}, err
	}
	source, err := s.AuthorByID(sourceID)
	if err != nil {
		return AuthorDistances{}, err
	}
	tree, err := s.solver.ShortestPaths(s.graph, sourceID)
	if err != nil {
		return AuthorDistances{}, err
	}

	reached := tree.Reached()
	out := AuthorDistances{
		Source:    source,
		Mode:      s.Mode().String(),
		Reachable: make([]domain.AuthorDistance, 0, len(reached)),
	}
	for _, r := range reached {
		out.Reachable = append(out.Reachable, domain.AuthorDistance{
			Author:   s.authors[r.ID],
			Distance: r.Distance,
		})
	}
	return out, nil
}

// DistanceBatch answers queries concurrently. Answers keep the input order;
// invalid queries carry their error in the answer and are also aggregated in
// the returned TaskError.
func (s *ErdosService) DistanceBatch(ctx context.Context, queries []DistanceQuery) ([]DistanceAnswer, error) {
	answers := make([]DistanceAnswer, len(queries))
	err := runPool(ctx, s.workers, len(queries), func(idx int) error {
		q := queries[idx]
		res, err := s.solver.Distance(s.graph, q.Source, q.Target)
		answers[idx] = DistanceAnswer{Query: q, Result: res, Err: err}
		if err != nil {
			return fmt.Errorf("query %d (%d -> %d): %w", idx, q.Source, q.Target, err)
		}
		return nil
	})
	return answers, err
}

// Coauthors lists the direct coauthors of id with the number of articles
// they share, most frequent first.
func (s *ErdosService) Coauthors(id int64) ([]domain.Coauthor, error) {
	if _, err := s.AuthorByID(id); err != nil {
		return nil, err
	}
	edges, err := s.graph.Neighbors(id)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Coauthor, 0, len(edges))
	for _, edge := range edges {
		out = append(out, domain.Coauthor{Author: s.authors[edge.To], SharedArticles: int(edge.Weight)})
	}
	slices.SortStableFunc(out, func(a, b domain.Coauthor) int {
		if a.SharedArticles != b.SharedArticles {
			return b.SharedArticles - a.SharedArticles
		}
		return cmp.Compare(a.Author.ID, b.Author.ID)
	})
	return out, nil
}

// Author looks an author up by ORCID.
func (s *ErdosService) Author(orcid string) (domain.Author, error) {
	id, ok := s.byORCID[normalizeORCID(orcid)]
	if !ok {
		return domain.Author{}, fmt.Errorf("%w: orcid %q", ErrAuthorNotFound, orcid)
	}
	return s.authors[id], nil
}

// AuthorByID looks an author up by id.
func (s *ErdosService) AuthorByID(id int64) (domain.Author, error) {
	author, ok := s.authors[id]
	if !ok {
		return domain.Author{}, fmt.Errorf("%w: id %d", ErrAuthorNotFound, id)
	}
	return author, nil
}

// ResolveAuthor accepts either a numeric author id or an ORCID.
func (s *ErdosService) ResolveAuthor(ref string) (domain.Author, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return domain.Author{}, fmt.Errorf("%w: empty reference", ErrAuthorNotFound)
	}
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.AuthorByID(id)
	}
	return s.Author(ref)
}

// Article returns an article with its resolved authors.
func (s *ErdosService) Article(doi string) (domain.FatArticle, error) {
	article, ok := s.articles[normalizeDOI(doi)]
	if !ok {
		return domain.FatArticle{}, fmt.Errorf("%w: doi %q", ErrArticleNotFound, doi)
	}
	return article, nil
}
