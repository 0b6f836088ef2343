package coauthor

import (
	"fmt"

	"github.com/vanshika/erdos/backend/internal/domain"
)

// Options tunes Build.
type Options struct {
	// StrictArticles rejects authorship links whose DOI is not among the
	// batch's articles. When unset such links still group by DOI.
	StrictArticles bool
}

// Build turns a record batch into a coauthor graph.
//
// Every author becomes a node, so authors without articles are isolated. For
// each article with n linked authors, each of the n*(n-1) ordered pairs of
// distinct authors adds one unit of weight to its arc. Duplicate links repeat
// an author inside the group and therefore add weight again.
func Build(batch domain.RecordBatch, opts Options) (*Graph, error) {
	ids := make([]int64, len(batch.Authors))
	byORCID := make(map[string]int, len(batch.Authors))
	for i, author := range batch.Authors {
		if _, dup := byORCID[author.ORCID]; dup {
			return nil, fmt.Errorf("%w: orcid %s", ErrDuplicateAuthor, author.ORCID)
		}
		byORCID[author.ORCID] = i
		ids[i] = author.ID
	}

	acc, err := newAccumulator(ids)
	if err != nil {
		return nil, err
	}

	groups, err := groupByArticle(batch, byORCID, opts)
	if err != nil {
		return nil, err
	}

	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		for _, author := range members {
			for _, coauthor := range members {
				acc.add(author, coauthor, 1)
			}
		}
	}

	return acc.compress(), nil
}

// groupByArticle resolves every link to an author index and groups them by DOI.
func groupByArticle(batch domain.RecordBatch, byORCID map[string]int, opts Options) (map[string][]int, error) {
	var known map[string]struct{}
	if opts.StrictArticles {
		known = make(map[string]struct{}, len(batch.Articles))
		for _, article := range batch.Articles {
			known[article.DOI] = struct{}{}
		}
	}

	groups := make(map[string][]int)
	for i, link := range batch.Authorships {
		idx, ok := byORCID[link.AuthorORCID]
		if !ok {
			return nil, fmt.Errorf("%w: authorship %d references orcid %q", ErrUnknownAuthor, i, link.AuthorORCID)
		}
		if known != nil {
			if _, ok := known[link.ArticleDOI]; !ok {
				return nil, fmt.Errorf("%w: authorship %d references doi %q", ErrUnknownArticle, i, link.ArticleDOI)
			}
		}
		groups[link.ArticleDOI] = append(groups[link.ArticleDOI], idx)
	}
	return groups, nil
}

// AttachAuthors returns a copy of every article with its authors resolved in
// link order. Links to DOIs outside the article list are ignored.
func AttachAuthors(batch domain.RecordBatch) ([]domain.FatArticle, error) {
	byORCID := make(map[string]domain.Author, len(batch.Authors))
	for _, author := range batch.Authors {
		byORCID[author.ORCID] = author
	}

	linksByDOI := make(map[string][]domain.Authorship)
	for _, link := range batch.Authorships {
		linksByDOI[link.ArticleDOI] = append(linksByDOI[link.ArticleDOI], link)
	}

	fat := make([]domain.FatArticle, 0, len(batch.Articles))
	for _, article := range batch.Articles {
		links := linksByDOI[article.DOI]
		item := domain.FatArticle{
			Article: article,
			Authors: make([]domain.Author, 0, len(links)),
		}
		for _, link := range links {
			author, ok := byORCID[link.AuthorORCID]
			if !ok {
				return nil, fmt.Errorf("%w: article %s references orcid %q", ErrUnknownAuthor, article.DOI, link.AuthorORCID)
			}
			item.Authors = append(item.Authors, author)
		}
		fat = append(fat, item)
	}
	return fat, nil
}
