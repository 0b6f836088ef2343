package service

import (
	"context"
	"fmt"

	"github.com/vanshika/erdos/backend/internal/domain"
	"github.com/vanshika/erdos/backend/internal/repository"
)

// BibliographyRepository is the storage contract required by the bibliography service.
type BibliographyRepository interface {
	EnsureConstraints(ctx context.Context) error
	UpsertAuthor(ctx context.Context, author domain.Author) error
	UpsertArticle(ctx context.Context, article domain.Article) error
	LinkAuthorship(ctx context.Context, link domain.Authorship) error
	Counts(ctx context.Context) (repository.Counts, error)
}

// BibliographyService normalizes bibliography records and persists them.
type BibliographyService struct {
	repo BibliographyRepository
}

// NewBibliographyService constructs a BibliographyService.
func NewBibliographyService(repo BibliographyRepository) *BibliographyService {
	return &BibliographyService{repo: repo}
}

// Prepare makes sure the store enforces unique ORCIDs and DOIs.
func (s *BibliographyService) Prepare(ctx context.Context) error {
	return s.repo.EnsureConstraints(ctx)
}

// UpsertAuthor normalizes and stores an author.
func (s *BibliographyService) UpsertAuthor(ctx context.Context, author domain.Author) error {
	author.ORCID = normalizeORCID(author.ORCID)
	if author.ORCID == "" {
		return fmt.Errorf("author %d: orcid is required", author.ID)
	}
	if author.ID < 0 {
		return fmt.Errorf("author %s: id must not be negative", author.ORCID)
	}
	author.LastName = sanitizeString(author.LastName)
	author.GivenNames = sanitizeString(author.GivenNames)
	return s.repo.UpsertAuthor(ctx, author)
}

// UpsertArticle normalizes and stores an article.
func (s *BibliographyService) UpsertArticle(ctx context.Context, article domain.Article) error {
	article.DOI = normalizeDOI(article.DOI)
	if article.DOI == "" {
		return fmt.Errorf("article doi is required")
	}
	article.Title = sanitizeString(article.Title)
	return s.repo.UpsertArticle(ctx, article)
}

// LinkAuthorship normalizes and stores an authorship link.
func (s *BibliographyService) LinkAuthorship(ctx context.Context, link domain.Authorship) error {
	link.AuthorORCID = normalizeORCID(link.AuthorORCID)
	link.ArticleDOI = normalizeDOI(link.ArticleDOI)
	if link.AuthorORCID == "" || link.ArticleDOI == "" {
		return fmt.Errorf("authorship requires both orcid and doi")
	}
	return s.repo.LinkAuthorship(ctx, link)
}

// Counts returns the stored totals.
func (s *BibliographyService) Counts(ctx context.Context) (repository.Counts, error) {
	return s.repo.Counts(ctx)
}
