package service

import (
	"context"
	"errors"
	"sync"

	"github.com/vanshika/erdos/backend/internal/domain"
)

const defaultWorkers = 4

// TaskError accumulates multiple errors produced by a worker pool run.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// runPool calls workerFn for every index in [0, total) on up to workers
// goroutines. Failures are collected into a TaskError; cancellation of ctx
// stops dispatch and is returned as is.
func runPool(ctx context.Context, workers, total int, workerFn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	workers = min(workers, total)

	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := workerFn(idx); err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < total; i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if err := ctx.Err(); err != nil {
		return err
	}

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}

// BulkIngestor pushes a record batch into the graph store using a worker pool.
type BulkIngestor struct {
	service *BibliographyService
	workers int
}

// NewBulkIngestor creates a new BulkIngestor instance with the provided concurrency.
func NewBulkIngestor(service *BibliographyService, workers int) *BulkIngestor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &BulkIngestor{
		service: service,
		workers: workers,
	}
}

// IngestAuthors upserts the provided authors concurrently.
func (bi *BulkIngestor) IngestAuthors(ctx context.Context, authors []domain.Author) error {
	return runPool(ctx, bi.workers, len(authors), func(idx int) error {
		return bi.service.UpsertAuthor(ctx, authors[idx])
	})
}

// IngestArticles upserts the provided articles concurrently.
func (bi *BulkIngestor) IngestArticles(ctx context.Context, articles []domain.Article) error {
	return runPool(ctx, bi.workers, len(articles), func(idx int) error {
		return bi.service.UpsertArticle(ctx, articles[idx])
	})
}

// IngestAuthorships links authors to articles concurrently.
func (bi *BulkIngestor) IngestAuthorships(ctx context.Context, links []domain.Authorship) error {
	return runPool(ctx, bi.workers, len(links), func(idx int) error {
		return bi.service.LinkAuthorship(ctx, links[idx])
	})
}

// IngestBatch writes authors and articles before any authorship link, since
// links only attach to existing authors.
func (bi *BulkIngestor) IngestBatch(ctx context.Context, batch domain.RecordBatch) error {
	if err := bi.IngestAuthors(ctx, batch.Authors); err != nil {
		return err
	}
	if err := bi.IngestArticles(ctx, batch.Articles); err != nil {
		return err
	}
	return bi.IngestAuthorships(ctx, batch.Authorships)
}
