package service

import (
	"github.com/vanshika/erdos/backend/internal/coauthor"
	"github.com/vanshika/erdos/backend/internal/domain"
)

// Options configures an ErdosService.
type Options struct {
	Mode           coauthor.Mode
	StrictArticles bool
	// Workers bounds the goroutines used by DistanceBatch.
	Workers int
}

// DistanceQuery names one source/target pair of a batch.
type DistanceQuery struct {
	Source int64
	Target int64
}

// DistanceAnswer is the outcome of one DistanceQuery. Err is set when the
// query itself was invalid.
type DistanceAnswer struct {
	Query  DistanceQuery
	Result coauthor.Result
	Err    error
}

// AuthorDistances is the one-to-all answer for a source author.
type AuthorDistances struct {
	Source    domain.Author
	Mode      string
	Reachable []domain.AuthorDistance
}
