package coauthor

import "errors"

var (
	// ErrUnknownAuthor is returned when an authorship link references an ORCID
	// that is not among the authors of the batch.
	ErrUnknownAuthor = errors.New("unknown author")

	// ErrUnknownArticle is returned by strict builds when an authorship link
	// references a DOI that is not among the articles of the batch.
	ErrUnknownArticle = errors.New("unknown article")

	// ErrDuplicateAuthor is returned when two authors share an id or an ORCID.
	ErrDuplicateAuthor = errors.New("duplicate author")

	// ErrDuplicateArticle is returned when two articles resolve to the same DOI.
	ErrDuplicateArticle = errors.New("duplicate article")

	// ErrInvalidNode is returned when a query names an id that is not a node of the graph.
	ErrInvalidNode = errors.New("invalid node")
)
