package domain

// Article is a publication keyed by DOI. Only the DOI takes part in graph construction.
type Article struct {
	DOI             string
	Title           string
	PublicationDate int
}

// Authorship links one author to one article.
type Authorship struct {
	AuthorORCID string
	ArticleDOI  string
}

// FatArticle is an article with its authors resolved, in authorship order.
type FatArticle struct {
	Article
	Authors []Author
}
