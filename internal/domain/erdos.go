package domain

// ErdosPath is a coauthorship chain between two authors.
type ErdosPath struct {
	Source    Author
	Target    Author
	Distance  int64
	Reachable bool
	Mode      string
	Authors   []Author
}

// AuthorDistance pairs an author with their distance from a query source.
type AuthorDistance struct {
	Author   Author
	Distance int64
}

// Coauthor is a direct neighbour of an author in the coauthor graph.
type Coauthor struct {
	Author         Author
	SharedArticles int
}

// GraphStats summarises a built coauthor graph.
type GraphStats struct {
	Authors      int
	Articles     int
	Authorships  int
	Edges        int
	Isolated     int
	MaxDegree    int
	DistanceMode string
}
