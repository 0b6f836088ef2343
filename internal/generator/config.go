package generator

// Config drives the synthetic bibliography generator.
type Config struct {
	NumAuthors           int
	NumArticles          int
	MaxAuthorsPerArticle int
	// HubAuthors is the number of prolific authors that HubChance draws from,
	// which keeps most of the graph in one component.
	HubAuthors          int
	HubChance           float64
	DuplicateLinkChance float64
	FirstYear           int
	LastYear            int
	Seed                int64
}

// DefaultConfig returns baseline settings for a mid-sized bibliography.
func DefaultConfig() Config {
	return Config{
		NumAuthors:           2000,
		NumArticles:          5000,
		MaxAuthorsPerArticle: 5,
		HubAuthors:           25,
		HubChance:            0.4,
		DuplicateLinkChance:  0.01,
		FirstYear:            1930,
		LastYear:             2025,
		Seed:                 42,
	}
}
