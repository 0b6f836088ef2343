package domain

// RecordBatch is the decoded, validated input of a graph build. Sources produce
// it; the builder never needs to know which source or file format it came from.
type RecordBatch struct {
	Authors     []Author
	Articles    []Article
	Authorships []Authorship
}

// Empty reports whether the batch carries no records at all.
func (b RecordBatch) Empty() bool {
	return len(b.Authors) == 0 && len(b.Articles) == 0 && len(b.Authorships) == 0
}
