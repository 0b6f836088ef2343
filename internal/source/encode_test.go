package source

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/erdos/backend/internal/domain"
)

func TestEncodeBatchRoundTripsThroughDecoder(t *testing.T) {
	batch := domain.RecordBatch{
		Authors:     []domain.Author{{ID: 5, ORCID: "A", LastName: "Erdos", GivenNames: "Paul"}},
		Articles:    []domain.Article{{DOI: "10.1/x", Title: "X", PublicationDate: 1933}},
		Authorships: []domain.Authorship{{AuthorORCID: "A", ArticleDOI: "10.1/x"}},
	}

	var authors, articles, links bytes.Buffer
	require.NoError(t, EncodeBatch(batch, &authors, &articles, &links))

	assert.Equal(t, `{"id":5,"orcid":"A","last_name":"Erdos","given_names":"Paul"}`, strings.TrimSpace(authors.String()))
	assert.Equal(t, `{"author_orcid":"A","article_doi":"10.1/x"}`, strings.TrimSpace(links.String()))

	decoded, err := DecodeNDJSON[articleRecord](&articles)
	require.NoError(t, err)
	assert.Equal(t, []articleRecord{{DOI: "10.1/x", Title: "X", PublicationDate: 1933}}, decoded)
}
