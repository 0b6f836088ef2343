package source

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vanshika/erdos/backend/internal/domain"
)

// EncodeBatch writes the batch as three NDJSON streams in the layout
// NDJSONSource reads back.
func EncodeBatch(batch domain.RecordBatch, authors, articles, authorships io.Writer) error {
	authorRecords := make([]authorRecord, len(batch.Authors))
	for i, a := range batch.Authors {
		authorRecords[i] = authorRecord{ID: a.ID, ORCID: a.ORCID, LastName: a.LastName, GivenNames: a.GivenNames}
	}
	if err := encodeNDJSON(authors, authorRecords); err != nil {
		return fmt.Errorf("encode authors: %w", err)
	}

	articleRecords := make([]articleRecord, len(batch.Articles))
	for i, a := range batch.Articles {
		articleRecords[i] = articleRecord{DOI: a.DOI, Title: a.Title, PublicationDate: a.PublicationDate}
	}
	if err := encodeNDJSON(articles, articleRecords); err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}

	linkRecords := make([]authorshipRecord, len(batch.Authorships))
	for i, l := range batch.Authorships {
		linkRecords[i] = authorshipRecord{AuthorORCID: l.AuthorORCID, ArticleDOI: l.ArticleDOI}
	}
	if err := encodeNDJSON(authorships, linkRecords); err != nil {
		return fmt.Errorf("encode authorships: %w", err)
	}
	return nil
}

func encodeNDJSON[T any](w io.Writer, records []T) error {
	encoder := json.NewEncoder(w)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return err
		}
	}
	return nil
}
