package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vanshika/erdos/backend/internal/domain"
)

const maxLineSize = 4 << 20

// NDJSONSource reads one JSON object per line from three locations. Locations
// are resolved by Opener; blank lines are skipped.
type NDJSONSource struct {
	Authors     string
	Articles    string
	Authorships string
	Opener      Opener
}

// Load implements Source.
func (s NDJSONSource) Load(ctx context.Context) (domain.RecordBatch, error) {
	opener := s.Opener
	if opener == nil {
		opener = FileOpener{}
	}
	return loadConcurrently(ctx, loaders{
		authors: func(ctx context.Context) ([]authorRecord, error) {
			return readLocation[authorRecord](ctx, opener, s.Authors)
		},
		articles: func(ctx context.Context) ([]articleRecord, error) {
			return readLocation[articleRecord](ctx, opener, s.Articles)
		},
		authorships: func(ctx context.Context) ([]authorshipRecord, error) {
			return readLocation[authorshipRecord](ctx, opener, s.Authorships)
		},
	})
}

func readLocation[T any](ctx context.Context, opener Opener, location string) ([]T, error) {
	if location == "" {
		return nil, fmt.Errorf("ndjson location is required")
	}
	rc, err := opener.Open(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", location, err)
	}
	defer rc.Close()

	records, err := DecodeNDJSON[T](rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return records, nil
}

// DecodeNDJSON decodes newline-delimited JSON objects into T.
func DecodeNDJSON[T any](r io.Reader) ([]T, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var out []T
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidRecord, line, err)
		}
		out = append(out, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", line+1, err)
	}
	return out, nil
}
