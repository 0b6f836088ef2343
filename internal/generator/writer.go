package generator

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanshika/erdos/backend/internal/domain"
	"github.com/vanshika/erdos/backend/internal/source"
)

// Output file names written by WriteDataset.
const (
	AuthorsFile     = "authors.ndjson"
	ArticlesFile    = "articles.ndjson"
	AuthorshipsFile = "authorships.ndjson"
)

// WriteDataset serializes the batch into authors.ndjson, articles.ndjson and
// authorships.ndjson under the provided directory.
func WriteDataset(batch domain.RecordBatch, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := make([]*os.File, 0, 3)
	writers := make([]*bufio.Writer, 0, 3)
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
	}()
	for _, name := range []string{AuthorsFile, ArticlesFile, AuthorshipsFile} {
		path := filepath.Join(dir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		files = append(files, f)
		writers = append(writers, bufio.NewWriter(f))
	}

	if err := source.EncodeBatch(batch, writers[0], writers[1], writers[2]); err != nil {
		return err
	}
	for i, w := range writers {
		if err := w.Flush(); err != nil {
			return fmt.Errorf("flush %s: %w", files[i].Name(), err)
		}
		if err := files[i].Close(); err != nil {
			return fmt.Errorf("close %s: %w", files[i].Name(), err)
		}
	}
	files = files[:0]
	return nil
}
