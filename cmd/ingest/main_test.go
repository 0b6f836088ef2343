package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/erdos/backend/internal/generator"
)

func TestResolveDatasetPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{generator.AuthorsFile, generator.ArticlesFile, generator.AuthorshipsFile} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	paths, err := resolveDatasetPaths(dir, "", "", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, generator.ArticlesFile), paths[1])

	paths, err = resolveDatasetPaths(dir, "s3://bucket/authors.ndjson", "", "")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/authors.ndjson", paths[0])

	_, err = resolveDatasetPaths(t.TempDir(), "", "", "")
	require.ErrorIs(t, err, errMissingDataset)

	_, err = resolveDatasetPaths(dir, filepath.Join(dir, "nope.ndjson"), "", "")
	require.Error(t, err)
}
