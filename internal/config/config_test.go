package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/erdos/backend/internal/coauthor"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("ERDOS_DISTANCE_MODE", "")
	t.Setenv("SOURCE_KIND", "")
	t.Setenv("SOURCE_AUTHORS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.HTTP.Port)
	assert.Equal(t, defaultReadTimeout, cfg.HTTP.ReadTimeout)
	assert.Equal(t, defaultShutdownTimeout, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "ndjson", cfg.Source.Kind)
	assert.Equal(t, defaultAuthorsPath, cfg.Source.Authors)
	assert.Equal(t, coauthor.ModeHops, cfg.Erdos.Mode)
	assert.Equal(t, defaultQueryWorkers, cfg.Erdos.QueryWorkers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SERVER_WRITE_TIMEOUT", "3s")
	t.Setenv("LOG_COLOR", "true")
	t.Setenv("SOURCE_KIND", "postgres")
	t.Setenv("DATABASE_URL", "postgres://erdos@localhost/erdos")
	t.Setenv("AWS_ENDPOINT", "http://localhost:9000")
	t.Setenv("ERDOS_DISTANCE_MODE", "weighted")
	t.Setenv("ERDOS_STRICT_ARTICLES", "true")
	t.Setenv("ERDOS_QUERY_WORKERS", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.WriteTimeout)
	assert.True(t, cfg.Logging.Colored)
	assert.Equal(t, "postgres", cfg.Source.Kind)
	assert.Equal(t, "postgres://erdos@localhost/erdos", cfg.Source.DatabaseURL)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.Equal(t, coauthor.ModeWeighted, cfg.Erdos.Mode)
	assert.True(t, cfg.Erdos.StrictArticles)
	assert.Equal(t, 2, cfg.Erdos.QueryWorkers)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"SERVER_PORT":         "70000",
		"SERVER_IDLE_TIMEOUT": "soon",
		"ERDOS_DISTANCE_MODE": "fastest",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key[:4])
		})
	}
}
