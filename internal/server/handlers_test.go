package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/erdos/backend/internal/domain"
	"github.com/vanshika/erdos/backend/internal/service"
)

func testBatch() domain.RecordBatch {
	return domain.RecordBatch{
		Authors: []domain.Author{
			{ID: 0, ORCID: "0000-000A", LastName: "Erdos", GivenNames: "Paul"},
			{ID: 1, ORCID: "0000-000B", LastName: "Renyi", GivenNames: "Alfred"},
			{ID: 2, ORCID: "0000-000C", LastName: "Turan", GivenNames: "Pal"},
			{ID: 3, ORCID: "0000-000D", LastName: "Loner"},
		},
		Articles: []domain.Article{
			{DOI: "10.1/x", Title: "X", PublicationDate: 1959},
			{DOI: "10.1/y", Title: "Y", PublicationDate: 1961},
		},
		Authorships: []domain.Authorship{
			{AuthorORCID: "0000-000A", ArticleDOI: "10.1/x"},
			{AuthorORCID: "0000-000B", ArticleDOI: "10.1/x"},
			{AuthorORCID: "0000-000B", ArticleDOI: "10.1/y"},
			{AuthorORCID: "0000-000C", ArticleDOI: "10.1/y"},
		},
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, health HealthService) http.Handler {
	t.Helper()
	svc, err := service.NewErdosService(testBatch(), service.Options{Workers: 2})
	require.NoError(t, err)
	logger := discardLogger()
	return NewRouter(logger, RouterDependencies{
		Health:         health,
		API:            NewAPIHandlers(logger, svc),
		AllowedOrigins: []string{"http://localhost:3000"},
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var payload T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return payload
}

func TestHandleDistance(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/erdos?source=0&target=0000-000C", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decode[distanceResponse](t, rec)
	require.NotNil(t, payload.Distance)
	assert.Equal(t, int64(2), *payload.Distance)
	assert.True(t, payload.Reachable)
	assert.Equal(t, "Pal Turan", payload.Target.DisplayName)
	assert.Equal(t, "hops", payload.Mode)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
}

func TestHandleDistanceUnreachable(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/erdos?source=0&target=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"distance":null`)
	assert.False(t, decode[distanceResponse](t, rec).Reachable)
}

func TestHandleDistanceErrors(t *testing.T) {
	router := newTestRouter(t, nil)

	cases := []struct {
		method, target string
		status         int
	}{
		{http.MethodGet, "/erdos?source=0", http.StatusBadRequest},
		{http.MethodGet, "/erdos?source=0&target=77", http.StatusNotFound},
		{http.MethodGet, "/erdos?source=nobody&target=1", http.StatusNotFound},
		{http.MethodPost, "/erdos?source=0&target=1", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rec := do(t, router, tc.method, tc.target, "")
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.target)
	}
}

func TestHandlePath(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/erdos/path?source=0000-000A&target=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode[pathResponse](t, rec)
	require.Len(t, payload.Authors, 3)
	assert.Equal(t, "0000-000B", payload.Authors[1].ORCID)

	rec = do(t, router, http.MethodGet, "/erdos/path?source=0&target=3", "")
	payload = decode[pathResponse](t, rec)
	assert.False(t, payload.Reachable)
	assert.Nil(t, payload.Distance)
	assert.Empty(t, payload.Authors)
}

func TestHandleDistancesFrom(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/erdos/from/0?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	payload := decode[distancesFromResponse](t, rec)
	assert.Equal(t, 3, payload.Total)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, int64(1), payload.Items[1].Author.ID)
	assert.Equal(t, int64(1), payload.Items[1].Distance)

	rec = do(t, router, http.MethodGet, "/erdos/from/", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleBatch(t *testing.T) {
	router := newTestRouter(t, nil)

	body := `{"pairs":[{"source":0,"target":1},{"source":0,"target":3},{"source":0,"target":42}]}`
	rec := do(t, router, http.MethodPost, "/erdos/batch", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	payload := decode[batchResponse](t, rec)
	require.Len(t, payload.Results, 3)
	require.NotNil(t, payload.Results[0].Distance)
	assert.Equal(t, int64(1), *payload.Results[0].Distance)
	assert.False(t, payload.Results[1].Reachable)
	assert.NotEmpty(t, payload.Results[2].Error)

	for _, bad := range []string{`{"pairs":[]}`, `{"pairs":[{"src":1}]}`, `not json`} {
		rec := do(t, router, http.MethodPost, "/erdos/batch", bad)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", bad)
	}
}

func TestHandleAuthorAndArticle(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/authors/0000-000b", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renyi", decode[authorResponse](t, rec).LastName)

	rec = do(t, router, http.MethodGet, "/articles/10.1/y", "")
	require.Equal(t, http.StatusOK, rec.Code)
	article := decode[articleResponse](t, rec)
	assert.Equal(t, 1961, article.PublicationDate)
	assert.Len(t, article.Authors, 2)

	rec = do(t, router, http.MethodGet, "/articles/10.1/z", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleAuthorCoauthors(t *testing.T) {
	router := newTestRouter(t, nil)

	rec := do(t, router, http.MethodGet, "/authors/1/coauthors", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	payload := decode[coauthorsResponse](t, rec)
	assert.Equal(t, "Renyi", payload.Author.LastName)
	require.Len(t, payload.Items, 2)
	assert.Equal(t, int64(0), payload.Items[0].Author.ID)
	assert.Equal(t, 1, payload.Items[0].SharedArticles)
	assert.Equal(t, int64(2), payload.Items[1].Author.ID)

	rec = do(t, router, http.MethodGet, "/authors/0000-000D/coauthors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[coauthorsResponse](t, rec).Items)

	rec = do(t, router, http.MethodGet, "/authors/99/coauthors", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleStats(t *testing.T) {
	router := newTestRouter(t, nil)

	payload := decode[statsResponse](t, do(t, router, http.MethodGet, "/stats", ""))
	assert.Equal(t, 4, payload.Authors)
	assert.Equal(t, 4, payload.Edges)
	assert.Equal(t, 1, payload.Isolated)
}

type stubHealth struct{ err error }

func (s stubHealth) Probe(context.Context) error { return s.err }

func TestHealthz(t *testing.T) {
	rec := do(t, newTestRouter(t, stubHealth{}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, newTestRouter(t, stubHealth{err: errors.New("bolt down")}), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", rec.Header().Get(requestIDHeader))
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/erdos", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodOptions, "/erdos", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
