package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/vanshika/erdos/backend/internal/coauthor"
	"github.com/vanshika/erdos/backend/internal/domain"
	"github.com/vanshika/erdos/backend/internal/service"
)

const maxBatchPairs = 1000

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.ErdosService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.ErdosService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleDistance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	source, target, ok := h.resolvePair(w, r)
	if !ok {
		return
	}

	result, err := h.service.Distance(r.Context(), source.ID, target.ID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to compute distance")
		return
	}

	respondJSON(w, http.StatusOK, distanceResponse{
		Source:    toAuthorResponse(source),
		Target:    toAuthorResponse(target),
		Distance:  distancePtr(result),
		Reachable: result.Reachable,
		Mode:      h.service.Mode().String(),
	})
}

func (h *APIHandlers) handlePath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	source, target, ok := h.resolvePair(w, r)
	if !ok {
		return
	}

	path, err := h.service.Path(r.Context(), source.ID, target.ID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to compute path")
		return
	}

	resp := pathResponse{
		Source:    toAuthorResponse(path.Source),
		Target:    toAuthorResponse(path.Target),
		Reachable: path.Reachable,
		Mode:      path.Mode,
		Authors:   []authorResponse{},
	}
	if path.Reachable {
		distance := path.Distance
		resp.Distance = &distance
	}
	for _, author := range path.Authors {
		resp.Authors = append(resp.Authors, toAuthorResponse(author))
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleDistancesFrom(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ref := strings.Trim(strings.TrimPrefix(r.URL.Path, "/erdos/from/"), "/")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "author reference is required")
		return
	}
	source, err := h.service.ResolveAuthor(ref)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to resolve author")
		return
	}

	distances, err := h.service.DistancesFrom(r.Context(), source.ID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to compute distances")
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), 0)
	reached := distances.Reachable
	if limit > 0 && limit < len(reached) {
		reached = reached[:limit]
	}

	resp := distancesFromResponse{
		Source: toAuthorResponse(distances.Source),
		Mode:   distances.Mode,
		Total:  len(distances.Reachable),
		Items:  make([]authorDistanceResponse, 0, len(reached)),
	}
	for _, item := range reached {
		resp.Items = append(resp.Items, authorDistanceResponse{
			Author:   toAuthorResponse(item.Author),
			Distance: item.Distance,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(req.Pairs) == 0 {
		writeError(w, http.StatusBadRequest, "pairs are required")
		return
	}
	if len(req.Pairs) > maxBatchPairs {
		writeError(w, http.StatusBadRequest, "too many pairs, maximum is "+strconv.Itoa(maxBatchPairs))
		return
	}

	queries := make([]service.DistanceQuery, len(req.Pairs))
	for i, pair := range req.Pairs {
		queries[i] = service.DistanceQuery{Source: pair.Source, Target: pair.Target}
	}

	answers, err := h.service.DistanceBatch(r.Context(), queries)
	var taskErr *service.TaskError
	if err != nil && !errors.As(err, &taskErr) {
		h.writeServiceError(w, r, err, "failed to compute distances")
		return
	}

	resp := batchResponse{
		Mode:    h.service.Mode().String(),
		Results: make([]batchResult, 0, len(answers)),
	}
	for _, answer := range answers {
		item := batchResult{
			Source:    answer.Query.Source,
			Target:    answer.Query.Target,
			Distance:  distancePtr(answer.Result),
			Reachable: answer.Result.Reachable,
		}
		if answer.Err != nil {
			item.Error = answer.Err.Error()
		}
		resp.Results = append(resp.Results, item)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleAuthor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	ref := strings.Trim(strings.TrimPrefix(r.URL.Path, "/authors/"), "/")
	ref, listCoauthors := strings.CutSuffix(ref, "/coauthors")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "author reference is required")
		return
	}
	author, err := h.service.ResolveAuthor(ref)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch author")
		return
	}
	if !listCoauthors {
		respondJSON(w, http.StatusOK, toAuthorResponse(author))
		return
	}

	coauthors, err := h.service.Coauthors(author.ID)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch coauthors")
		return
	}
	resp := coauthorsResponse{
		Author: toAuthorResponse(author),
		Items:  make([]coauthorResponse, 0, len(coauthors)),
	}
	for _, c := range coauthors {
		resp.Items = append(resp.Items, coauthorResponse{
			Author:         toAuthorResponse(c.Author),
			SharedArticles: c.SharedArticles,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleArticle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	doi := strings.Trim(strings.TrimPrefix(r.URL.Path, "/articles/"), "/")
	if doi == "" {
		writeError(w, http.StatusBadRequest, "doi is required")
		return
	}
	article, err := h.service.Article(doi)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to fetch article")
		return
	}
	respondJSON(w, http.StatusOK, toArticleResponse(article))
}

func (h *APIHandlers) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	stats := h.service.Stats()
	respondJSON(w, http.StatusOK, statsResponse{
		Authors:      stats.Authors,
		Articles:     stats.Articles,
		Authorships:  stats.Authorships,
		Edges:        stats.Edges,
		Isolated:     stats.Isolated,
		MaxDegree:    stats.MaxDegree,
		DistanceMode: stats.DistanceMode,
	})
}

// resolvePair reads the source and target query parameters, each an author id
// or ORCID, and writes the error response itself when it returns false.
func (h *APIHandlers) resolvePair(w http.ResponseWriter, r *http.Request) (domain.Author, domain.Author, bool) {
	query := r.URL.Query()
	sourceRef := strings.TrimSpace(query.Get("source"))
	targetRef := strings.TrimSpace(query.Get("target"))
	if sourceRef == "" || targetRef == "" {
		writeError(w, http.StatusBadRequest, "source and target are required")
		return domain.Author{}, domain.Author{}, false
	}

	source, err := h.service.ResolveAuthor(sourceRef)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to resolve source")
		return domain.Author{}, domain.Author{}, false
	}
	target, err := h.service.ResolveAuthor(targetRef)
	if err != nil {
		h.writeServiceError(w, r, err, "failed to resolve target")
		return domain.Author{}, domain.Author{}, false
	}
	return source, target, true
}

func (h *APIHandlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrAuthorNotFound),
		errors.Is(err, service.ErrArticleNotFound),
		errors.Is(err, coauthor.ErrInvalidNode):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error(msg, "error", err, "request_id", requestID(r.Context()))
		writeError(w, http.StatusInternalServerError, msg)
	}
}

// --- Request & Response DTOs ---

type authorResponse struct {
	ID          int64  `json:"id"`
	ORCID       string `json:"orcid"`
	LastName    string `json:"lastName"`
	GivenNames  string `json:"givenNames"`
	DisplayName string `json:"displayName"`
}

type coauthorResponse struct {
	Author         authorResponse `json:"author"`
	SharedArticles int            `json:"sharedArticles"`
}

type coauthorsResponse struct {
	Author authorResponse     `json:"author"`
	Items  []coauthorResponse `json:"items"`
}

type distanceResponse struct {
	Source    authorResponse `json:"source"`
	Target    authorResponse `json:"target"`
	Distance  *int64         `json:"distance"`
	Reachable bool           `json:"reachable"`
	Mode      string         `json:"mode"`
}

type pathResponse struct {
	Source    authorResponse   `json:"source"`
	Target    authorResponse   `json:"target"`
	Distance  *int64           `json:"distance"`
	Reachable bool             `json:"reachable"`
	Mode      string           `json:"mode"`
	Authors   []authorResponse `json:"authors"`
}

type authorDistanceResponse struct {
	Author   authorResponse `json:"author"`
	Distance int64          `json:"distance"`
}

type distancesFromResponse struct {
	Source authorResponse           `json:"source"`
	Mode   string                   `json:"mode"`
	Total  int                      `json:"total"`
	Items  []authorDistanceResponse `json:"items"`
}

type batchPair struct {
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

type batchRequest struct {
	Pairs []batchPair `json:"pairs"`
}

type batchResult struct {
	Source    int64  `json:"source"`
	Target    int64  `json:"target"`
	Distance  *int64 `json:"distance"`
	Reachable bool   `json:"reachable"`
	Error     string `json:"error,omitempty"`
}

type batchResponse struct {
	Mode    string        `json:"mode"`
	Results []batchResult `json:"results"`
}

type articleResponse struct {
	DOI             string           `json:"doi"`
	Title           string           `json:"title"`
	PublicationDate int              `json:"publicationDate"`
	Authors         []authorResponse `json:"authors"`
}

type statsResponse struct {
	Authors      int    `json:"authors"`
	Articles     int    `json:"articles"`
	Authorships  int    `json:"authorships"`
	Edges        int    `json:"edges"`
	Isolated     int    `json:"isolated"`
	MaxDegree    int    `json:"maxDegree"`
	DistanceMode string `json:"distanceMode"`
}

func toAuthorResponse(a domain.Author) authorResponse {
	return authorResponse{
		ID:          a.ID,
		ORCID:       a.ORCID,
		LastName:    a.LastName,
		GivenNames:  a.GivenNames,
		DisplayName: a.DisplayName(),
	}
}

func toArticleResponse(a domain.FatArticle) articleResponse {
	resp := articleResponse{
		DOI:             a.DOI,
		Title:           a.Title,
		PublicationDate: a.PublicationDate,
		Authors:         make([]authorResponse, 0, len(a.Authors)),
	}
	for _, author := range a.Authors {
		resp.Authors = append(resp.Authors, toAuthorResponse(author))
	}
	return resp
}

// distancePtr renders unreachable results as JSON null.
func distancePtr(res coauthor.Result) *int64 {
	if !res.Reachable {
		return nil
	}
	d := res.Distance
	return &d
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
