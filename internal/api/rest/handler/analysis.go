package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/palemoky/chinese-genre-classifier/internal/database"
	apierrors "github.com/palemoky/chinese-genre-classifier/internal/errors"
	"github.com/palemoky/chinese-genre-classifier/internal/helpers"
	"github.com/palemoky/chinese-genre-classifier/internal/search"
)

// AnalysisHandler serves stored analyses
type AnalysisHandler struct {
	repo   database.RepositoryInterface
	search *search.Engine
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(repo database.RepositoryInterface, searchEngine *search.Engine) *AnalysisHandler {
	return &AnalysisHandler{
		repo:   repo,
		search: searchEngine,
	}
}

// ListAnalyses retrieves a paginated list of analyses, most recently seen first.
// Supports ?genre, ?dynasty, ?author, ?dataset and ?lang filters.
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	filter, err := helpers.BuildAnalysisFilter(helpers.FilterParams{
		Genre:   c.Query("genre"),
		Dynasty: c.Query("dynasty"),
		Author:  c.Query("author"),
		Dataset: c.Query("dataset"),
		Lang:    c.Query("lang"),
	})
	if err != nil {
		respondError(c, apierrors.InvalidRequest(err.Error()))
		return
	}
	pagination := ParsePagination(c)

	analyses, total, err := h.repo.ListAnalyses(pagination.PageSize, pagination.Offset(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaginationResponse(formatAnalyses(analyses), pagination, total))
}

// SearchAnalyses searches stored analyses by ?q with an optional ?type
// (all, title, content, author, pinyin) and ?genre
func (h *AnalysisHandler) SearchAnalyses(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondError(c, apierrors.InvalidRequest("query parameter 'q' is required"))
		return
	}
	genre, err := helpers.ParseGenreFilter(c.Query("genre"))
	if err != nil {
		respondError(c, apierrors.InvalidRequest(err.Error()))
		return
	}
	pagination := ParsePagination(c)

	params := search.SearchParams{
		Query:      query,
		SearchType: search.ParseSearchType(c.Query("type")),
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
	}
	if genre != nil {
		params.Genre = *genre
	}

	result, err := h.search.Search(params)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := NewPaginationResponse(formatAnalyses(result.Analyses), pagination, result.TotalCount)
	resp["has_more"] = result.HasMore
	c.JSON(http.StatusOK, resp)
}

// GetAnalysis retrieves one analysis by ID
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	analysis, err := h.repo.GetAnalysisByID(id)
	if err != nil {
		respondLookupError(c, err, "Analysis")
		return
	}

	respondOK(c, formatAnalysis(analysis))
}

// DeleteAnalysis removes one analysis by ID
func (h *AnalysisHandler) DeleteAnalysis(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.repo.DeleteAnalysis(id); err != nil {
		respondLookupError(c, err, "Analysis")
		return
	}

	c.Status(http.StatusNoContent)
}
