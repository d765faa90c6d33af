package search

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"courses-backend/internal/catalog"
	"courses-backend/internal/embedding"
	"courses-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to search operations.
type Handler struct {
	Retriever *Retriever
	Repo      catalog.Repo
}

// NewHandler constructs a Handler.
func NewHandler(retriever *Retriever, repo catalog.Repo) *Handler {
	return &Handler{Retriever: retriever, Repo: repo}
}

// RegisterRoutes attaches search routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.keywordSearch)
	rg.GET("/courses/:id/similar", h.similarCourses)
}

func (h *Handler) keywordSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "q is required", nil)
		return
	}
	limit := parseLimit(c.Query("limit"))
	if limit <= 0 {
		limit = DefaultLimit
	}

	keywords := strings.Fields(query)
	courses, err := h.Repo.SearchByKeywords(c.Request.Context(), keywords, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "search failed", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"query":   query,
		"count":   len(courses),
		"courses": courses,
	})
}

func (h *Handler) similarCourses(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "course id is required", nil)
		return
	}
	limit := parseLimit(c.Query("limit"))

	outcome, err := h.Retriever.SimilarTo(c.Request.Context(), courseID, limit)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "course not found or not embedded", nil)
		case embedding.IsAuthError(err):
			respond.Error(c, http.StatusBadGateway, "upstream_auth", "model provider rejected credentials", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "similarity search failed", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"course_id": courseID,
		"degraded":  outcome.Degraded,
		"results":   outcome.Results,
	})
}

// parseLimit returns 0 when the param is absent or invalid so the callee's
// own default applies.
func parseLimit(raw string) int {
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return 0
	}
	return parsed
}
