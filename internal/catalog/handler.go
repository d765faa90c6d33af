package catalog

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courses-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the course catalog.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches catalog routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/courses/:id", h.getCourse)
	rg.POST("/courses/validate", h.validateCourses)
	rg.GET("/catalog/stats", h.catalogStats)
}

func (h *Handler) getCourse(c *gin.Context) {
	courseID := c.Param("id")
	if courseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "course id is required", nil)
		return
	}

	course, err := h.Repo.Get(c.Request.Context(), courseID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "course not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch course", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, Detail(course))
}

type validateRequest struct {
	CourseIDs        []string `json:"course_ids"`
	UserBackground   string   `json:"user_background"`
	UserRegion       string   `json:"user_region"`
	CompletedCourses []string `json:"completed_courses"`
}

func (h *Handler) validateCourses(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.CourseIDs) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "course_ids is required", nil)
		return
	}

	results, err := ValidateCompatibility(c.Request.Context(), h.Repo, req.CourseIDs, req.UserBackground, req.UserRegion, req.CompletedCourses)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to validate courses", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"validations": results})
}

func (h *Handler) catalogStats(c *gin.Context) {
	stats, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute catalog stats", nil)
		return
	}

	respond.JSON(c, http.StatusOK, stats)
}
