package pipeline

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"courses-backend/internal/embedding"
	"courses-backend/internal/recommend"
	"courses-backend/internal/search"
	"courses-backend/internal/shared/server/respond"
	"courses-backend/internal/textgen"
)

// Handler wires HTTP handlers to the pipeline service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/recommendations", h.recommend)
}

type recommendRequest struct {
	Query       string                `json:"query"`
	Preferences recommend.Preferences `json:"preferences"`
}

func (h *Handler) recommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "query is required", nil)
		return
	}

	result, err := h.Svc.Recommend(c.Request.Context(), req.Query, req.Preferences)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrInvalidQuery):
			respond.Error(c, http.StatusBadRequest, "validation_error", "query is required", nil)
		case embedding.IsAuthError(err):
			respond.Error(c, http.StatusBadGateway, "upstream_auth", "model provider rejected credentials", nil)
		case embedding.IsConfigurationError(err), textgen.IsConfigurationError(err):
			respond.Error(c, http.StatusInternalServerError, "configuration", "model services are not configured", nil)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			respond.Error(c, http.StatusRequestTimeout, "timeout", "request cancelled", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "pipeline_error", "recommendation pipeline failed", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, result)
}
