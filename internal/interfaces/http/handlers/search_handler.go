package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"steeldex/internal/application/search"
	"steeldex/internal/infrastructure/monitoring/logging"
	"steeldex/pkg/errors"
)

// SearchHandler serves the composition-similarity query endpoint.
type SearchHandler struct {
	svc    *search.Service
	logger logging.Logger
}

// NewSearchHandler builds the handler.
func NewSearchHandler(svc *search.Service, logger logging.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, logger: logger.Named("search_handler")}
}

// DefaultTolerance applies when a query omits the tolerance field.
const DefaultTolerance = 50.0

type similarRequest struct {
	Composition map[string]string `json:"composition" binding:"required"`
	Tolerance   *float64          `json:"tolerance"`
	MaxResults  int               `json:"max_results"`
}

type similarResponse struct {
	Matches []search.Match `json:"matches"`
}

// Similar handles POST /api/v1/similar.
func (h *SearchHandler) Similar(c *gin.Context) {
	var req similarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.InvalidParam("request body must carry a composition map").WithCause(err))
		return
	}

	tolerance := DefaultTolerance
	if req.Tolerance != nil {
		tolerance = *req.Tolerance
	}

	matches, err := h.svc.Search(c.Request.Context(), req.Composition, tolerance, req.MaxResults)
	if err != nil {
		respondError(c, err)
		return
	}
	if matches == nil {
		matches = []search.Match{}
	}
	c.JSON(http.StatusOK, similarResponse{Matches: matches})
}
