package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	"steeldex/pkg/errors"
	"steeldex/pkg/types/common"
)

// GradeHandler serves catalog reads and the read-only resolver endpoint.
type GradeHandler struct {
	repo   grade.Repository
	logger logging.Logger
}

// NewGradeHandler builds the handler.
func NewGradeHandler(repo grade.Repository, logger logging.Logger) *GradeHandler {
	return &GradeHandler{repo: repo, logger: logger.Named("grade_handler")}
}

// Get handles GET /api/v1/grades/:id.
func (h *GradeHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, errors.InvalidParam("id must be an integer"))
		return
	}

	g, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

type listResponse struct {
	Grades []*grade.CanonicalGrade `json:"grades"`
	common.PageResult
}

// List handles GET /api/v1/grades with page/page_size query parameters.
func (h *GradeHandler) List(c *gin.Context) {
	p := common.Pagination{
		Page:     intQuery(c, "page"),
		PageSize: intQuery(c, "page_size"),
	}.Normalize()

	grades, total, err := h.repo.ListPage(c.Request.Context(), p)
	if err != nil {
		respondError(c, err)
		return
	}
	if grades == nil {
		grades = []*grade.CanonicalGrade{}
	}
	c.JSON(http.StatusOK, listResponse{
		Grades: grades,
		PageResult: common.PageResult{
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalCount: total,
		},
	})
}

type lookupResponse struct {
	Outcome    string                  `json:"outcome"`
	Grade      *grade.CanonicalGrade   `json:"grade,omitempty"`
	Candidates []*grade.CanonicalGrade `json:"candidates,omitempty"`
	Tried      []string                `json:"tried"`
}

// Lookup handles GET /api/v1/grades/lookup?name=&country=: it runs the
// resolver against a catalog snapshot without mutating anything.
func (h *GradeHandler) Lookup(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		respondError(c, errors.InvalidParam("name query parameter is required"))
		return
	}

	catalog, err := h.repo.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	outcome := grade.Resolve(grade.GradeRecord{
		Name:        name,
		CountryHint: c.Query("country"),
	}, grade.NewIndex(catalog))

	c.JSON(http.StatusOK, lookupResponse{
		Outcome:    outcome.Kind.String(),
		Grade:      outcome.Grade,
		Candidates: outcome.Candidates,
		Tried:      outcome.Tried,
	})
}

func intQuery(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}
