package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steeldex/internal/application/search"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	prom "steeldex/internal/infrastructure/monitoring/prometheus"
	"steeldex/pkg/errors"
	"steeldex/pkg/types/common"
)

type fakeRepo struct {
	grades []*grade.CanonicalGrade
}

func (r fakeRepo) Save(context.Context, *grade.CanonicalGrade) error { return nil }

func (r fakeRepo) FindByID(_ context.Context, id int64) (*grade.CanonicalGrade, error) {
	for _, g := range r.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, errors.New(errors.CodeGradeNotFound, "grade not found")
}

func (r fakeRepo) FindByName(_ context.Context, name string) ([]*grade.CanonicalGrade, error) {
	key := grade.ComparisonKey(name)
	var out []*grade.CanonicalGrade
	for _, g := range r.grades {
		if g.NameKey() == key {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r fakeRepo) List(context.Context) ([]*grade.CanonicalGrade, error) {
	return r.grades, nil
}

func (r fakeRepo) ListPage(_ context.Context, p common.Pagination) ([]*grade.CanonicalGrade, int64, error) {
	return r.grades, int64(len(r.grades)), nil
}

func (r fakeRepo) ApplyPatch(context.Context, int64, grade.Patch) error { return nil }

func (r fakeRepo) Count(context.Context) (int64, error) {
	return int64(len(r.grades)), nil
}

func newTestRouter(grades ...*grade.CanonicalGrade) *gin.Engine {
	for i, g := range grades {
		g.ID = int64(i + 1)
	}
	repo := fakeRepo{grades: grades}
	logger := logging.NewNop()
	return NewRouter(gin.TestMode, RouterDeps{
		Repo:    repo,
		Search:  search.NewService(repo, logger, nil),
		Logger:  logger,
		Metrics: prom.New("steeldex"),
	})
}

func do(router *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "test-id-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "test-id-42", rec.Header().Get("X-Request-ID"))

	rec = do(router, http.MethodGet, "/healthz", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGetGrade(t *testing.T) {
	router := newTestRouter(&grade.CanonicalGrade{
		Name:        "Х12МФ",
		Composition: map[string]string{"c": "1.45-1.65"},
	})

	rec := do(router, http.MethodGet, "/api/v1/grades/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got grade.CanonicalGrade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Х12МФ", got.Name)
}

func TestGetGrade_NotFound(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/api/v1/grades/99", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, errors.CodeGradeNotFound.String(), body.Code)
}

func TestGetGrade_BadID(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/api/v1/grades/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListGrades(t *testing.T) {
	router := newTestRouter(
		&grade.CanonicalGrade{Name: "D2"},
		&grade.CanonicalGrade{Name: "O1"},
	)

	rec := do(router, http.MethodGet, "/api/v1/grades?page=1&page_size=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Grades     []grade.CanonicalGrade `json:"grades"`
		TotalCount int64                  `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Grades, 2)
	assert.Equal(t, int64(2), body.TotalCount)
}

func TestLookupGrade(t *testing.T) {
	router := newTestRouter(&grade.CanonicalGrade{Name: "Х12МФ"})

	rec := do(router, http.MethodGet, "/api/v1/grades/lookup?name=Kh12MF&country=RU", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Outcome string                `json:"outcome"`
		Grade   *grade.CanonicalGrade `json:"grade"`
		Tried   []string              `json:"tried"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, grade.MatchedByName.String(), body.Outcome)
	require.NotNil(t, body.Grade)
	assert.Equal(t, "Х12МФ", body.Grade.Name)
	assert.NotEmpty(t, body.Tried)
}

func TestLookupGrade_MissingName(t *testing.T) {
	rec := do(newTestRouter(), http.MethodGet, "/api/v1/grades/lookup", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimilar(t *testing.T) {
	router := newTestRouter(
		&grade.CanonicalGrade{Name: "close", Composition: map[string]string{"c": "0.30", "cr": "1.20", "mo": "0.20"}},
	)

	payload, _ := json.Marshal(map[string]any{
		"composition": map[string]string{"c": "0.28", "cr": "1.00", "mo": "0.25"},
		"tolerance":   50,
	})
	rec := do(router, http.MethodPost, "/api/v1/similar", payload)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Matches []search.Match `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Matches, 1)
	assert.Equal(t, "close", body.Matches[0].Name)
	assert.Greater(t, body.Matches[0].Score, 40.0)
}

func TestSimilar_MissingAnchor(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{
		"composition": map[string]string{"cr": "12.0"},
	})
	rec := do(newTestRouter(), http.MethodPost, "/api/v1/similar", payload)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSimilar_BadBody(t *testing.T) {
	rec := do(newTestRouter(), http.MethodPost, "/api/v1/similar", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
