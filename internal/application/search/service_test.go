package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	"steeldex/pkg/errors"
	"steeldex/pkg/types/common"
)

type listRepo struct {
	grades []*grade.CanonicalGrade
}

func (r listRepo) Save(context.Context, *grade.CanonicalGrade) error { return nil }
func (r listRepo) FindByID(context.Context, int64) (*grade.CanonicalGrade, error) {
	return nil, errors.New(errors.CodeGradeNotFound, "grade not found")
}
func (r listRepo) FindByName(context.Context, string) ([]*grade.CanonicalGrade, error) {
	return nil, nil
}
func (r listRepo) List(context.Context) ([]*grade.CanonicalGrade, error) {
	return r.grades, nil
}
func (r listRepo) ListPage(context.Context, common.Pagination) ([]*grade.CanonicalGrade, int64, error) {
	return r.grades, int64(len(r.grades)), nil
}
func (r listRepo) ApplyPatch(context.Context, int64, grade.Patch) error { return nil }
func (r listRepo) Count(context.Context) (int64, error) {
	return int64(len(r.grades)), nil
}

func newTestService(grades ...*grade.CanonicalGrade) *Service {
	for i, g := range grades {
		g.ID = int64(i + 1)
	}
	return NewService(listRepo{grades: grades}, logging.NewNop(), nil)
}

func TestSearch_RanksByScore(t *testing.T) {
	svc := newTestService(
		&grade.CanonicalGrade{Name: "far", Composition: map[string]string{"c": "0.30", "cr": "5.0"}},
		&grade.CanonicalGrade{Name: "exact", Composition: map[string]string{"c": "0.28", "cr": "1.00", "mo": "0.25", "ni": "0.50"}},
		&grade.CanonicalGrade{Name: "close", Composition: map[string]string{"c": "0.30", "cr": "1.20", "mo": "0.20"}},
	)

	ref := map[string]string{"c": "0.28", "cr": "1.00", "mo": "0.25", "ni": "0.50"}
	matches, err := svc.Search(context.Background(), ref, 50, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2, "the distant candidate stays below the floor")

	assert.Equal(t, "exact", matches[0].Name)
	assert.InDelta(t, 100, matches[0].Score, 1e-9)
	assert.Equal(t, "close", matches[1].Name)
	assert.Greater(t, matches[1].Score, 40.0)
	assert.Less(t, matches[1].Score, matches[0].Score)
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	svc := newTestService(
		&grade.CanonicalGrade{Name: "first", Composition: map[string]string{"c": "0.5"}},
		&grade.CanonicalGrade{Name: "second", Composition: map[string]string{"c": "0.5"}},
	)

	matches, err := svc.Search(context.Background(), map[string]string{"c": "0.5"}, 10, 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "first", matches[0].Name)
	assert.Equal(t, "second", matches[1].Name)
	assert.Equal(t, matches[0].Score, matches[1].Score)
}

func TestSearch_MaxResultsTruncates(t *testing.T) {
	svc := newTestService(
		&grade.CanonicalGrade{Name: "a", Composition: map[string]string{"c": "0.5"}},
		&grade.CanonicalGrade{Name: "b", Composition: map[string]string{"c": "0.5"}},
		&grade.CanonicalGrade{Name: "c", Composition: map[string]string{"c": "0.5"}},
	)

	matches, err := svc.Search(context.Background(), map[string]string{"c": "0.5"}, 10, 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestSearch_RangesCompareByMidpoint(t *testing.T) {
	svc := newTestService(
		&grade.CanonicalGrade{Name: "ranged", Composition: map[string]string{"c": "0.40-0.60"}},
	)

	matches, err := svc.Search(context.Background(), map[string]string{"c": "0.50"}, 10, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.InDelta(t, 100, matches[0].Score, 1e-9)
}

func TestSearch_MissingAnchor(t *testing.T) {
	svc := newTestService()

	_, err := svc.Search(context.Background(), map[string]string{"cr": "12.0"}, 50, 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeIncomparable))
}

func TestSearch_MalformedReference(t *testing.T) {
	svc := newTestService()

	_, err := svc.Search(context.Background(), map[string]string{"c": "1.65-1.45"}, 50, 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeMalformedComposition))
}

func TestSearch_ToleranceOutOfRange(t *testing.T) {
	svc := newTestService()

	_, err := svc.Search(context.Background(), map[string]string{"c": "0.5"}, 101, 10)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))
}

func TestSearch_CandidateWithoutAnchorStillScored(t *testing.T) {
	// The anchor requirement binds the reference only; a candidate missing
	// carbon takes the one-sided absence penalty instead.
	svc := newTestService(
		&grade.CanonicalGrade{Name: "noc", Composition: map[string]string{"cr": "1.0", "mo": "0.25", "ni": "0.5", "mn": "0.8", "si": "0.3"}},
	)

	ref := map[string]string{"c": "0.3", "cr": "1.0", "mo": "0.25", "ni": "0.5", "mn": "0.8", "si": "0.3"}
	matches, err := svc.Search(context.Background(), ref, 50, 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Less(t, matches[0].Score, 100.0)
	assert.GreaterOrEqual(t, matches[0].Score, 40.0)
}
