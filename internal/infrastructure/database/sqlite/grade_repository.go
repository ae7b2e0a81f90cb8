package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"steeldex/internal/domain/composition"
	"steeldex/internal/domain/grade"
	"steeldex/internal/infrastructure/monitoring/logging"
	"steeldex/pkg/errors"
	"steeldex/pkg/types/common"
)

// scalarColumns maps patch scalar field names to their table columns.  Patch
// field names never reach the SQL text unchecked.
var scalarColumns = map[string]string{
	grade.FieldStandard:     "standard",
	grade.FieldManufacturer: "manufacturer",
	grade.FieldCountry:      "country",
	grade.FieldLink:         "link",
}

var selectColumns = "id, name, link, " +
	strings.Join(composition.Elements, ", ") +
	", base_element, standard, manufacturer, analogues, country, tech_notes"

// GradeRepository is the sqlite implementation of grade.Repository.
type GradeRepository struct {
	db     *sql.DB
	logger logging.Logger
}

// NewGradeRepository constructs the catalog store over an open connection.
func NewGradeRepository(db *sql.DB, logger logging.Logger) *GradeRepository {
	return &GradeRepository{db: db, logger: logger.Named("grade_repo")}
}

var _ grade.Repository = (*GradeRepository)(nil)

// Save inserts a new canonical grade and assigns its ID.
func (r *GradeRepository) Save(ctx context.Context, g *grade.CanonicalGrade) error {
	if err := g.Validate(); err != nil {
		return err
	}

	analogues, err := marshalAnalogues(g.Analogues)
	if err != nil {
		return err
	}

	cols := []string{"name", "name_key", "link"}
	args := []any{g.Name, g.NameKey(), g.Link}
	for _, sym := range composition.Elements {
		cols = append(cols, sym)
		args = append(args, g.Composition[sym])
	}
	cols = append(cols, "base_element", "standard", "manufacturer", "analogues", "country", "tech_notes")
	args = append(args, g.BaseElement, g.Standard, g.Manufacturer, analogues, g.Country, g.TechNotes)

	query := fmt.Sprintf("INSERT INTO grades (%s) VALUES (%s)",
		strings.Join(cols, ", "), placeholders(len(cols)))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.CodeDuplicateGrade, "grade already exists").
				WithDetailf("name=%s link=%s", g.Name, g.Link)
		}
		return errors.Wrap(err, errors.CodeDatabase, "failed to insert grade")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to read inserted id")
	}
	g.ID = id
	return nil
}

// FindByID retrieves one grade by its catalog ID.
func (r *GradeRepository) FindByID(ctx context.Context, id int64) (*grade.CanonicalGrade, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM grades WHERE id = ?", id)
	g, err := scanGrade(row)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.CodeGradeNotFound, "grade not found").
			WithDetailf("id=%d", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "failed to load grade")
	}
	return g, nil
}

// FindByName returns every grade sharing the literal's comparison key, in
// insertion order.
func (r *GradeRepository) FindByName(ctx context.Context, name string) ([]*grade.CanonicalGrade, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM grades WHERE name_key = ? ORDER BY id",
		grade.ComparisonKey(name))
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "failed to query grades by name")
	}
	defer rows.Close()
	return collectGrades(rows)
}

// List returns the full catalog snapshot in insertion order.
func (r *GradeRepository) List(ctx context.Context) ([]*grade.CanonicalGrade, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM grades ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "failed to list grades")
	}
	defer rows.Close()
	return collectGrades(rows)
}

// ListPage returns one page of the catalog and the total count.
func (r *GradeRepository) ListPage(ctx context.Context, p common.Pagination) ([]*grade.CanonicalGrade, int64, error) {
	p = p.Normalize()

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM grades ORDER BY id LIMIT ? OFFSET ?",
		p.PageSize, p.Offset())
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.CodeDatabase, "failed to list grade page")
	}
	defer rows.Close()

	grades, err := collectGrades(rows)
	if err != nil {
		return nil, 0, err
	}
	return grades, total, nil
}

// ApplyPatch applies the merger's adopted values to one row atomically.
func (r *GradeRepository) ApplyPatch(ctx context.Context, id int64, patch grade.Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	for field, value := range patch.Set {
		col, ok := scalarColumns[field]
		if !ok {
			if !composition.IsElement(field) {
				return errors.New(errors.CodeInternal, "patch references unknown field").
					WithDetail("field=" + field)
			}
			col = field
		}
		sets = append(sets, col+" = ?")
		args = append(args, value)
	}
	if patch.Analogues != nil {
		analogues, err := marshalAnalogues(patch.Analogues)
		if err != nil {
			return err
		}
		sets = append(sets, "analogues = ?")
		args = append(args, analogues)
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	res, err := r.db.ExecContext(ctx,
		"UPDATE grades SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.New(errors.CodeDuplicateGrade, "patched link duplicates an existing grade").
				WithDetailf("id=%d", id)
		}
		return errors.Wrap(err, errors.CodeDatabase, "failed to apply patch")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabase, "failed to read patch result")
	}
	if affected == 0 {
		return errors.New(errors.CodeGradeNotFound, "grade not found").
			WithDetailf("id=%d", id)
	}
	return nil
}

// Count returns the catalog size.
func (r *GradeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM grades").Scan(&n); err != nil {
		return 0, errors.Wrap(err, errors.CodeDatabase, "failed to count grades")
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGrade(row rowScanner) (*grade.CanonicalGrade, error) {
	g := &grade.CanonicalGrade{}
	elems := make([]string, len(composition.Elements))
	var analogues string

	dest := []any{&g.ID, &g.Name, &g.Link}
	for i := range elems {
		dest = append(dest, &elems[i])
	}
	dest = append(dest, &g.BaseElement, &g.Standard, &g.Manufacturer, &analogues, &g.Country, &g.TechNotes)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, sym := range composition.Elements {
		if elems[i] == "" {
			continue
		}
		if g.Composition == nil {
			g.Composition = make(map[string]string)
		}
		g.Composition[sym] = elems[i]
	}
	if analogues != "" && analogues != "[]" {
		if err := json.Unmarshal([]byte(analogues), &g.Analogues); err != nil {
			return nil, fmt.Errorf("corrupt analogues column for id %d: %w", g.ID, err)
		}
	}
	return g, nil
}

func collectGrades(rows *sql.Rows) ([]*grade.CanonicalGrade, error) {
	var out []*grade.CanonicalGrade
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabase, "failed to scan grade row")
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabase, "grade row iteration failed")
	}
	return out, nil
}

func marshalAnalogues(list []string) (string, error) {
	if len(list) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInternal, "failed to encode analogues")
	}
	return string(b), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isUniqueViolation matches the driver's constraint error text.  The pure-Go
// driver does not export a stable typed error for this case.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
