package grade

import (
	"context"

	"steeldex/pkg/types/common"
)

// Repository defines the persistence contract for the canonical catalog.
// Implementations must preserve the (name, link) uniqueness invariant and
// insertion order of IDs (IDs are assigned at creation and never reused).
type Repository interface {
	// Save persists a new canonical grade and assigns its ID.
	// Returns errors.CodeDuplicateGrade when (name, link) already exists.
	Save(ctx context.Context, g *CanonicalGrade) error

	// FindByID retrieves one grade.
	// Returns errors.CodeGradeNotFound when absent.
	FindByID(ctx context.Context, id int64) (*CanonicalGrade, error)

	// FindByName returns every grade whose name folds to the same
	// comparison key as the given literal, in insertion order.  An empty
	// result is not an error.
	FindByName(ctx context.Context, name string) ([]*CanonicalGrade, error)

	// List returns the full catalog snapshot in insertion (ID) order.
	// Used to build the candidate index at the start of a sync run and to
	// scan candidates during similarity search.
	List(ctx context.Context) ([]*CanonicalGrade, error)

	// ListPage returns one page of the catalog in insertion order.
	ListPage(ctx context.Context, p common.Pagination) ([]*CanonicalGrade, int64, error)

	// ApplyPatch applies a merger patch to the identified grade
	// atomically.  An empty patch is a no-op.
	ApplyPatch(ctx context.Context, id int64, patch Patch) error

	// Count returns the catalog size.
	Count(ctx context.Context) (int64, error)
}
