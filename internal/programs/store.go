package programs

import (
	"context"

	"unihub/pkg/models"
)

// Store answers program list queries. Implementations must apply the same
// predicate to both calls so totals and pages agree.
type Store interface {
	CountPrograms(ctx context.Context, p Predicate) (int, error)
	QueryPrograms(ctx context.Context, p Predicate, o Order, limit, offset int) ([]models.ProgramListItem, error)
	// GetProgram returns (nil, nil) when no program has the id.
	GetProgram(ctx context.Context, id int64) (*models.ProgramListItem, error)
}

// DetailStore loads the child records of one program.
type DetailStore interface {
	TuitionFee(ctx context.Context, programID int64) (*models.TuitionFee, error)
	Scholarships(ctx context.Context, programID int64) ([]models.Scholarship, error)
	Courses(ctx context.Context, programID int64) ([]models.Course, error)
	Employment(ctx context.Context, programID int64) (*models.EmploymentOutcome, error)
	Opportunities(ctx context.Context, programID int64) ([]models.StudentOpportunity, error)
}
