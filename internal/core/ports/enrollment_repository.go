package ports

import (
	"context"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

// EnrollmentRepository persists enrollments with a unique (account, course)
// constraint. Violations surface as domain.ErrDuplicateKey.
type EnrollmentRepository interface {
	// FindByAccountAndCourse returns domain.ErrEnrollmentNotFound when absent.
	FindByAccountAndCourse(ctx context.Context, accountID, courseID string) (*domain.Enrollment, error)
	FindByID(ctx context.Context, id string) (*domain.Enrollment, error)
	Insert(ctx context.Context, enrollment *domain.Enrollment) (*domain.Enrollment, error)
}
