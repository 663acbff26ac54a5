package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
)

// EnrollmentResolver finds or creates the enrollment of an account in a
// course. Course existence is checked by the caller.
type EnrollmentResolver struct {
	repo ports.EnrollmentRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewEnrollmentResolver(repo ports.EnrollmentRepository, log zerolog.Logger) *EnrollmentResolver {
	return &EnrollmentResolver{repo: repo, log: log, now: time.Now}
}

// ResolveOrCreate returns the enrollment for (accountID, courseID), creating
// it at zero progress when absent. Re-enrolling is a no-op, not an error.
func (r *EnrollmentResolver) ResolveOrCreate(ctx context.Context, accountID, courseID string, key domain.DedupKey) (*domain.Enrollment, bool, error) {
	existing, err := r.repo.FindByAccountAndCourse(ctx, accountID, courseID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrEnrollmentNotFound) {
		return nil, false, fmt.Errorf("%w: find enrollment: %w", domain.ErrStorage, err)
	}

	enrollment, err := domain.NewEnrollment(accountID, courseID, key.String(), r.now())
	if err != nil {
		return nil, false, err
	}

	created, err := r.repo.Insert(ctx, enrollment)
	if errors.Is(err, domain.ErrDuplicateKey) {
		winner, ferr := r.repo.FindByAccountAndCourse(ctx, accountID, courseID)
		if ferr != nil {
			return nil, false, fmt.Errorf("%w: refetch enrollment after duplicate: %w", domain.ErrStorage, ferr)
		}
		r.log.Debug().Str("account_id", accountID).Str("course_id", courseID).Msg("enrollment created concurrently, reusing")
		return winner, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: insert enrollment: %w", domain.ErrStorage, err)
	}

	r.log.Info().
		Str("account_id", accountID).
		Str("course_id", courseID).
		Str("enrollment_id", created.ID).
		Msg("enrollment created")
	return created, true, nil
}

// Get returns the enrollment with the given id.
func (r *EnrollmentResolver) Get(ctx context.Context, id string) (*domain.Enrollment, error) {
	e, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get enrollment %s: %w", domain.ErrStorage, id, err)
	}
	return e, nil
}
