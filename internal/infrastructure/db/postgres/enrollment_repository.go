package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

const enrollmentColumns = `id, account_id, course_id, enrolled_at, progress, last_access_at, transaction_key`

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

func (r *EnrollmentRepository) Insert(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stored := *e
	stored.ID = uuid.NewString()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO enrollments (`+enrollmentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		stored.ID, stored.AccountID, stored.CourseID, stored.EnrolledAt,
		stored.Progress, stored.LastAccessAt, stored.TransactionKey,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}
	return &stored, nil
}

func (r *EnrollmentRepository) FindByAccountAndCourse(ctx context.Context, accountID, courseID string) (*domain.Enrollment, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return nil, domain.ErrEnrollmentNotFound
	}
	return r.findOne(ctx,
		`SELECT `+enrollmentColumns+` FROM enrollments WHERE account_id = $1 AND course_id = $2`,
		accountID, courseID)
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrEnrollmentNotFound
	}
	return r.findOne(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id)
}

func (r *EnrollmentRepository) findOne(ctx context.Context, query string, args ...any) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Enrollment
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&e.ID, &e.AccountID, &e.CourseID, &e.EnrolledAt, &e.Progress, &e.LastAccessAt, &e.TransactionKey,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	e.EnrolledAt = e.EnrolledAt.UTC()
	return &e, nil
}
