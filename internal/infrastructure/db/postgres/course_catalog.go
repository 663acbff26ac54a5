package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CourseCatalog struct {
	pool *pgxpool.Pool
}

func NewCourseCatalog(pool *pgxpool.Pool) *CourseCatalog {
	return &CourseCatalog{pool: pool}
}

func (c *CourseCatalog) IsPublished(ctx context.Context, courseID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var published bool
	err := c.pool.QueryRow(ctx, `SELECT published FROM courses WHERE id = $1`, courseID).Scan(&published)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find course: %w", err)
	}
	return published, nil
}
