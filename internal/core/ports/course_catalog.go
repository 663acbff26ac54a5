package ports

import "context"

// CourseCatalog answers whether a course exists and is open for enrollment.
type CourseCatalog interface {
	IsPublished(ctx context.Context, courseID string) (bool, error)
}
