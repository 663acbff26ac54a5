package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionCourses = "courses"

// CourseCatalog answers course lookups from the courses collection, which is
// owned by the course management side of the platform.
type CourseCatalog struct {
	col *mongo.Collection
}

func NewCourseCatalog(db *mongo.Database) *CourseCatalog {
	return &CourseCatalog{col: db.Collection(collectionCourses)}
}

func (c *CourseCatalog) IsPublished(ctx context.Context, courseID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Published bool `bson:"published"`
	}
	opts := options.FindOne().SetProjection(bson.M{"published": 1})
	err := c.col.FindOne(ctx, bson.M{"_id": courseID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find course: %w", err)
	}
	return doc.Published, nil
}
