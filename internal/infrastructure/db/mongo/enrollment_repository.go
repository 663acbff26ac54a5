package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

const collectionEnrollments = "enrollments"

type EnrollmentRepository struct {
	col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{col: db.Collection(collectionEnrollments)}
}

type enrollmentDoc struct {
	ID             primitive.ObjectID `bson:"_id"`
	AccountID      string             `bson:"account_id"`
	CourseID       string             `bson:"course_id"`
	EnrolledAt     time.Time          `bson:"enrolled_at"`
	Progress       float64            `bson:"progress"`
	LastAccessAt   *time.Time         `bson:"last_access_at,omitempty"`
	TransactionKey string             `bson:"transaction_key,omitempty"`
}

func (d enrollmentDoc) toDomain() *domain.Enrollment {
	return &domain.Enrollment{
		ID:             d.ID.Hex(),
		AccountID:      d.AccountID,
		CourseID:       d.CourseID,
		EnrolledAt:     d.EnrolledAt.UTC(),
		Progress:       d.Progress,
		LastAccessAt:   d.LastAccessAt,
		TransactionKey: d.TransactionKey,
	}
}

// Insert stores a new enrollment. The compound unique index on
// (account_id, course_id) turns a concurrent second insert into
// domain.ErrDuplicateKey.
func (r *EnrollmentRepository) Insert(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := enrollmentDoc{
		ID:             primitive.NewObjectID(),
		AccountID:      e.AccountID,
		CourseID:       e.CourseID,
		EnrolledAt:     e.EnrolledAt,
		Progress:       e.Progress,
		LastAccessAt:   e.LastAccessAt,
		TransactionKey: e.TransactionKey,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *EnrollmentRepository) FindByAccountAndCourse(ctx context.Context, accountID, courseID string) (*domain.Enrollment, error) {
	return r.findOne(ctx, bson.M{"account_id": accountID, "course_id": courseID})
}

func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEnrollmentNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *EnrollmentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc enrollmentDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return doc.toDomain(), nil
}
