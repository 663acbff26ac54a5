package ports

import (
	"context"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

// PurchaseEventInput is the DTO passed from the transport layer to the
// purchase service.
type PurchaseEventInput struct {
	Email         string
	FullName      string
	Phone         string // optional
	CourseID      string
	TransactionID string // optional
	PurchaseDate  string // informational only
}

// PurchaseOutcome is the classified result of processing one event.
type PurchaseOutcome struct {
	Account          *domain.Account
	Enrollment       *domain.Enrollment
	DedupKey         domain.DedupKey
	IsNewUser        bool
	IsNewEnrollment  bool
	AlreadyProcessed bool
}

// Kind returns the mutually exclusive classification of the outcome.
func (o *PurchaseOutcome) Kind() domain.OutcomeKind {
	return domain.ClassifyOutcome(o.IsNewUser, o.IsNewEnrollment, o.AlreadyProcessed)
}

// PurchaseService turns purchase notifications into accounts and enrollments.
type PurchaseService interface {
	Process(ctx context.Context, in PurchaseEventInput) (*PurchaseOutcome, error)
	// Lookup returns the recorded outcome for a dedup key, or
	// domain.ErrTransactionNotFound.
	Lookup(ctx context.Context, key domain.DedupKey) (*PurchaseOutcome, error)
}
