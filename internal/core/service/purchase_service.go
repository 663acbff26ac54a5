package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
)

type purchaseService struct {
	identity    *IdentityResolver
	enrollments *EnrollmentResolver
	ledger      *Ledger
	catalog     ports.CourseCatalog
	log         zerolog.Logger
}

// NewPurchaseService returns the purchase orchestrator.
func NewPurchaseService(
	identity *IdentityResolver,
	enrollments *EnrollmentResolver,
	ledger *Ledger,
	catalog ports.CourseCatalog,
	log zerolog.Logger,
) ports.PurchaseService {
	return &purchaseService{
		identity:    identity,
		enrollments: enrollments,
		ledger:      ledger,
		catalog:     catalog,
		log:         log,
	}
}

// Process converts one purchase notification into an account and an
// enrollment, at most once per dedup key.
func (s *purchaseService) Process(ctx context.Context, in ports.PurchaseEventInput) (*ports.PurchaseOutcome, error) {
	ev := domain.PurchaseEvent{
		Email:         in.Email,
		FullName:      in.FullName,
		Phone:         in.Phone,
		CourseID:      in.CourseID,
		TransactionID: in.TransactionID,
		PurchaseDate:  in.PurchaseDate,
	}.Normalize()

	// 1. Reject malformed input before touching any store.
	if err := ev.Validate(); err != nil {
		return nil, err
	}

	key := ev.DedupKey()
	log := s.log.With().Str("dedup_key", key.String()).Str("course_id", ev.CourseID).Logger()

	// 2. Replays short-circuit without writes.
	seen, err := s.ledger.HasProcessed(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("process purchase: %w", err)
	}
	if seen {
		log.Debug().Msg("purchase already processed")
		return s.Lookup(ctx, key)
	}

	// 3. Course must exist and be published.
	published, err := s.catalog.IsPublished(ctx, ev.CourseID)
	if err != nil {
		return nil, fmt.Errorf("process purchase: %w: course lookup: %w", domain.ErrStorage, err)
	}
	if !published {
		return nil, fmt.Errorf("process purchase: %w: %s", domain.ErrCourseNotFound, ev.CourseID)
	}

	// 4. Resolve account and enrollment. Both tolerate concurrent creators.
	account, createdUser, err := s.identity.ResolveOrCreate(ctx, ports.IdentityInput{
		Email:       ev.Email,
		DisplayName: ev.FullName,
		Phone:       ev.Phone,
		OriginKey:   key.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("process purchase: %w", err)
	}

	enrollment, createdEnrollment, err := s.enrollments.ResolveOrCreate(ctx, account.ID, ev.CourseID, key)
	if err != nil {
		return nil, fmt.Errorf("process purchase: %w", err)
	}

	// 5. Commit to the ledger. A losing writer adopts the winner's record.
	recorded, won, err := s.ledger.MarkProcessed(ctx, key, ev.TransactionID, account.ID, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("process purchase: %w", err)
	}
	if !won {
		log.Info().Msg("purchase recorded concurrently, returning recorded outcome")
		return s.replay(ctx, recorded)
	}

	// Rows stamped with this key were created for this purchase, possibly by
	// an earlier attempt that failed before reaching the ledger. An account is
	// only reported new alongside its first enrollment: when another purchase
	// enrolled it first, this one is already_enrolled.
	isNewEnrollment := createdEnrollment || enrollment.TransactionKey == key.String()
	outcome := &ports.PurchaseOutcome{
		Account:         account,
		Enrollment:      enrollment,
		DedupKey:        key,
		IsNewUser:       isNewEnrollment && (createdUser || account.OriginKey == key.String()),
		IsNewEnrollment: isNewEnrollment,
	}

	log.Info().
		Str("account_id", account.ID).
		Str("enrollment_id", enrollment.ID).
		Str("outcome", string(outcome.Kind())).
		Msg("purchase processed")

	return outcome, nil
}

// Lookup returns the recorded outcome for key.
func (s *purchaseService) Lookup(ctx context.Context, key domain.DedupKey) (*ports.PurchaseOutcome, error) {
	entry, found, err := s.ledger.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrTransactionNotFound
	}
	return s.replay(ctx, entry)
}

func (s *purchaseService) replay(ctx context.Context, entry *domain.ProcessedTransaction) (*ports.PurchaseOutcome, error) {
	account, err := s.identity.Get(ctx, entry.AccountID)
	if err != nil {
		return nil, fmt.Errorf("replay purchase: %w", err)
	}
	enrollment, err := s.enrollments.Get(ctx, entry.EnrollmentID)
	if err != nil {
		return nil, fmt.Errorf("replay purchase: %w", err)
	}
	return &ports.PurchaseOutcome{
		Account:          account,
		Enrollment:       enrollment,
		DedupKey:         entry.Key,
		AlreadyProcessed: true,
	}, nil
}
