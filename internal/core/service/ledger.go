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

// Ledger records which purchases have already produced an account and an
// enrollment. The repository's unique key is the check-and-set arbiter.
type Ledger struct {
	repo ports.LedgerRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewLedger(repo ports.LedgerRepository, log zerolog.Logger) *Ledger {
	return &Ledger{repo: repo, log: log, now: time.Now}
}

// Lookup returns the entry recorded for key, if any.
func (l *Ledger) Lookup(ctx context.Context, key domain.DedupKey) (*domain.ProcessedTransaction, bool, error) {
	entry, err := l.repo.Find(ctx, key)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: ledger lookup: %w", domain.ErrStorage, err)
	}
	return entry, true, nil
}

// HasProcessed reports whether key has already been recorded.
func (l *Ledger) HasProcessed(ctx context.Context, key domain.DedupKey) (bool, error) {
	_, found, err := l.Lookup(ctx, key)
	return found, err
}

// MarkProcessed records key as handled. When another writer recorded the
// key first, the stored entry is returned with won=false and nothing is
// written.
func (l *Ledger) MarkProcessed(ctx context.Context, key domain.DedupKey, transactionID, accountID, enrollmentID string) (*domain.ProcessedTransaction, bool, error) {
	entry := &domain.ProcessedTransaction{
		Key:           key,
		TransactionID: transactionID,
		Derived:       key.Derived(),
		AccountID:     accountID,
		EnrollmentID:  enrollmentID,
		RecordedAt:    l.now().UTC(),
	}

	err := l.repo.Insert(ctx, entry)
	if err == nil {
		return entry, true, nil
	}
	if !errors.Is(err, domain.ErrDuplicateKey) {
		return nil, false, fmt.Errorf("%w: ledger insert: %w", domain.ErrStorage, err)
	}

	winner, err := l.repo.Find(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("%w: ledger refetch after duplicate: %w", domain.ErrStorage, err)
	}
	if winner.AccountID != accountID || winner.EnrollmentID != enrollmentID {
		l.log.Warn().
			Str("dedup_key", key.String()).
			Str("account_id", accountID).
			Str("winner_account_id", winner.AccountID).
			Msg("ledger winner references different rows")
	}
	return winner, false, nil
}
