package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

// LedgerRepository stores processed purchases keyed by dedup key. The primary
// key arbitrates concurrent writers.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) Insert(ctx context.Context, e *domain.ProcessedTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO processed_transactions
			(dedup_key, transaction_id, derived, account_id, enrollment_id, recorded_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		e.Key.String(), e.TransactionID, e.Derived, e.AccountID, e.EnrollmentID, e.RecordedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) Find(ctx context.Context, key domain.DedupKey) (*domain.ProcessedTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var (
		e        domain.ProcessedTransaction
		dedupKey string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT dedup_key, transaction_id, derived, account_id, enrollment_id, recorded_at
		   FROM processed_transactions WHERE dedup_key = $1`,
		key.String(),
	).Scan(&dedupKey, &e.TransactionID, &e.Derived, &e.AccountID, &e.EnrollmentID, &e.RecordedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find ledger entry: %w", err)
	}
	e.Key = domain.DedupKey(dedupKey)
	e.RecordedAt = e.RecordedAt.UTC()
	return &e, nil
}
