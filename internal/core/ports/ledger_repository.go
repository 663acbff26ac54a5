package ports

import (
	"context"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

// LedgerRepository stores processed purchases keyed by dedup key.
type LedgerRepository interface {
	// Find returns domain.ErrTransactionNotFound when the key is unseen.
	Find(ctx context.Context, key domain.DedupKey) (*domain.ProcessedTransaction, error)
	// Insert returns domain.ErrDuplicateKey when the key is already recorded.
	Insert(ctx context.Context, entry *domain.ProcessedTransaction) error
}
