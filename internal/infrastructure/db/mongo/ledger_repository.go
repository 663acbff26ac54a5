package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

const collectionProcessedTransactions = "processed_transactions"

// LedgerRepository stores processed purchases with the dedup key as _id, so
// the primary key index is the uniqueness arbiter.
type LedgerRepository struct {
	col *mongo.Collection
}

func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{col: db.Collection(collectionProcessedTransactions)}
}

type ledgerDoc struct {
	Key           string    `bson:"_id"`
	TransactionID string    `bson:"transaction_id,omitempty"`
	Derived       bool      `bson:"derived"`
	AccountID     string    `bson:"account_id"`
	EnrollmentID  string    `bson:"enrollment_id"`
	RecordedAt    time.Time `bson:"recorded_at"`
}

func (r *LedgerRepository) Insert(ctx context.Context, e *domain.ProcessedTransaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, ledgerDoc{
		Key:           e.Key.String(),
		TransactionID: e.TransactionID,
		Derived:       e.Derived,
		AccountID:     e.AccountID,
		EnrollmentID:  e.EnrollmentID,
		RecordedAt:    e.RecordedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateKey
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepository) Find(ctx context.Context, key domain.DedupKey) (*domain.ProcessedTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc ledgerDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": key.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find ledger entry: %w", err)
	}
	return &domain.ProcessedTransaction{
		Key:           domain.DedupKey(doc.Key),
		TransactionID: doc.TransactionID,
		Derived:       doc.Derived,
		AccountID:     doc.AccountID,
		EnrollmentID:  doc.EnrollmentID,
		RecordedAt:    doc.RecordedAt.UTC(),
	}, nil
}
