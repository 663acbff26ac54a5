package ports

import (
	"context"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

// AccountRepository persists accounts. Implementations must enforce a unique
// constraint on the normalized email and report violations as
// domain.ErrDuplicateKey.
type AccountRepository interface {
	// FindByEmail returns domain.ErrAccountNotFound when no row matches.
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	Insert(ctx context.Context, account *domain.Account) (*domain.Account, error)
}
