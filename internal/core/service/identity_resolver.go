package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
)

// IdentityResolver finds or provisions the account for an email address.
type IdentityResolver struct {
	repo     ports.AccountRepository
	notifier ports.WelcomeNotifier
	log      zerolog.Logger
	now      func() time.Time
	hashCost int
}

// NewIdentityResolver returns an IdentityResolver backed by repo. Newly
// provisioned accounts are announced through notifier.
func NewIdentityResolver(repo ports.AccountRepository, notifier ports.WelcomeNotifier, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{
		repo:     repo,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// ResolveOrCreate returns the account registered under in.Email, creating it
// when absent. created is true only for the caller whose insert won.
func (r *IdentityResolver) ResolveOrCreate(ctx context.Context, in ports.IdentityInput) (*domain.Account, bool, error) {
	email := domain.NormalizeEmail(in.Email)

	existing, err := r.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, false, fmt.Errorf("%w: find account: %w", domain.ErrStorage, err)
	}

	hash, err := newCredentialHash(r.hashCost)
	if err != nil {
		return nil, false, fmt.Errorf("%w: provision account: %w", domain.ErrStorage, err)
	}

	account, err := domain.NewAccount(domain.NewAccountParams{
		Email:          email,
		DisplayName:    in.DisplayName,
		Phone:          in.Phone,
		CredentialHash: hash,
		OriginKey:      in.OriginKey,
		Now:            r.now(),
	})
	if err != nil {
		return nil, false, err
	}

	created, err := r.repo.Insert(ctx, account)
	if errors.Is(err, domain.ErrDuplicateKey) {
		// A concurrent delivery created the row first; converge on it.
		winner, ferr := r.repo.FindByEmail(ctx, email)
		if ferr != nil {
			return nil, false, fmt.Errorf("%w: refetch account after duplicate: %w", domain.ErrStorage, ferr)
		}
		r.log.Debug().Str("email", email).Str("account_id", winner.ID).Msg("account created concurrently, reusing")
		return winner, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: insert account: %w", domain.ErrStorage, err)
	}

	r.notifier.NotifyWelcome(*created)
	r.log.Info().Str("email", email).Str("account_id", created.ID).Msg("account provisioned")
	return created, true, nil
}

// Get returns the account with the given id.
func (r *IdentityResolver) Get(ctx context.Context, id string) (*domain.Account, error) {
	acc, err := r.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: get account %s: %w", domain.ErrStorage, id, err)
	}
	return acc, nil
}
