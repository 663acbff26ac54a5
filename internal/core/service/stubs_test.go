package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory repositories. Each enforces the same uniqueness constraint as the
// real stores, so concurrent tests exercise the duplicate-key paths.
// ---------------------------------------------------------------------------

type memAccountRepo struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Account
	byID    map[string]*domain.Account
	seq     int
	inserts int
	finds   int

	findErr   error
	insertErr error
	// beforeInsert runs once, outside the lock, right before the next insert.
	beforeInsert func()
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{
		byEmail: make(map[string]*domain.Account),
		byID:    make(map[string]*domain.Account),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func (r *memAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *memAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *memAccountRepo) Insert(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	hook := r.beforeInsert
	r.beforeInsert = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	if _, exists := r.byEmail[a.Email]; exists {
		return nil, domain.ErrDuplicateKey
	}
	r.seq++
	stored := cloneAccount(a)
	stored.ID = fmt.Sprintf("acc-%d", r.seq)
	r.byEmail[stored.Email] = stored
	r.byID[stored.ID] = stored
	r.inserts++
	return cloneAccount(stored), nil
}

func (r *memAccountRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type memEnrollmentRepo struct {
	mu      sync.Mutex
	byPair  map[string]*domain.Enrollment
	byID    map[string]*domain.Enrollment
	seq     int
	inserts int

	insertErr    error
	failInserts  int // number of upcoming inserts that fail with insertErr
	beforeInsert func()
}

func newMemEnrollmentRepo() *memEnrollmentRepo {
	return &memEnrollmentRepo{
		byPair: make(map[string]*domain.Enrollment),
		byID:   make(map[string]*domain.Enrollment),
	}
}

func pairKey(accountID, courseID string) string { return accountID + "|" + courseID }

func cloneEnrollment(e *domain.Enrollment) *domain.Enrollment {
	c := *e
	return &c
}

func (r *memEnrollmentRepo) FindByAccountAndCourse(_ context.Context, accountID, courseID string) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byPair[pairKey(accountID, courseID)]
	if !ok {
		return nil, domain.ErrEnrollmentNotFound
	}
	return cloneEnrollment(e), nil
}

func (r *memEnrollmentRepo) FindByID(_ context.Context, id string) (*domain.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrEnrollmentNotFound
	}
	return cloneEnrollment(e), nil
}

func (r *memEnrollmentRepo) Insert(_ context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	r.mu.Lock()
	hook := r.beforeInsert
	r.beforeInsert = nil
	r.mu.Unlock()
	if hook != nil {
		hook()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInserts > 0 {
		r.failInserts--
		return nil, r.insertErr
	}
	k := pairKey(e.AccountID, e.CourseID)
	if _, exists := r.byPair[k]; exists {
		return nil, domain.ErrDuplicateKey
	}
	r.seq++
	stored := cloneEnrollment(e)
	stored.ID = fmt.Sprintf("enr-%d", r.seq)
	r.byPair[k] = stored
	r.byID[stored.ID] = stored
	r.inserts++
	return cloneEnrollment(stored), nil
}

func (r *memEnrollmentRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

type memLedgerRepo struct {
	mu      sync.Mutex
	entries map[domain.DedupKey]*domain.ProcessedTransaction
	finds   int
	inserts int

	findErr   error
	insertErr error
}

func newMemLedgerRepo() *memLedgerRepo {
	return &memLedgerRepo{entries: make(map[domain.DedupKey]*domain.ProcessedTransaction)}
}

func (r *memLedgerRepo) Find(_ context.Context, key domain.DedupKey) (*domain.ProcessedTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finds++
	if r.findErr != nil {
		return nil, r.findErr
	}
	e, ok := r.entries[key]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	c := *e
	return &c, nil
}

func (r *memLedgerRepo) Insert(_ context.Context, entry *domain.ProcessedTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return r.insertErr
	}
	if _, exists := r.entries[entry.Key]; exists {
		return domain.ErrDuplicateKey
	}
	c := *entry
	r.entries[entry.Key] = &c
	r.inserts++
	return nil
}

func (r *memLedgerRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ---------------------------------------------------------------------------
// Collaborators
// ---------------------------------------------------------------------------

type recordingNotifier struct {
	mu       sync.Mutex
	welcomed []domain.Account
}

func (n *recordingNotifier) NotifyWelcome(a domain.Account) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomed = append(n.welcomed, a)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.welcomed)
}

type stubCatalog struct {
	published map[string]bool
	err       error
	calls     int
	mu        sync.Mutex
}

func newStubCatalog(courses ...string) *stubCatalog {
	c := &stubCatalog{published: make(map[string]bool)}
	for _, id := range courses {
		c.published[id] = true
	}
	return c
}

func (c *stubCatalog) IsPublished(_ context.Context, courseID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	return c.published[courseID], nil
}

// ---------------------------------------------------------------------------
// Wiring helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newTestIdentity(repo ports.AccountRepository, n ports.WelcomeNotifier) *IdentityResolver {
	r := NewIdentityResolver(repo, n, discardLogger)
	r.hashCost = bcrypt.MinCost
	return r
}

type pipeline struct {
	accounts    *memAccountRepo
	enrollments *memEnrollmentRepo
	ledger      *memLedgerRepo
	catalog     *stubCatalog
	notifier    *recordingNotifier
	svc         ports.PurchaseService
}

func newPipeline(courses ...string) *pipeline {
	p := &pipeline{
		accounts:    newMemAccountRepo(),
		enrollments: newMemEnrollmentRepo(),
		ledger:      newMemLedgerRepo(),
		catalog:     newStubCatalog(courses...),
		notifier:    &recordingNotifier{},
	}
	p.svc = NewPurchaseService(
		newTestIdentity(p.accounts, p.notifier),
		NewEnrollmentResolver(p.enrollments, discardLogger),
		NewLedger(p.ledger, discardLogger),
		p.catalog,
		discardLogger,
	)
	return p
}
