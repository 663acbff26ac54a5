package service

import (
	"context"
	"errors"
	"testing"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

func TestEnrollmentResolver_CreatesAtZeroProgress(t *testing.T) {
	repo := newMemEnrollmentRepo()
	r := NewEnrollmentResolver(repo, discardLogger)

	e, created, err := r.ResolveOrCreate(context.Background(), "acc-1", "C1", "T1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if e.Progress != 0 || e.EnrolledAt.IsZero() || e.TransactionKey != "T1" {
		t.Errorf("unexpected enrollment: %+v", e)
	}
}

func TestEnrollmentResolver_ReenrollIsNoop(t *testing.T) {
	repo := newMemEnrollmentRepo()
	r := NewEnrollmentResolver(repo, discardLogger)
	ctx := context.Background()

	first, _, _ := r.ResolveOrCreate(ctx, "acc-1", "C1", "T1")
	second, created, err := r.ResolveOrCreate(ctx, "acc-1", "C1", "T2")
	if err != nil {
		t.Fatalf("re-enroll must not fail: %v", err)
	}
	if created || second.ID != first.ID || second.TransactionKey != "T1" {
		t.Errorf("expected the original enrollment, got %+v (created=%v)", second, created)
	}
}

func TestEnrollmentResolver_LostRaceReusesWinner(t *testing.T) {
	repo := newMemEnrollmentRepo()
	r := NewEnrollmentResolver(repo, discardLogger)

	var winner *domain.Enrollment
	repo.beforeInsert = func() {
		winner, _ = repo.Insert(context.Background(), &domain.Enrollment{AccountID: "acc-1", CourseID: "C1"})
	}

	e, created, err := r.ResolveOrCreate(context.Background(), "acc-1", "C1", "T1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created || e.ID != winner.ID {
		t.Errorf("expected winner %q, got %q (created=%v)", winner.ID, e.ID, created)
	}
	if repo.count() != 1 {
		t.Errorf("expected 1 enrollment, got %d", repo.count())
	}
}

func TestEnrollmentResolver_InsertErrorIsStorageFailure(t *testing.T) {
	repo := newMemEnrollmentRepo()
	repo.insertErr = errors.New("disk full")
	repo.failInserts = 1
	r := NewEnrollmentResolver(repo, discardLogger)

	if _, _, err := r.ResolveOrCreate(context.Background(), "acc-1", "C1", "T1"); !errors.Is(err, domain.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}
