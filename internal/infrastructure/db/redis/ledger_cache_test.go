package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

type stubLedger struct {
	entries map[domain.DedupKey]*domain.ProcessedTransaction
	finds   int
}

func (s *stubLedger) Find(_ context.Context, key domain.DedupKey) (*domain.ProcessedTransaction, error) {
	s.finds++
	e, ok := s.entries[key]
	if !ok {
		return nil, domain.ErrTransactionNotFound
	}
	return e, nil
}

func (s *stubLedger) Insert(_ context.Context, e *domain.ProcessedTransaction) error {
	if _, ok := s.entries[e.Key]; ok {
		return domain.ErrDuplicateKey
	}
	s.entries[e.Key] = e
	return nil
}

// unreachableClient points at a port nothing listens on.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestLedgerCache_FallsThroughWhenRedisIsDown(t *testing.T) {
	inner := &stubLedger{entries: make(map[domain.DedupKey]*domain.ProcessedTransaction)}
	client := unreachableClient()
	defer client.Close()

	cache := NewLedgerCache(client, inner, time.Minute, zerolog.Nop())
	ctx := context.Background()

	if err := cache.Insert(ctx, &domain.ProcessedTransaction{Key: "T1", AccountID: "a", EnrollmentID: "e"}); err != nil {
		t.Fatalf("insert must succeed when only the cache is down: %v", err)
	}

	got, err := cache.Find(ctx, "T1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.AccountID != "a" {
		t.Errorf("unexpected entry: %+v", got)
	}
	if inner.finds != 1 {
		t.Errorf("expected the durable store to be consulted, got %d finds", inner.finds)
	}
}

func TestLedgerCache_PropagatesStoreSentinels(t *testing.T) {
	inner := &stubLedger{entries: make(map[domain.DedupKey]*domain.ProcessedTransaction)}
	client := unreachableClient()
	defer client.Close()

	cache := NewLedgerCache(client, inner, 0, zerolog.Nop())
	ctx := context.Background()

	if _, err := cache.Find(ctx, "missing"); !errors.Is(err, domain.ErrTransactionNotFound) {
		t.Errorf("expected ErrTransactionNotFound, got %v", err)
	}

	_ = cache.Insert(ctx, &domain.ProcessedTransaction{Key: "T1"})
	if err := cache.Insert(ctx, &domain.ProcessedTransaction{Key: "T1"}); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestLedgerCache_DefaultTTL(t *testing.T) {
	c := NewLedgerCache(nil, nil, 0, zerolog.Nop())
	if c.ttl != defaultLedgerTTL {
		t.Errorf("expected default ttl %v, got %v", defaultLedgerTTL, c.ttl)
	}
	if got := c.key("T1"); got != "ledger:T1" {
		t.Errorf("unexpected cache key %q", got)
	}
}
