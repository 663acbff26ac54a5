package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/api/metrics"
	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
)

const defaultLedgerTTL = 24 * time.Hour

// LedgerCache is a read-through cache in front of the durable ledger. Ledger
// entries are immutable once written, so a cached entry never goes stale.
// Only positive lookups are cached; the durable store remains the arbiter for
// inserts. Redis failures are logged and bypassed.
type LedgerCache struct {
	client *redis.Client
	next   ports.LedgerRepository
	ttl    time.Duration
	log    zerolog.Logger
}

// NewLedgerCache wraps next with a Redis cache. A non-positive ttl falls back
// to defaultLedgerTTL.
func NewLedgerCache(client *redis.Client, next ports.LedgerRepository, ttl time.Duration, log zerolog.Logger) *LedgerCache {
	if ttl <= 0 {
		ttl = defaultLedgerTTL
	}
	return &LedgerCache{client: client, next: next, ttl: ttl, log: log}
}

func (c *LedgerCache) Find(ctx context.Context, key domain.DedupKey) (*domain.ProcessedTransaction, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	switch {
	case err == nil:
		var entry domain.ProcessedTransaction
		if jerr := json.Unmarshal(raw, &entry); jerr == nil {
			metrics.LedgerCacheTotal.WithLabelValues("hit").Inc()
			return &entry, nil
		}
		c.log.Warn().Str("dedup_key", key.String()).Msg("discarding undecodable ledger cache entry")
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn().Err(err).Str("dedup_key", key.String()).Msg("ledger cache read failed")
	}
	metrics.LedgerCacheTotal.WithLabelValues("miss").Inc()

	entry, err := c.next.Find(ctx, key)
	if err != nil {
		return nil, err
	}
	c.store(ctx, entry)
	return entry, nil
}

func (c *LedgerCache) Insert(ctx context.Context, entry *domain.ProcessedTransaction) error {
	if err := c.next.Insert(ctx, entry); err != nil {
		return err
	}
	c.store(ctx, entry)
	return nil
}

func (c *LedgerCache) store(ctx context.Context, entry *domain.ProcessedTransaction) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.key(entry.Key), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("dedup_key", entry.Key.String()).Msg("ledger cache write failed")
	}
}

func (c *LedgerCache) key(k domain.DedupKey) string {
	return "ledger:" + k.String()
}
