package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []string
	err   error
	block chan struct{}
	done  chan struct{}
}

func (s *recordingSender) SendWelcome(ctx context.Context, a domain.Account) error {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	s.mu.Lock()
	s.sent = append(s.sent, a.Email)
	s.mu.Unlock()
	if s.done != nil {
		s.done <- struct{}{}
	}
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d of %d deliveries", i, n)
		}
	}
}

func TestDispatcher_DeliversAll(t *testing.T) {
	sender := &recordingSender{done: make(chan struct{}, 16)}
	d := NewDispatcher(2, 8, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for _, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		d.NotifyWelcome(domain.Account{Email: email})
	}
	waitFor(t, sender.done, 3)

	cancel()
	d.Wait()

	if sender.count() != 3 {
		t.Errorf("expected 3 deliveries, got %d", sender.count())
	}
}

func TestDispatcher_DrainsBufferOnStop(t *testing.T) {
	const queued = 50
	sender := &recordingSender{}
	d := NewDispatcher(1, 64, sender, zerolog.Nop())

	for i := 0; i < queued; i++ {
		d.NotifyWelcome(domain.Account{Email: fmt.Sprintf("u%d@x.com", i)})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	if sender.count() != queued {
		t.Errorf("expected %d deliveries after stop, got %d", queued, sender.count())
	}
}

func TestDispatcher_StopDoesNotAbortSendInFlight(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(1, 1, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.NotifyWelcome(domain.Account{Email: "a@x.com"})

	cancel()
	go func() {
		time.Sleep(50 * time.Millisecond)
		close(sender.block)
	}()
	d.Wait()

	if sender.count() != 1 {
		t.Errorf("expected the in-flight message to be delivered, got %d", sender.count())
	}
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down"), done: make(chan struct{}, 1)}
	d := NewDispatcher(1, 1, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.NotifyWelcome(domain.Account{Email: "a@x.com"})
	waitFor(t, sender.done, 1)
}

func TestDispatcher_NotifyNeverBlocks(t *testing.T) {
	sender := &recordingSender{block: make(chan struct{})}
	d := NewDispatcher(1, 1, sender, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	returned := make(chan struct{})
	go func() {
		// One message occupies the worker, one fills the buffer, the rest drop.
		for i := 0; i < 10; i++ {
			d.NotifyWelcome(domain.Account{Email: "a@x.com"})
		}
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("NotifyWelcome blocked on a saturated queue")
	}

	close(sender.block)
	cancel()
	d.Wait()
}

func TestNewDispatcher_Defaults(t *testing.T) {
	d := NewDispatcher(0, 0, &recordingSender{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Errorf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
	if cap(d.workers[0]) != defaultBuffer {
		t.Errorf("expected buffer %d, got %d", defaultBuffer, cap(d.workers[0]))
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, 1, &recordingSender{}, zerolog.Nop())
	first := d.shardIndex("ana@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("ana@example.com"); got != first {
			t.Fatalf("shard index changed: %d then %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Errorf("shard index %d out of range", first)
	}
}
