package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/api/metrics"
	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
	"github.com/learnhub/enrollment-pipeline/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
	sendTimeout    = 15 * time.Second
)

// Dispatcher delivers welcome messages on a fixed set of background workers.
// It implements ports.WelcomeNotifier: NotifyWelcome never blocks, and a
// message that finds its worker's buffer full is dropped and counted.
type Dispatcher struct {
	workers []chan domain.Account
	sender  ports.MailSender
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers workers, each buffering
// up to buffer messages. Non-positive values fall back to the defaults.
func NewDispatcher(numWorkers, buffer int, sender ports.MailSender, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	d := &Dispatcher{
		workers: make([]chan domain.Account, numWorkers),
		sender:  sender,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Account, buffer)
	}
	return d
}

// Start launches all worker goroutines. When ctx is cancelled each worker
// delivers what is already buffered and returns; Wait blocks until then.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// NotifyWelcome queues a welcome message for account.
func (d *Dispatcher) NotifyWelcome(account domain.Account) {
	idx := d.shardIndex(account.Email)
	select {
	case d.workers[idx] <- account:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("account_id", account.ID).
			Str("email", account.Email).
			Int("worker_id", idx).
			Msg("notification queue full, welcome message dropped")
	}
}

// shardIndex maps an email deterministically to a worker index.
func (d *Dispatcher) shardIndex(email string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Account) {
	defer d.wg.Done()
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			d.drain(ctx, id, ch)
			return
		case account := <-ch:
			metrics.NotificationQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			d.deliver(ctx, id, account)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context, id int, ch <-chan domain.Account) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case account := <-ch:
			metrics.NotificationQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))
			d.deliver(ctx, id, account)
		default:
			return
		}
	}
}

// deliver bounds each send by sendTimeout only, so stopping the workers
// never aborts a send in flight.
func (d *Dispatcher) deliver(ctx context.Context, id int, account domain.Account) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if err := d.sender.SendWelcome(sendCtx, account); err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		d.log.Warn().Err(err).
			Str("account_id", account.ID).
			Int("worker_id", id).
			Msg("welcome message delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	d.log.Debug().Str("account_id", account.ID).Int("worker_id", id).Msg("welcome message sent")
}
