package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/solofunds/kyc-service/internal/api/metrics"
	"github.com/solofunds/kyc-service/internal/core/domain"
	"github.com/solofunds/kyc-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	insertTimeout  = 5 * time.Second
)

// AuditDispatcher writes step-attempt audit entries asynchronously through a
// fixed set of workers, sharded by user id with consistent hashing so each
// user's trail stays in submission order. Recording is best-effort: a full
// channel drops the entry with a warning rather than blocking a request.
type AuditDispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an entry on the worker owning its user id. Never blocks.
func (d *AuditDispatcher) Record(entry domain.AuditEntry) {
	idx := d.shardIndex(entry.UserID)
	select {
	case d.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().Str("user_id", entry.UserID).Str("step", entry.Step).
			Msg("audit queue full, entry dropped")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuditEntry) {
	workerID := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case entry, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(workerID).Set(float64(len(ch)))

			insertCtx, cancel := context.WithTimeout(context.Background(), insertTimeout)
			if err := d.repo.Insert(insertCtx, &entry); err != nil {
				d.log.Warn().Err(err).
					Str("user_id", entry.UserID).
					Str("step", entry.Step).
					Int("worker_id", id).
					Msg("failed to insert audit entry")
			}
			cancel()
		}
	}
}
