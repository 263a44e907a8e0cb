package connectorserver

import (
	"context"
	"errors"
	"sync"

	"github.com/biodt/argo-cordra-connector/pkg/runstore"
	"github.com/biodt/argo-cordra-connector/pkg/transfer"
	"gopkg.in/typ.v4/sync2"
)

// ErrQueueFull is returned by Scheduler.Enqueue when all queue slots are
// taken. Callers should translate it to a retryable error response.
var ErrQueueFull = errors.New("notification queue is full")

// Runner executes the transfer for one workflow run.
type Runner interface {
	Run(ctx context.Context, run transfer.RunRef) (transfer.RunSummary, error)
}

// Scheduler decouples the notification endpoint from the transfers it
// triggers: notifications land in a bounded queue and a fixed pool of
// workers drains it, so responding to a notification never waits on a
// transfer.
type Scheduler struct {
	runner Runner
	store  runstore.Store
	policy transfer.DuplicatePolicy

	queue      chan transfer.RunRef
	inProgress *sync2.Set[string]
	wg         sync.WaitGroup
	workers    int
}

// NewScheduler returns a stopped scheduler. Call Start to launch its
// workers.
func NewScheduler(runner Runner, store runstore.Store, config transfer.Config) *Scheduler {
	queueSize := config.QueueSize
	if queueSize < 1 {
		queueSize = 1
	}
	workers := config.MaxConcurrentRuns
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		runner:     runner,
		store:      store,
		policy:     config.OnDuplicate,
		queue:      make(chan transfer.RunRef, queueSize),
		inProgress: &sync2.Set[string]{},
		workers:    workers,
	}
}

// Start launches the worker pool. The workers stop when ctx is cancelled;
// Wait blocks until they have.
func (s *Scheduler) Start(ctx context.Context) {
	log.Debug().
		WithInt("workers", s.workers).
		WithInt("queueSize", cap(s.queue)).
		Message("Starting transfer workers.")
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.work(ctx)
		}()
	}
}

// Wait blocks until every worker has stopped.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Enqueue registers a run and queues it for transfer. The bool is false
// when the run is a duplicate that the policy says to leave alone; the
// returned entry then describes the earlier run. A full queue returns
// ErrQueueFull and leaves no trace in the registry.
func (s *Scheduler) Enqueue(ref transfer.RunRef) (bool, runstore.Run, error) {
	started, run := s.store.TryStart(ref, s.policy)
	if !started {
		return false, run, nil
	}
	select {
	case s.queue <- ref:
		return true, run, nil
	default:
		s.store.Drop(ref)
		return false, runstore.Run{}, ErrQueueFull
	}
}

func (s *Scheduler) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ref := <-s.queue:
			if !s.inProgress.Add(ref.String()) {
				// Failed to add => Already being processed. The other
				// worker has not released the run yet, so this entry is
				// a reprocess that raced its release. Keep it queued.
				s.requeue(ctx, ref)
				continue
			}
			s.process(ctx, ref)
			s.inProgress.Remove(ref.String())
		}
	}
}

func (s *Scheduler) requeue(ctx context.Context, ref transfer.RunRef) {
	select {
	case s.queue <- ref:
	case <-ctx.Done():
	}
}

func (s *Scheduler) process(ctx context.Context, ref transfer.RunRef) {
	s.store.SetRunning(ref)
	summary, err := s.runner.Run(ctx, ref)
	if err != nil {
		s.store.SetFailed(ref, summary, err)
		return
	}
	s.store.SetCompleted(ref, summary)
}
