// Package runstore keeps an in-memory registry of every workflow run the
// connector has been notified about, together with each run's latest state
// and transfer summary. The registry is what makes duplicate notifications
// cheap to answer and what backs the status endpoints.
package runstore

import (
	"sort"
	"sync"
	"time"

	"github.com/biodt/argo-cordra-connector/pkg/transfer"
)

// Run is one registry entry.
type Run struct {
	// Ref names the workflow run.
	Ref transfer.RunRef `json:"ref"`
	// State is the run's latest state.
	State transfer.State `json:"state"`
	// Summary holds the transfer outcome. Only populated once the run has
	// finished.
	Summary *transfer.RunSummary `json:"summary,omitempty"`
	// Error holds the whole-run failure message, if any.
	Error string `json:"error,omitempty"`
	// NotifiedAt is when the connector first accepted a notification for
	// this run, or last accepted one when the run was reprocessed.
	NotifiedAt time.Time `json:"notifiedAt"`
	// UpdatedAt is when the entry last changed state.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store registers notified runs and tracks their progress.
type Store interface {
	// TryStart registers a run as pending. The returned bool is false when
	// the run should not be processed: it is already pending or in
	// progress, or it already finished and the duplicate policy says to
	// skip. The returned Run is the entry as it now stands.
	TryStart(ref transfer.RunRef, policy transfer.DuplicatePolicy) (bool, Run)

	// SetRunning marks a pending run as in progress.
	SetRunning(ref transfer.RunRef)

	// SetCompleted stores the summary of a successfully finished run.
	SetCompleted(ref transfer.RunRef, summary transfer.RunSummary)

	// SetFailed stores the summary and error of a run that failed as a
	// whole.
	SetFailed(ref transfer.RunRef, summary transfer.RunSummary, err error)

	// Drop removes a run's entry, undoing a TryStart whose run could not be
	// scheduled after all.
	Drop(ref transfer.RunRef)

	// Get looks up one run.
	Get(ref transfer.RunRef) (Run, bool)

	// List returns every known run, most recently notified first.
	List() []Run
}

// New returns an empty in-memory store.
func New() Store {
	return &store{runs: map[string]*Run{}}
}

type store struct {
	mutex sync.RWMutex
	runs  map[string]*Run
}

func (s *store) TryStart(ref transfer.RunRef, policy transfer.DuplicatePolicy) (bool, Run) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	now := time.Now()
	run, ok := s.runs[ref.String()]
	if !ok {
		run = &Run{
			Ref:        ref,
			State:      transfer.StatePending,
			NotifiedAt: now,
			UpdatedAt:  now,
		}
		s.runs[ref.String()] = run
		return true, *run
	}
	switch run.State {
	case transfer.StatePending, transfer.StateInProgress:
		// An active run is never restarted, whatever the policy says.
		return false, *run
	}
	if policy != transfer.DuplicateReprocess {
		return false, *run
	}
	*run = Run{
		Ref:        ref,
		State:      transfer.StatePending,
		NotifiedAt: now,
		UpdatedAt:  now,
	}
	return true, *run
}

func (s *store) SetRunning(ref transfer.RunRef) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if run, ok := s.runs[ref.String()]; ok {
		run.State = transfer.StateInProgress
		run.UpdatedAt = time.Now()
	}
}

func (s *store) SetCompleted(ref transfer.RunRef, summary transfer.RunSummary) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if run, ok := s.runs[ref.String()]; ok {
		run.State = transfer.StateCompleted
		run.Summary = &summary
		run.Error = ""
		run.UpdatedAt = time.Now()
	}
}

func (s *store) SetFailed(ref transfer.RunRef, summary transfer.RunSummary, err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if run, ok := s.runs[ref.String()]; ok {
		run.State = transfer.StateFailed
		run.Summary = &summary
		if err != nil {
			run.Error = err.Error()
		}
		run.UpdatedAt = time.Now()
	}
}

func (s *store) Drop(ref transfer.RunRef) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.runs, ref.String())
}

func (s *store) Get(ref transfer.RunRef) (Run, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	run, ok := s.runs[ref.String()]
	if !ok {
		return Run{}, false
	}
	return *run, true
}

func (s *store) List() []Run {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	runs := make([]Run, 0, len(s.runs))
	for _, run := range s.runs {
		runs = append(runs, *run)
	}
	sort.Slice(runs, func(i, j int) bool {
		if !runs[i].NotifiedAt.Equal(runs[j].NotifiedAt) {
			return runs[i].NotifiedAt.After(runs[j].NotifiedAt)
		}
		return runs[i].Ref.String() < runs[j].Ref.String()
	})
	return runs
}
