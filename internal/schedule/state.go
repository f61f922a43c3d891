// Package schedule assigns plan steps to capability-matching workers.
package schedule

import (
	"fmt"
	"sort"
	"sync"

	"github.com/maestrohq/maestro/pkg/models"
)

// State holds the worker roster and serializes status transitions. Worker
// claims use compare-and-set semantics: a worker is claimed only if it is
// still idle at claim time, so concurrent assignment calls cannot
// double-book a worker.
type State struct {
	mu      sync.RWMutex
	workers map[string]*models.Worker
	order   []string
}

// NewState creates scheduler state from a roster. Worker statuses default
// to idle when unset.
func NewState(workers []*models.Worker) (*State, error) {
	s := &State{workers: make(map[string]*models.Worker)}
	for _, w := range workers {
		if w.ID == "" {
			return nil, fmt.Errorf("worker %q has no id", w.Name)
		}
		if _, exists := s.workers[w.ID]; exists {
			return nil, fmt.Errorf("duplicate worker id %q", w.ID)
		}
		cp := w.Clone()
		if cp.Status == "" {
			cp.Status = models.WorkerIdle
		}
		if !cp.Status.Valid() {
			return nil, fmt.Errorf("worker %q has invalid status %q", w.ID, w.Status)
		}
		s.workers[cp.ID] = cp
		s.order = append(s.order, cp.ID)
	}
	return s, nil
}

// Workers returns a snapshot of all workers in roster order.
func (s *State) Workers() []*models.Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Worker, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.workers[id].Clone())
	}
	return out
}

// Idle returns a snapshot of idle workers sorted by performance score
// descending; roster order breaks performance ties.
func (s *State) Idle() []*models.Worker {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Worker
	for _, id := range s.order {
		if w := s.workers[id]; w.Status == models.WorkerIdle {
			out = append(out, w.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PerformanceScore > out[j].PerformanceScore
	})
	return out
}

// Claim flips a worker from idle to busy and records its task. Returns
// false without mutating anything if the worker is unknown or no longer
// idle.
func (s *State) Claim(workerID, step string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workers[workerID]
	if !ok || w.Status != models.WorkerIdle {
		return false
	}
	w.Status = models.WorkerBusy
	w.CurrentTask = step
	return true
}

// OnTaskComplete transitions a busy worker back to idle and clears its
// task. This is the only way a worker returns to the idle pool; how task
// completion is detected is the caller's concern.
func (s *State) OnTaskComplete(workerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workers[workerID]
	if !ok {
		return fmt.Errorf("unknown worker %q", workerID)
	}
	if w.Status != models.WorkerBusy {
		return fmt.Errorf("worker %q is %s, not busy", workerID, w.Status)
	}
	w.Status = models.WorkerIdle
	w.CurrentTask = ""
	return nil
}

// Block marks a worker as blocked so it leaves the eligible pool.
// A blocked worker keeps its current task, if any.
func (s *State) Block(workerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.workers[workerID]
	if !ok {
		return fmt.Errorf("unknown worker %q", workerID)
	}
	w.Status = models.WorkerBlocked
	return nil
}
