package schedule

import (
	"github.com/maestrohq/maestro/pkg/models"
)

// Scheduler matches ordered plan steps against the idle worker pool and
// claims one worker per step.
type Scheduler struct {
	state   *State
	matcher Matcher
}

// NewScheduler creates a Scheduler over the given state. A nil matcher
// falls back to the keyword-overlap heuristic.
func NewScheduler(state *State, matcher Matcher) *Scheduler {
	if matcher == nil {
		matcher = KeywordMatcher{}
	}
	return &Scheduler{state: state, matcher: matcher}
}

// State returns the scheduler's worker state.
func (s *Scheduler) State() *State {
	return s.state
}

// Assign walks the steps in order and assigns each to the best-matching
// still-unclaimed idle worker. The pool is sorted by performance score
// descending, so equal match scores prefer the higher performer. Steps
// with no positive match are left out of the returned map; the caller
// decides whether to retry them on a later pass.
//
// Each produced assignment claims its worker with compare-and-set
// semantics, so a concurrent Assign over the same pool can lose a race for
// a worker but can never double-book one. A worker claimed in this call is
// ineligible for subsequent steps of the same call.
func (s *Scheduler) Assign(steps []string) models.Assignment {
	assignments := make(models.Assignment)
	if len(steps) == 0 {
		return assignments
	}

	pool := s.state.Idle()
	claimed := make(map[string]bool)

	for _, step := range steps {
		if _, done := assignments[step]; done {
			// Duplicate step text resolves to a single assignment.
			continue
		}

		for {
			best := s.pick(step, pool, claimed)
			if best == "" {
				break
			}
			claimed[best] = true
			if s.state.Claim(best, step) {
				assignments[step] = best
				break
			}
			// Lost the claim race; try the next candidate.
		}
	}
	return assignments
}

// pick returns the id of the unclaimed pool worker with the highest
// positive match score for step, or "" when none fits. The pool's
// performance ordering makes the first-best deterministic.
func (s *Scheduler) pick(step string, pool []*models.Worker, claimed map[string]bool) string {
	bestID := ""
	bestScore := 0.0
	for _, w := range pool {
		if claimed[w.ID] {
			continue
		}
		score := s.matcher.Match(step, w)
		if score > bestScore {
			bestScore = score
			bestID = w.ID
		}
	}
	return bestID
}
