package schedule

import (
	"sync"
	"testing"

	"github.com/maestrohq/maestro/pkg/models"
)

func testState(t *testing.T, workers []*models.Worker) *State {
	t.Helper()
	state, err := NewState(workers)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	return state
}

func TestAssignMatchesCapabilities(t *testing.T) {
	state := testState(t, []*models.Worker{
		{ID: "w-testing", Capabilities: []string{"testing", "tests"}, PerformanceScore: 0.9},
		{ID: "w-design", Capabilities: []string{"design"}, PerformanceScore: 0.5},
	})
	scheduler := NewScheduler(state, nil)

	assignments := scheduler.Assign([]string{"write tests", "design UI"})

	if assignments["write tests"] != "w-testing" {
		t.Errorf("expected 'write tests' -> w-testing, got %q", assignments["write tests"])
	}
	if assignments["design UI"] != "w-design" {
		t.Errorf("expected 'design UI' -> w-design, got %q", assignments["design UI"])
	}

	for _, w := range state.Workers() {
		if w.Status != models.WorkerBusy {
			t.Errorf("worker %s: expected busy, got %s", w.ID, w.Status)
		}
		if w.CurrentTask == "" {
			t.Errorf("worker %s: expected a current task", w.ID)
		}
	}
}

func TestAssignLeavesUnmatchedStepsOut(t *testing.T) {
	state := testState(t, []*models.Worker{
		{ID: "w-1", Capabilities: []string{"design"}, PerformanceScore: 0.9},
	})
	scheduler := NewScheduler(state, nil)

	assignments := scheduler.Assign([]string{"deploy the service"})

	if _, ok := assignments["deploy the service"]; ok {
		t.Error("expected no assignment for a step with zero match")
	}
	for _, w := range state.Workers() {
		if w.Status != models.WorkerIdle {
			t.Errorf("worker %s: expected to stay idle, got %s", w.ID, w.Status)
		}
	}
}

func TestAssignPrefersHigherPerformanceOnTie(t *testing.T) {
	state := testState(t, []*models.Worker{
		{ID: "w-slow", Capabilities: []string{"testing"}, PerformanceScore: 0.4},
		{ID: "w-fast", Capabilities: []string{"testing"}, PerformanceScore: 0.9},
	})
	scheduler := NewScheduler(state, nil)

	assignments := scheduler.Assign([]string{"run the testing suite"})
	if assignments["run the testing suite"] != "w-fast" {
		t.Errorf("expected the higher performer to win the tie, got %q", assignments["run the testing suite"])
	}
}

func TestAssignOneWorkerPerCall(t *testing.T) {
	state := testState(t, []*models.Worker{
		{ID: "w-only", Capabilities: []string{"testing", "design"}, PerformanceScore: 0.9},
	})
	scheduler := NewScheduler(state, nil)

	assignments := scheduler.Assign([]string{"write testing plan", "design UI"})
	if len(assignments) != 1 {
		t.Fatalf("expected exactly 1 assignment with a single worker, got %d", len(assignments))
	}
}

func TestAssignSkipsNonIdleWorkers(t *testing.T) {
	state := testState(t, []*models.Worker{
		{ID: "w-busy", Capabilities: []string{"testing"}, Status: models.WorkerBusy, PerformanceScore: 0.9},
		{ID: "w-blocked", Capabilities: []string{"testing"}, Status: models.WorkerBlocked, PerformanceScore: 0.8},
		{ID: "w-idle", Capabilities: []string{"testing"}, PerformanceScore: 0.1},
	})
	scheduler := NewScheduler(state, nil)

	assignments := scheduler.Assign([]string{"fix the testing harness"})
	if assignments["fix the testing harness"] != "w-idle" {
		t.Errorf("expected the only idle worker, got %q", assignments["fix the testing harness"])
	}
}

func TestOnTaskCompleteFreesWorker(t *testing.T) {
	state := testState(t, []*models.Worker{
		{ID: "w-1", Capabilities: []string{"testing"}, PerformanceScore: 0.9},
	})
	scheduler := NewScheduler(state, nil)

	scheduler.Assign([]string{"write tests for testing"})
	if err := state.OnTaskComplete("w-1"); err != nil {
		t.Fatalf("on task complete: %v", err)
	}

	w := state.Workers()[0]
	if w.Status != models.WorkerIdle || w.CurrentTask != "" {
		t.Errorf("expected worker back to idle with no task, got %s / %q", w.Status, w.CurrentTask)
	}

	if err := state.OnTaskComplete("w-1"); err == nil {
		t.Error("expected error completing a task for an idle worker")
	}
	if err := state.OnTaskComplete("nope"); err == nil {
		t.Error("expected error for unknown worker")
	}
}

func TestConcurrentAssignNeverDoubleBooks(t *testing.T) {
	workers := []*models.Worker{
		{ID: "w-1", Capabilities: []string{"testing"}, PerformanceScore: 0.9},
		{ID: "w-2", Capabilities: []string{"testing"}, PerformanceScore: 0.8},
		{ID: "w-3", Capabilities: []string{"testing"}, PerformanceScore: 0.7},
	}
	state := testState(t, workers)

	steps := []string{"testing pass one", "testing pass two", "testing pass three"}

	const callers = 8
	results := make([]models.Assignment, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			scheduler := NewScheduler(state, nil)
			results[idx] = scheduler.Assign(steps)
		}(i)
	}
	wg.Wait()

	// Every worker id appears at most once across all concurrent calls.
	seen := make(map[string]int)
	for _, assignments := range results {
		for _, workerID := range assignments {
			seen[workerID]++
		}
	}
	for id, n := range seen {
		if n > 1 {
			t.Errorf("worker %s was booked %d times", id, n)
		}
	}

	// Busy workers hold exactly one task each.
	for _, w := range state.Workers() {
		if w.Status == models.WorkerBusy && w.CurrentTask == "" {
			t.Errorf("busy worker %s has no task", w.ID)
		}
	}
}
