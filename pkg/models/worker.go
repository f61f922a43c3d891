package models

// WorkerStatus represents the current state of a worker.
type WorkerStatus string

const (
	// WorkerIdle indicates the worker can accept an assignment.
	WorkerIdle WorkerStatus = "idle"
	// WorkerBusy indicates the worker holds an assigned step.
	WorkerBusy WorkerStatus = "busy"
	// WorkerBlocked indicates the worker cannot accept assignments.
	WorkerBlocked WorkerStatus = "blocked"
)

// Valid returns true if the status is a known value.
func (s WorkerStatus) Valid() bool {
	switch s {
	case WorkerIdle, WorkerBusy, WorkerBlocked:
		return true
	default:
		return false
	}
}

// Worker is a capability-advertising executor.
//
// Invariant: Status is WorkerBusy iff CurrentTask is non-empty, and a
// worker holds at most one current task at a time.
type Worker struct {
	// ID is the unique identifier for this worker.
	ID string `json:"id"`
	// Name is the human-readable worker name.
	Name string `json:"name"`
	// Capabilities is the set of capability tags this worker advertises.
	Capabilities []string `json:"capabilities"`
	// Status is the current state of the worker.
	Status WorkerStatus `json:"status"`
	// CurrentTask is the step currently assigned to this worker, if any.
	CurrentTask string `json:"current_task,omitempty"`
	// PerformanceScore ranks workers when capability matches tie.
	PerformanceScore float64 `json:"performance_score"`
}

// HasCapability returns true if the worker advertises the given tag.
func (w *Worker) HasCapability(tag string) bool {
	for _, c := range w.Capabilities {
		if c == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the worker.
func (w *Worker) Clone() *Worker {
	cp := *w
	cp.Capabilities = append([]string(nil), w.Capabilities...)
	return &cp
}
