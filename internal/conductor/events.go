// Package conductor sequences the pipeline: ingest, embed and score,
// cluster in batches, and on demand expand a goal into a plan and assign
// its steps to workers.
package conductor

import (
	"time"
)

// EventType represents the type of conductor event.
type EventType string

const (
	// EventItemIngested indicates an item was embedded, scored, and stored.
	EventItemIngested EventType = "item_ingested"
	// EventClusterPass indicates a clustering pass completed.
	EventClusterPass EventType = "cluster_pass"
	// EventClusterSkipped indicates a pass was skipped for lack of data.
	EventClusterSkipped EventType = "cluster_skipped"
	// EventPlanCreated indicates an orchestration produced a plan.
	EventPlanCreated EventType = "plan_created"
	// EventStepAssigned indicates a plan step was assigned to a worker.
	EventStepAssigned EventType = "step_assigned"
	// EventStepUnassigned indicates no eligible worker matched a step.
	EventStepUnassigned EventType = "step_unassigned"
	// EventWorkerFreed indicates a worker returned to the idle pool.
	EventWorkerFreed EventType = "worker_freed"
	// EventBranchFailed indicates one thought-tree branch failed to expand.
	EventBranchFailed EventType = "branch_failed"
)

// Event represents an event emitted by the conductor. The TUI and logs
// observe pipeline activity through these.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// ItemID is the id of the related item, if applicable.
	ItemID string
	// PlanID is the id of the related plan, if applicable.
	PlanID string
	// WorkerID is the id of the related worker, if applicable.
	WorkerID string
	// Message provides additional context about the event.
	Message string
	// Error contains error details for failure events.
	Error error
	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event without blocking; a full buffer drops the event
// rather than stalling the pipeline.
func (c *Conductor) emit(event Event) {
	event.Timestamp = time.Now()
	select {
	case c.events <- event:
	default:
		debugLog("[conductor] event buffer full, dropping %s", event.Type)
	}
}

// Events returns the channel conductor events are emitted on.
func (c *Conductor) Events() <-chan Event {
	return c.events
}
