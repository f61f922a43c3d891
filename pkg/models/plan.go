package models

import "time"

// Assignment maps a plan step to the id of the worker it was assigned to.
// A step with no eligible worker is simply absent from the map.
type Assignment map[string]string

// PlanResult is the output of one orchestration run: the expanded thought
// tree, the selected path through it, and the step assignments. It is
// ephemeral; callers that want history persist it through a store.
type PlanResult struct {
	// ID is the unique identifier for this plan.
	ID string `json:"id"`
	// Goal is the goal string the plan was built for.
	Goal string `json:"goal"`
	// Nodes is the flattened thought tree, in creation order.
	Nodes []*ThoughtNode `json:"nodes"`
	// Path is the maximum-score sequence of thoughts, root first.
	Path []string `json:"path"`
	// PathScore is the cumulative score of Path.
	PathScore float64 `json:"path_score"`
	// Assignments maps assigned steps to worker ids.
	Assignments Assignment `json:"assignments"`
	// CreatedAt is when the plan was produced.
	CreatedAt time.Time `json:"created_at"`
}

// Unassigned returns the steps of the selected path (excluding the goal
// itself) that no worker was assigned to.
func (p *PlanResult) Unassigned() []string {
	var out []string
	for i, step := range p.Path {
		if i == 0 {
			continue
		}
		if _, ok := p.Assignments[step]; !ok {
			out = append(out, step)
		}
	}
	return out
}
