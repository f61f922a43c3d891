package models

// ThoughtNode is one node of a thought tree: a candidate next-step toward a
// goal, weighted by a confidence that multiplies into a cumulative path
// score.
//
// Invariant: the root's PathScore is 1.0 and every other node satisfies
// PathScore == parent.PathScore * Confidence. Because Confidence is in
// (0,1], PathScore never increases with depth.
type ThoughtNode struct {
	// ID is the unique identifier for this node.
	ID string `json:"id"`
	// ParentID is the ID of the parent node, empty for a root.
	ParentID string `json:"parent_id,omitempty"`
	// Thought is the candidate step text. For a root it is the goal itself.
	Thought string `json:"thought"`
	// Reasoning explains why this step follows from its parent.
	Reasoning string `json:"reasoning"`
	// Confidence is the per-step confidence in (0,1].
	Confidence float64 `json:"confidence"`
	// PathScore is the product of confidences from the root to this node.
	PathScore float64 `json:"path_score"`
	// Depth is the distance from the root (root is 0).
	Depth int `json:"depth"`
}

// Root returns true if this node has no parent.
func (n *ThoughtNode) Root() bool {
	return n.ParentID == ""
}
