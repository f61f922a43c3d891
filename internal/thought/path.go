package thought

import "github.com/maestrohq/maestro/pkg/models"

// BestPath returns the root-to-node sequence of thoughts with the maximum
// cumulative path score, and that score. Stopping at an internal node is a
// valid path, so the result is never worse than any single step's own
// score. The goal alone is not a plan: a root with children always yields
// at least one step, and only a childless root falls back to itself. With
// multiple roots the global maximum across roots wins. Ties keep the first
// path discovered in traversal order. An empty tree yields an empty
// sequence and score 0.
func BestPath(tree *Tree) ([]string, float64) {
	if tree == nil {
		return nil, 0.0
	}

	var best []string
	bestScore := 0.0
	for _, root := range tree.Roots() {
		children := tree.Children(root.ID)
		if len(children) == 0 {
			if root.PathScore > bestScore {
				best = []string{root.Thought}
				bestScore = root.PathScore
			}
			continue
		}
		for _, child := range children {
			path, score := bestFrom(tree, child)
			if score > bestScore {
				best = append([]string{root.Thought}, path...)
				bestScore = score
			}
		}
	}
	return best, bestScore
}

// bestFrom computes the best path in the subtree rooted at node. The
// node's own path score competes against its descendants' best paths.
func bestFrom(tree *Tree, node *models.ThoughtNode) ([]string, float64) {
	bestPath := []string{node.Thought}
	bestScore := node.PathScore

	for _, child := range tree.Children(node.ID) {
		path, score := bestFrom(tree, child)
		if score > bestScore {
			bestScore = score
			bestPath = append([]string{node.Thought}, path...)
		}
	}
	return bestPath, bestScore
}
