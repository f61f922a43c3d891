package thought

import (
	"context"
	"strings"
	"testing"

	"github.com/maestrohq/maestro/pkg/models"
)

func addNode(t *Tree, id, parentID, thought string, confidence float64) *models.ThoughtNode {
	score := confidence
	depth := 0
	if parentID != "" {
		parent := t.Node(parentID)
		score = parent.PathScore * confidence
		depth = parent.Depth + 1
	}
	node := &models.ThoughtNode{
		ID:         id,
		ParentID:   parentID,
		Thought:    thought,
		Confidence: confidence,
		PathScore:  score,
		Depth:      depth,
	}
	t.add(node)
	return node
}

func TestBestPathEmptyTree(t *testing.T) {
	path, score := BestPath(NewTree())
	if len(path) != 0 {
		t.Errorf("expected empty path, got %v", path)
	}
	if score != 0.0 {
		t.Errorf("expected score 0.0, got %v", score)
	}

	path, score = BestPath(nil)
	if len(path) != 0 || score != 0.0 {
		t.Errorf("nil tree: expected empty path and 0.0, got %v / %v", path, score)
	}
}

func TestBestPathPicksHighestScore(t *testing.T) {
	tree := NewTree()
	addNode(tree, "root", "", "goal", 1.0)
	addNode(tree, "a", "root", "step a", 0.9)
	addNode(tree, "b", "root", "step b", 0.5)
	addNode(tree, "a1", "a", "step a1", 0.8)

	path, score := BestPath(tree)

	// Scores only shrink with depth, so the winner is the strongest
	// depth-1 branch rather than its weaker extension.
	want := []string{"goal", "step a"}
	if len(path) != len(want) {
		t.Fatalf("expected path %v, got %v", want, path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Errorf("path[%d]: expected %q, got %q", i, want[i], path[i])
		}
	}
	if score != 0.9 {
		t.Errorf("expected score %v, got %v", 0.9, score)
	}
}

func TestBestPathNeverBelowAnyNode(t *testing.T) {
	exp := newTestExpander(t, NewTemplateBrainstormer())
	tree, err := exp.Expand(context.Background(), "fix the flaky test", 3)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}

	_, score := BestPath(tree)
	for _, node := range tree.Nodes() {
		if node.Root() {
			continue
		}
		if score < node.PathScore {
			t.Errorf("best score %v is below node %q's own score %v", score, node.Thought, node.PathScore)
		}
	}
}

func TestBestPathStopsEarlyWhenDescendantsAreWorse(t *testing.T) {
	// Deeper always scores lower with confidence < 1, so a node's own
	// score must win over its subtree when no child improves on it.
	tree := NewTree()
	addNode(tree, "root", "", "goal", 1.0)
	a := addNode(tree, "a", "root", "step a", 0.9)
	addNode(tree, "a1", "a", "step a1", 0.4)

	path, score := BestPath(tree)
	if score != a.PathScore {
		t.Fatalf("expected score %v (stop at step a), got %v", a.PathScore, score)
	}
	if len(path) != 2 || path[1] != "step a" {
		t.Errorf("expected path [goal, step a], got %v", path)
	}
}

func TestBestPathTieKeepsFirstDiscovered(t *testing.T) {
	tree := NewTree()
	addNode(tree, "root", "", "goal", 1.0)
	addNode(tree, "a", "root", "first", 0.7)
	addNode(tree, "b", "root", "second", 0.7)

	path, _ := BestPath(tree)
	if len(path) != 2 || path[1] != "first" {
		t.Errorf("expected tie to keep the first path, got %v", path)
	}
}

func TestBestPathForest(t *testing.T) {
	tree := NewTree()
	addNode(tree, "r1", "", "goal one", 1.0)
	addNode(tree, "r1a", "r1", "weak step", 0.3)
	addNode(tree, "r2", "", "goal two", 1.0)
	addNode(tree, "r2a", "r2", "strong step", 0.95)

	path, score := BestPath(tree)
	if score != 0.95 {
		t.Fatalf("expected global maximum 0.95, got %v", score)
	}
	if len(path) != 2 || path[0] != "goal two" {
		t.Errorf("expected path from the second root, got %v", path)
	}
}

func TestExpandScenarioDepthTwo(t *testing.T) {
	exp := newTestExpander(t, NewTemplateBrainstormer())

	tree, err := exp.Expand(context.Background(), "build a profitable app", 2)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}

	// Depth-1 candidates carry MVP/architecture wording with confidence in
	// [0.7, 0.9].
	var found bool
	for _, node := range tree.Nodes() {
		if node.Depth != 1 {
			continue
		}
		if node.Confidence < 0.7 || node.Confidence > 0.9 {
			t.Errorf("depth-1 candidate %q has confidence %v outside [0.7,0.9]", node.Thought, node.Confidence)
		}
		if strings.Contains(node.Thought, "MVP") || strings.Contains(node.Thought, "architecture") {
			found = true
		}
	}
	if !found {
		t.Error("expected a depth-1 candidate mentioning MVP or architecture")
	}

	path, score := BestPath(tree)
	if len(path) != 2 || path[0] != "build a profitable app" {
		t.Fatalf("expected a two-element path starting at the goal, got %v", path)
	}
	if score < 0.7 || score > 0.9 {
		t.Errorf("expected score of the chosen step's confidence, got %v", score)
	}
}
