package thought

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maestrohq/maestro/pkg/models"
)

// MaxDepthCeiling is the hard upper bound on tree depth. Node count grows
// as branching^depth, so deeper trees stop being an interactive planner.
const MaxDepthCeiling = 6

// DefaultBranching bounds how many candidates each node expands.
const DefaultBranching = 3

// DefaultBrainstormTimeout bounds one brainstorm call. A brainstormer may
// be a remote model call; a branch that overruns is treated as a failed
// branch, not a failed expansion.
const DefaultBrainstormTimeout = 30 * time.Second

// Tree is an arena of thought nodes indexed by id with explicit parent
// pointers. Nodes are immutable once added; the arena itself is safe for
// the concurrent appends that branch fan-out produces.
type Tree struct {
	mu       sync.RWMutex
	nodes    map[string]*models.ThoughtNode
	order    []string
	children map[string][]string
	roots    []string
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{
		nodes:    make(map[string]*models.ThoughtNode),
		children: make(map[string][]string),
	}
}

// add inserts a node into the arena.
func (t *Tree) add(node *models.ThoughtNode) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nodes[node.ID] = node
	t.order = append(t.order, node.ID)
	if node.ParentID == "" {
		t.roots = append(t.roots, node.ID)
	} else {
		t.children[node.ParentID] = append(t.children[node.ParentID], node.ID)
	}
}

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id string) *models.ThoughtNode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.nodes[id]
}

// Roots returns the root nodes in insertion order.
func (t *Tree) Roots() []*models.ThoughtNode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*models.ThoughtNode, 0, len(t.roots))
	for _, id := range t.roots {
		out = append(out, t.nodes[id])
	}
	return out
}

// Children returns the children of the given node in candidate order.
func (t *Tree) Children(id string) []*models.ThoughtNode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := t.children[id]
	out := make([]*models.ThoughtNode, 0, len(ids))
	for _, cid := range ids {
		out = append(out, t.nodes[cid])
	}
	return out
}

// Nodes returns all nodes in creation order.
func (t *Tree) Nodes() []*models.ThoughtNode {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*models.ThoughtNode, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.nodes[id])
	}
	return out
}

// Size returns the number of nodes in the tree.
func (t *Tree) Size() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// ExpanderConfig contains configuration for creating an Expander.
type ExpanderConfig struct {
	// Brainstormer proposes candidates. Required.
	Brainstormer Brainstormer
	// Branching caps candidates per node. Defaults to DefaultBranching.
	Branching int
	// Timeout bounds each brainstorm call. Defaults to
	// DefaultBrainstormTimeout.
	Timeout time.Duration
	// OnBranchFailure is called when one branch's brainstorm call fails or
	// times out. The branch's subtree is simply absent; siblings continue.
	OnBranchFailure func(thought string, err error)
}

// Expander builds thought trees by recursive candidate expansion.
// Sibling branches expand in parallel and branch failures stay isolated to
// their own subtree.
type Expander struct {
	cfg ExpanderConfig
}

// NewExpander creates an Expander. Returns an error if no brainstormer is
// configured or the branching factor exceeds sanity.
func NewExpander(cfg ExpanderConfig) (*Expander, error) {
	if cfg.Brainstormer == nil {
		return nil, fmt.Errorf("brainstormer is required")
	}
	if cfg.Branching <= 0 {
		cfg.Branching = DefaultBranching
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultBrainstormTimeout
	}
	return &Expander{cfg: cfg}, nil
}

// Expand builds a tree rooted at goal, recursively expanding candidates up
// to maxDepth. The root carries confidence 1.0 and path score 1.0; every
// child's path score is its parent's multiplied by its own confidence.
func (e *Expander) Expand(ctx context.Context, goal string, maxDepth int) (*Tree, error) {
	if goal == "" {
		return nil, fmt.Errorf("goal must not be empty")
	}
	if maxDepth < 1 || maxDepth > MaxDepthCeiling {
		return nil, fmt.Errorf("max depth must be in [1,%d], got %d", MaxDepthCeiling, maxDepth)
	}

	tree := NewTree()
	root := &models.ThoughtNode{
		ID:         nodeID(),
		Thought:    goal,
		Reasoning:  "root goal",
		Confidence: 1.0,
		PathScore:  1.0,
		Depth:      0,
	}
	tree.add(root)

	e.expand(ctx, tree, root, maxDepth)
	return tree, nil
}

// expand grows the subtree under parent. Children are added in candidate
// order, then their own subtrees expand in parallel.
func (e *Expander) expand(ctx context.Context, tree *Tree, parent *models.ThoughtNode, maxDepth int) {
	if parent.Depth >= maxDepth {
		return
	}
	if ctx.Err() != nil {
		e.branchFailed(parent.Thought, ctx.Err())
		return
	}

	callCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	candidates, err := e.cfg.Brainstormer.Candidates(callCtx, parent.Thought)
	cancel()
	if err != nil {
		e.branchFailed(parent.Thought, err)
		return
	}

	if len(candidates) > e.cfg.Branching {
		candidates = candidates[:e.cfg.Branching]
	}

	children := make([]*models.ThoughtNode, 0, len(candidates))
	for _, c := range candidates {
		conf := c.Confidence
		if conf <= 0 {
			// Out-of-contract candidate, drop it.
			continue
		}
		if conf > 1 {
			conf = 1
		}
		child := &models.ThoughtNode{
			ID:         nodeID(),
			ParentID:   parent.ID,
			Thought:    c.Text,
			Reasoning:  c.Reasoning,
			Confidence: conf,
			PathScore:  parent.PathScore * conf,
			Depth:      parent.Depth + 1,
		}
		tree.add(child)
		children = append(children, child)
	}

	var wg sync.WaitGroup
	for _, child := range children {
		wg.Add(1)
		go func(n *models.ThoughtNode) {
			defer wg.Done()
			e.expand(ctx, tree, n, maxDepth)
		}(child)
	}
	wg.Wait()
}

func (e *Expander) branchFailed(thought string, err error) {
	if e.cfg.OnBranchFailure != nil {
		e.cfg.OnBranchFailure(thought, err)
	}
}

func nodeID() string {
	return uuid.New().String()[:8]
}
