package conductor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maestrohq/maestro/internal/cluster"
	"github.com/maestrohq/maestro/internal/ingest"
	"github.com/maestrohq/maestro/internal/schedule"
	"github.com/maestrohq/maestro/internal/thought"
	"github.com/maestrohq/maestro/internal/vectorspace"
	"github.com/maestrohq/maestro/pkg/models"
)

// Store is the persistence collaborator. The conductor never assumes a
// particular storage technology, only that writes are durable before the
// call returns.
type Store interface {
	SaveItem(item *models.Item) error
	SaveClusters(passID string, clusters []*models.Cluster) error
	SavePlan(plan *models.PlanResult) error
}

// Config contains configuration options for the Conductor.
type Config struct {
	// Space embeds and scores ingested text. Required.
	Space *vectorspace.VectorSpace
	// Brainstormer proposes candidate next-steps. Required.
	Brainstormer thought.Brainstormer
	// Scheduler assigns plan steps to workers. Required.
	Scheduler *schedule.Scheduler
	// Store persists items, clusters, and plans. Optional; nil disables
	// persistence.
	Store Store
	// ClusterEvery triggers a clustering pass after this many new items.
	// Defaults to 10.
	ClusterEvery int
	// Eps is the cosine-distance radius for clustering. Defaults to 0.35.
	Eps float64
	// MinSamples is the density threshold for clustering. Defaults to 2.
	MinSamples int
	// MaxDepth bounds thought-tree expansion. Defaults to 3.
	MaxDepth int
	// Branching caps candidates per thought. Defaults to
	// thought.DefaultBranching.
	Branching int
	// BrainstormTimeout bounds one brainstorm call.
	BrainstormTimeout time.Duration
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *DebugLogger
}

// Conductor orchestrates the pipeline. It owns no business logic beyond
// sequencing: embedding and clustering enrich the item log, and
// Orchestrate turns a goal into an assigned plan.
type Conductor struct {
	cfg      Config
	expander *thought.Expander

	// mu protects the append-only item log and the trigger counter.
	mu           sync.Mutex
	items        []*models.Item
	sinceCluster int

	// clusterMu serializes clustering passes without blocking ingestion
	// or planning.
	clusterMu sync.Mutex

	events chan Event
}

// New creates a Conductor.
func New(cfg Config) (*Conductor, error) {
	if cfg.Space == nil {
		return nil, fmt.Errorf("vector space is required")
	}
	if cfg.Brainstormer == nil {
		return nil, fmt.Errorf("brainstormer is required")
	}
	if cfg.Scheduler == nil {
		return nil, fmt.Errorf("scheduler is required")
	}
	if cfg.ClusterEvery <= 0 {
		cfg.ClusterEvery = 10
	}
	if cfg.Eps <= 0 {
		cfg.Eps = 0.35
	}
	if cfg.MinSamples <= 0 {
		cfg.MinSamples = 2
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 3
	}
	if cfg.Logger == nil {
		cfg.Logger = NopLogger()
	}
	setPackageLogger(cfg.Logger)

	c := &Conductor{
		cfg:    cfg,
		events: make(chan Event, 100),
	}

	expander, err := thought.NewExpander(thought.ExpanderConfig{
		Brainstormer: cfg.Brainstormer,
		Branching:    cfg.Branching,
		Timeout:      cfg.BrainstormTimeout,
		OnBranchFailure: func(thoughtText string, err error) {
			debugLog("[conductor] branch %q failed: %v", thoughtText, err)
			c.emit(Event{Type: EventBranchFailed, Message: thoughtText, Error: err})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create expander: %w", err)
	}
	c.expander = expander

	return c, nil
}

// Ingest embeds and scores one raw item and appends it to the item log.
// Embedding and scoring are pure, so concurrent callers only contend on
// the append itself. Every ClusterEvery-th item triggers a clustering
// pass over a snapshot of the log.
func (c *Conductor) Ingest(raw ingest.RawItem) (*models.Item, error) {
	if raw.Text == "" {
		return nil, fmt.Errorf("item text must not be empty")
	}

	id := raw.ID
	if id == "" {
		id = uuid.New().String()[:8]
	}
	ts := raw.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	item := &models.Item{
		ID:         id,
		Source:     raw.Source,
		Text:       raw.Text,
		Timestamp:  ts,
		Vector:     c.cfg.Space.Embed(raw.Text),
		Importance: c.cfg.Space.ScoreImportance(raw.Text),
	}

	c.mu.Lock()
	c.items = append(c.items, item)
	c.sinceCluster++
	trigger := c.sinceCluster >= c.cfg.ClusterEvery
	if trigger {
		c.sinceCluster = 0
	}
	c.mu.Unlock()

	if c.cfg.Store != nil {
		if err := c.cfg.Store.SaveItem(item); err != nil {
			return nil, fmt.Errorf("save item: %w", err)
		}
	}

	debugLog("[conductor] ingested item %s from %s (importance %.2f)", item.ID, item.Source, item.Importance)
	c.emit(Event{Type: EventItemIngested, ItemID: item.ID, Message: item.Source})

	if trigger {
		if _, err := c.ClusterNow(); err != nil {
			// Clustering is best-effort enrichment; a failed pass never
			// blocks ingestion.
			debugLog("[conductor] clustering pass failed: %v", err)
		}
	}

	return item, nil
}

// ClusterNow runs one clustering pass over a snapshot of the item log.
// Items ingested after the snapshot is taken wait for the next pass. With
// fewer than two items the pass reports itself skipped.
func (c *Conductor) ClusterNow() (cluster.Result, error) {
	c.mu.Lock()
	snapshot := make([]*models.Item, len(c.items))
	copy(snapshot, c.items)
	c.mu.Unlock()

	c.clusterMu.Lock()
	defer c.clusterMu.Unlock()

	engine := cluster.NewEngine()
	result, err := engine.Cluster(snapshot, c.cfg.Eps, c.cfg.MinSamples)
	if err != nil {
		return cluster.Result{}, fmt.Errorf("cluster pass: %w", err)
	}
	if !result.Performed() {
		debugLog("[conductor] clustering skipped: %d item(s) is below the minimum", len(snapshot))
		c.emit(Event{Type: EventClusterSkipped})
		return result, nil
	}

	passID := uuid.New().String()[:8]
	if c.cfg.Store != nil {
		if err := c.cfg.Store.SaveClusters(passID, result.Clusters); err != nil {
			return result, fmt.Errorf("save clusters: %w", err)
		}
		for _, item := range snapshot {
			if err := c.cfg.Store.SaveItem(item); err != nil {
				return result, fmt.Errorf("save relabeled item: %w", err)
			}
		}
	}

	debugLog("[conductor] pass %s: %d cluster(s) over %d item(s)", passID, len(result.Clusters), len(snapshot))
	c.emit(Event{
		Type:    EventClusterPass,
		Message: fmt.Sprintf("%d clusters over %d items", len(result.Clusters), len(snapshot)),
	})
	return result, nil
}

// Orchestrate expands the goal into a thought tree, selects the best path
// through it, and assigns the path's steps to workers. Clustering state
// never gates planning. The first path element is the goal itself and is
// not assigned to anyone.
func (c *Conductor) Orchestrate(ctx context.Context, goal string) (*models.PlanResult, error) {
	tree, err := c.expander.Expand(ctx, goal, c.cfg.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("expand goal: %w", err)
	}

	path, score := thought.BestPath(tree)

	var steps []string
	if len(path) > 1 {
		steps = path[1:]
	}
	assignments := c.cfg.Scheduler.Assign(steps)

	plan := &models.PlanResult{
		ID:          uuid.New().String()[:8],
		Goal:        goal,
		Nodes:       tree.Nodes(),
		Path:        path,
		PathScore:   score,
		Assignments: assignments,
		CreatedAt:   time.Now(),
	}

	if c.cfg.Store != nil {
		if err := c.cfg.Store.SavePlan(plan); err != nil {
			// A degraded plan is more useful than no plan; persistence
			// failure stays a log line.
			debugLog("[conductor] save plan %s failed: %v", plan.ID, err)
		}
	}

	for _, step := range steps {
		if workerID, ok := assignments[step]; ok {
			c.emit(Event{Type: EventStepAssigned, PlanID: plan.ID, WorkerID: workerID, Message: step})
		} else {
			c.emit(Event{Type: EventStepUnassigned, PlanID: plan.ID, Message: step})
		}
	}

	debugLog("[conductor] plan %s: %d node(s), path score %.3f, %d assignment(s)",
		plan.ID, len(plan.Nodes), score, len(assignments))
	c.emit(Event{Type: EventPlanCreated, PlanID: plan.ID, Message: goal})
	return plan, nil
}

// OnTaskComplete transitions a worker from busy back to idle. This is the
// inbound completion signal; the conductor has no knowledge of how
// completion is detected.
func (c *Conductor) OnTaskComplete(workerID string) error {
	if err := c.cfg.Scheduler.State().OnTaskComplete(workerID); err != nil {
		return err
	}
	debugLog("[conductor] worker %s freed", workerID)
	c.emit(Event{Type: EventWorkerFreed, WorkerID: workerID})
	return nil
}

// Run consumes a source until it closes or the context is canceled.
func (c *Conductor) Run(ctx context.Context, source ingest.Source) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-source.Items():
			if !ok {
				return nil
			}
			if _, err := c.Ingest(raw); err != nil {
				debugLog("[conductor] ingest %s failed: %v", raw.ID, err)
			}
		}
	}
}

// Items returns a snapshot of the item log.
func (c *Conductor) Items() []*models.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*models.Item, len(c.items))
	copy(out, c.items)
	return out
}

// Workers returns a snapshot of the worker roster.
func (c *Conductor) Workers() []*models.Worker {
	return c.cfg.Scheduler.State().Workers()
}
