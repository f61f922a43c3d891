package conductor

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/maestrohq/maestro/internal/ingest"
	"github.com/maestrohq/maestro/internal/schedule"
	"github.com/maestrohq/maestro/internal/thought"
	"github.com/maestrohq/maestro/internal/vectorspace"
	"github.com/maestrohq/maestro/pkg/models"
)

// memStore records persistence calls for assertions. failSaves makes every
// write fail, to exercise degraded paths.
type memStore struct {
	mu        sync.Mutex
	items     map[string]*models.Item
	passes    map[string][]*models.Cluster
	plans     []*models.PlanResult
	failSaves bool
}

func newMemStore() *memStore {
	return &memStore{
		items:  make(map[string]*models.Item),
		passes: make(map[string][]*models.Cluster),
	}
}

func (m *memStore) SaveItem(item *models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves {
		return fmt.Errorf("store unavailable")
	}
	m.items[item.ID] = item
	return nil
}

func (m *memStore) SaveClusters(passID string, clusters []*models.Cluster) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves {
		return fmt.Errorf("store unavailable")
	}
	m.passes[passID] = clusters
	return nil
}

func (m *memStore) SavePlan(plan *models.PlanResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSaves {
		return fmt.Errorf("store unavailable")
	}
	m.plans = append(m.plans, plan)
	return nil
}

func (m *memStore) planCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.plans)
}

func newTestConductor(t *testing.T, cfg Config) *Conductor {
	t.Helper()
	if cfg.Space == nil {
		cfg.Space = vectorspace.New(vectorspace.DefaultConfig())
	}
	if cfg.Brainstormer == nil {
		cfg.Brainstormer = thought.NewTemplateBrainstormer()
	}
	if cfg.Scheduler == nil {
		state, err := schedule.NewState(schedule.DefaultRoster())
		if err != nil {
			t.Fatalf("roster state: %v", err)
		}
		cfg.Scheduler = schedule.NewScheduler(state, nil)
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("new conductor: %v", err)
	}
	return c
}

func TestNewRequiresCollaborators(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error without a vector space")
	}
	if _, err := New(Config{Space: vectorspace.New(vectorspace.DefaultConfig())}); err == nil {
		t.Error("expected error without a brainstormer")
	}
}

func TestIngestEnrichesItem(t *testing.T) {
	c := newTestConductor(t, Config{Store: newMemStore()})

	item, err := c.Ingest(ingest.RawItem{Source: "inbox", Text: "urgent: the deploy is blocked"})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if item.ID == "" {
		t.Error("expected a generated id")
	}
	if len(item.Vector) != c.cfg.Space.Dimensions() {
		t.Errorf("expected a %d-dim vector, got %d", c.cfg.Space.Dimensions(), len(item.Vector))
	}
	if item.Importance <= 0 {
		t.Errorf("expected a positive importance for signal-bearing text, got %v", item.Importance)
	}
	if item.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}

	if _, err := c.Ingest(ingest.RawItem{Source: "inbox"}); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestIngestTriggersClusterPass(t *testing.T) {
	st := newMemStore()
	c := newTestConductor(t, Config{Store: st, ClusterEvery: 3, Eps: 0.5, MinSamples: 2})

	texts := []string{
		"the login page throws an auth error",
		"the login page shows an auth error",
		"quarterly revenue report draft",
	}
	for i, text := range texts {
		if _, err := c.Ingest(ingest.RawItem{ID: fmt.Sprintf("i-%d", i), Source: "chat", Text: text}); err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	st.mu.Lock()
	passes := len(st.passes)
	st.mu.Unlock()
	if passes != 1 {
		t.Fatalf("expected exactly one clustering pass after the third item, got %d", passes)
	}

	// Every item carries a label after the pass, noise included. The two
	// near-duplicate login items share a cluster; the report is noise.
	items := c.Items()
	for _, item := range items {
		if item.ClusterID == nil {
			t.Fatalf("item %s has no cluster label after the pass", item.ID)
		}
	}
	if *items[0].ClusterID == models.NoiseCluster || *items[0].ClusterID != *items[1].ClusterID {
		t.Errorf("expected the login items to share a cluster, got %d and %d", *items[0].ClusterID, *items[1].ClusterID)
	}
	if *items[2].ClusterID != models.NoiseCluster {
		t.Errorf("expected the report item to be noise, got %d", *items[2].ClusterID)
	}
}

func TestClusterNowSkipsSmallBatches(t *testing.T) {
	c := newTestConductor(t, Config{})
	if _, err := c.Ingest(ingest.RawItem{Source: "chat", Text: "only one item"}); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	result, err := c.ClusterNow()
	if err != nil {
		t.Fatalf("cluster: %v", err)
	}
	if result.Performed() {
		t.Error("expected the pass to be skipped below two items")
	}
}

func TestOrchestrateBuildsAssignedPlan(t *testing.T) {
	st := newMemStore()
	c := newTestConductor(t, Config{Store: st, MaxDepth: 2})

	plan, err := c.Orchestrate(context.Background(), "build a profitable app")
	if err != nil {
		t.Fatalf("orchestrate: %v", err)
	}

	if plan.Goal != "build a profitable app" {
		t.Errorf("unexpected goal %q", plan.Goal)
	}
	if len(plan.Path) < 2 || plan.Path[0] != plan.Goal {
		t.Fatalf("expected a path starting at the goal with at least one step, got %v", plan.Path)
	}
	if plan.PathScore <= 0 || plan.PathScore > 1 {
		t.Errorf("expected path score in (0,1], got %v", plan.PathScore)
	}
	for _, node := range plan.Nodes {
		if node.Root() {
			continue
		}
		parent := findNode(plan.Nodes, node.ParentID)
		if parent == nil {
			t.Fatalf("node %s has unknown parent %s", node.ID, node.ParentID)
		}
		want := parent.PathScore * node.Confidence
		if diff := node.PathScore - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("node %q path score %v, want %v", node.Thought, node.PathScore, want)
		}
	}

	// The goal itself is never assigned; steps go to matching workers that
	// are then busy.
	if _, ok := plan.Assignments[plan.Goal]; ok {
		t.Error("the goal itself must not be assigned")
	}
	for step, workerID := range plan.Assignments {
		w := findWorker(c.Workers(), workerID)
		if w == nil {
			t.Fatalf("step %q assigned to unknown worker %s", step, workerID)
		}
		if w.Status != models.WorkerBusy {
			t.Errorf("worker %s should be busy after assignment, is %s", workerID, w.Status)
		}
		if w.CurrentTask != step {
			t.Errorf("worker %s current task %q, want %q", workerID, w.CurrentTask, step)
		}
	}

	if st.planCount() != 1 {
		t.Errorf("expected the plan to be persisted once, got %d", st.planCount())
	}
}

func TestOrchestrateRejectsBadInput(t *testing.T) {
	c := newTestConductor(t, Config{})
	if _, err := c.Orchestrate(context.Background(), ""); err == nil {
		t.Error("expected error for empty goal")
	}
}

func TestOrchestrateSurvivesStoreFailure(t *testing.T) {
	st := newMemStore()
	st.failSaves = true
	c := newTestConductor(t, Config{Store: st, MaxDepth: 1})

	plan, err := c.Orchestrate(context.Background(), "analyze the churn data")
	if err != nil {
		t.Fatalf("orchestrate should outlive a persistence failure: %v", err)
	}
	if plan == nil || len(plan.Path) == 0 {
		t.Fatal("expected a usable plan despite the failed save")
	}
}

func TestOnTaskCompleteFreesWorker(t *testing.T) {
	c := newTestConductor(t, Config{MaxDepth: 1})

	plan, err := c.Orchestrate(context.Background(), "write tests for the parser")
	if err != nil {
		t.Fatalf("orchestrate: %v", err)
	}
	if len(plan.Assignments) == 0 {
		t.Fatal("expected at least one assignment")
	}

	for _, workerID := range plan.Assignments {
		if err := c.OnTaskComplete(workerID); err != nil {
			t.Fatalf("complete %s: %v", workerID, err)
		}
		w := findWorker(c.Workers(), workerID)
		if w.Status != models.WorkerIdle || w.CurrentTask != "" {
			t.Errorf("worker %s should be idle with no task, got %s %q", workerID, w.Status, w.CurrentTask)
		}
	}

	if err := c.OnTaskComplete("worker-analyst"); err == nil {
		t.Error("expected error completing a task for an idle worker")
	}
}

func TestRunConsumesSource(t *testing.T) {
	c := newTestConductor(t, Config{})
	src := ingest.NewStaticSource([]ingest.RawItem{
		{ID: "a", Source: "notes", Text: "first note"},
		{ID: "b", Source: "notes", Text: "second note"},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Run(ctx, src); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := len(c.Items()); got != 2 {
		t.Errorf("expected 2 items, got %d", got)
	}
}

func TestEventsCarryPipelineActivity(t *testing.T) {
	c := newTestConductor(t, Config{MaxDepth: 1})

	if _, err := c.Ingest(ingest.RawItem{ID: "x", Source: "chat", Text: "hello"}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if _, err := c.Orchestrate(context.Background(), "design the settings ui"); err != nil {
		t.Fatalf("orchestrate: %v", err)
	}

	seen := map[EventType]bool{}
	for {
		select {
		case ev := <-c.Events():
			seen[ev.Type] = true
		default:
			if !seen[EventItemIngested] || !seen[EventPlanCreated] || !seen[EventStepAssigned] {
				t.Errorf("missing expected events, saw %v", seen)
			}
			return
		}
	}
}

func findNode(nodes []*models.ThoughtNode, id string) *models.ThoughtNode {
	for _, n := range nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func findWorker(workers []*models.Worker, id string) *models.Worker {
	for _, w := range workers {
		if w.ID == id {
			return w
		}
	}
	return nil
}
