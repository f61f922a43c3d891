// Package thought expands a goal into a bounded-depth tree of candidate
// next-steps and selects the highest-scoring path through it.
package thought

import (
	"context"
	"strings"
)

// Candidate is one proposed next-step for a thought.
type Candidate struct {
	// Text is the candidate step.
	Text string `json:"thought"`
	// Reasoning explains why the step follows.
	Reasoning string `json:"reasoning"`
	// Confidence is the per-step confidence in (0,1].
	Confidence float64 `json:"confidence"`
}

// Brainstormer proposes candidate next-steps for a thought. Implementations
// may be template lookups or generative model calls; either way they must
// return at least one candidate for any non-empty thought.
type Brainstormer interface {
	Candidates(ctx context.Context, thought string) ([]Candidate, error)
}

// templateRoute pairs trigger keywords with a fixed candidate list.
type templateRoute struct {
	keywords   []string
	candidates []Candidate
}

// TemplateBrainstormer is the built-in keyword-routed brainstormer. It
// routes a thought to the first matching template set and falls back to a
// generic set, so it always returns candidates.
type TemplateBrainstormer struct {
	routes   []templateRoute
	fallback []Candidate
}

// NewTemplateBrainstormer creates a TemplateBrainstormer with the default
// routing table.
func NewTemplateBrainstormer() *TemplateBrainstormer {
	return &TemplateBrainstormer{
		routes: []templateRoute{
			{
				keywords: []string{"app", "product", "startup", "profitable", "launch", "build"},
				candidates: []Candidate{
					{Text: "Define the MVP feature set", Reasoning: "scoping first keeps the build small", Confidence: 0.85},
					{Text: "Sketch the system architecture", Reasoning: "structural choices are cheapest before code exists", Confidence: 0.8},
					{Text: "Validate demand with a landing page", Reasoning: "real signups beat assumptions", Confidence: 0.7},
				},
			},
			{
				keywords: []string{"test", "bug", "fix", "regression", "quality"},
				candidates: []Candidate{
					{Text: "Write a failing test that reproduces the problem", Reasoning: "a reproduction pins the behavior down", Confidence: 0.9},
					{Text: "Bisect recent changes to isolate the cause", Reasoning: "narrowing the window shrinks the search", Confidence: 0.75},
					{Text: "Add regression coverage around the fix", Reasoning: "keeps the bug from returning", Confidence: 0.7},
				},
			},
			{
				keywords: []string{"data", "cluster", "analyze", "report", "metric"},
				candidates: []Candidate{
					{Text: "Collect and normalize the input data", Reasoning: "clean input decides output quality", Confidence: 0.85},
					{Text: "Run an exploratory analysis pass", Reasoning: "shape of the data drives the method", Confidence: 0.75},
					{Text: "Summarize findings for stakeholders", Reasoning: "analysis only matters once communicated", Confidence: 0.65},
				},
			},
			{
				keywords: []string{"design", "ui", "ux", "interface"},
				candidates: []Candidate{
					{Text: "Draft low-fidelity wireframes", Reasoning: "cheap iterations before pixels", Confidence: 0.8},
					{Text: "List the core user flows", Reasoning: "flows expose missing screens early", Confidence: 0.75},
					{Text: "Review against accessibility guidelines", Reasoning: "retrofitting access is expensive", Confidence: 0.6},
				},
			},
		},
		fallback: []Candidate{
			{Text: "Break the goal into milestones", Reasoning: "smaller targets are schedulable", Confidence: 0.75},
			{Text: "List the unknowns and research them", Reasoning: "unknowns sink estimates", Confidence: 0.65},
			{Text: "Draft a rough timeline", Reasoning: "a timeline forces sequencing decisions", Confidence: 0.6},
		},
	}
}

// Candidates routes the thought by keyword and returns a copy of the
// matching template set. Deterministic for identical input.
func (b *TemplateBrainstormer) Candidates(_ context.Context, thought string) ([]Candidate, error) {
	lower := strings.ToLower(thought)
	for _, route := range b.routes {
		for _, kw := range route.keywords {
			if strings.Contains(lower, kw) {
				return append([]Candidate(nil), route.candidates...), nil
			}
		}
	}
	return append([]Candidate(nil), b.fallback...), nil
}
