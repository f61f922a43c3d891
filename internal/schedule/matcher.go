package schedule

import (
	"strings"

	"github.com/maestrohq/maestro/internal/vectorspace"
	"github.com/maestrohq/maestro/pkg/models"
)

// Matcher scores how well a worker's capabilities fit a step. Higher is
// better; zero or less means no fit. The claim/lock logic never depends on
// which matcher is plugged in.
type Matcher interface {
	Match(step string, worker *models.Worker) float64
}

// KeywordMatcher is the default token-overlap heuristic: the score is the
// count of capability tags that appear as tokens in the step text.
type KeywordMatcher struct{}

// Match counts capability tags present in the step's token set.
func (KeywordMatcher) Match(step string, worker *models.Worker) float64 {
	tokens := make(map[string]bool)
	for _, tok := range vectorspace.Tokenize(step) {
		tokens[tok] = true
	}

	var count float64
	for _, tag := range worker.Capabilities {
		if tokens[strings.ToLower(tag)] {
			count++
		}
	}
	return count
}

// VectorMatcher scores by cosine similarity between the step's embedding
// and the embedding of the worker's joined capability tags. It trades the
// exact-token requirement of KeywordMatcher for fuzzy similarity.
type VectorMatcher struct {
	Space *vectorspace.VectorSpace
}

// Match embeds the step and the capability set and returns their cosine
// similarity, floored at zero.
func (m VectorMatcher) Match(step string, worker *models.Worker) float64 {
	if m.Space == nil || len(worker.Capabilities) == 0 {
		return 0
	}
	stepVec := m.Space.Embed(step)
	capVec := m.Space.Embed(strings.Join(worker.Capabilities, " "))

	sim := vectorspace.CosineSimilarity(stepVec, capVec)
	if sim < 0 {
		return 0
	}
	return sim
}
