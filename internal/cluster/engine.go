// Package cluster groups item vectors into density-based clusters using
// DBSCAN semantics over cosine distance.
package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maestrohq/maestro/internal/vectorspace"
	"github.com/maestrohq/maestro/pkg/models"
)

// minVectors is the smallest batch a pass operates on. Below this the pass
// is a no-op, not an error.
const minVectors = 2

// unlabeled marks a point not yet visited during a pass.
const unlabeled = -2

// Result holds the output of one clustering pass.
type Result struct {
	// Labels has one entry per input item, in input order. NoiseCluster
	// marks noise. Empty when the pass was a no-op.
	Labels []int
	// Clusters holds the discovered clusters, one per non-noise label.
	Clusters []*models.Cluster
}

// Performed returns true if the pass actually ran over the batch.
func (r Result) Performed() bool {
	return r.Labels != nil
}

// Engine runs density-based clustering passes over item batches.
type Engine struct{}

// NewEngine creates a clustering engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Cluster runs one DBSCAN pass over the items' vectors using cosine
// distance. A point is a core point when at least minSamples points
// (itself included) lie within eps of it; clusters connect core points
// with their reachable neighbors, and unreachable points get the noise
// label.
//
// On success every input item's ClusterID is set (possibly to noise). With
// fewer than two items the call performs no work, mutates nothing, and
// returns an empty Result. Cluster ids are stable only within one pass.
func (e *Engine) Cluster(items []*models.Item, eps float64, minSamples int) (Result, error) {
	if len(items) < minVectors {
		return Result{}, nil
	}
	if minSamples < 1 {
		return Result{}, fmt.Errorf("min samples must be >= 1, got %d", minSamples)
	}

	dims := len(items[0].Vector)
	for i, item := range items {
		if len(item.Vector) != dims {
			return Result{}, fmt.Errorf("item %d: vector has %d dimensions, expected %d", i, len(item.Vector), dims)
		}
	}

	labels := e.scan(items, eps, minSamples)

	clusters := buildClusters(items, labels)

	for i, item := range items {
		label := labels[i]
		item.ClusterID = &label
	}

	return Result{Labels: labels, Clusters: clusters}, nil
}

// scan runs the label assignment. Iteration is in input order, so labels
// are deterministic for a fixed batch.
func (e *Engine) scan(items []*models.Item, eps float64, minSamples int) []int {
	n := len(items)
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unlabeled
	}

	next := 0
	for i := 0; i < n; i++ {
		if labels[i] != unlabeled {
			continue
		}

		neighbors := e.neighbors(items, i, eps)
		if len(neighbors) < minSamples {
			labels[i] = models.NoiseCluster
			continue
		}

		label := next
		next++
		labels[i] = label

		// Expand the cluster over the reachable set.
		queue := append([]int(nil), neighbors...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]

			if labels[j] == models.NoiseCluster {
				// Border point: reachable from a core point.
				labels[j] = label
			}
			if labels[j] != unlabeled {
				continue
			}
			labels[j] = label

			jn := e.neighbors(items, j, eps)
			if len(jn) >= minSamples {
				queue = append(queue, jn...)
			}
		}
	}

	return labels
}

// neighbors returns the indexes within eps cosine distance of items[i],
// including i itself.
func (e *Engine) neighbors(items []*models.Item, i int, eps float64) []int {
	var out []int
	for j := range items {
		if cosineDistance(items[i].Vector, items[j].Vector) <= eps {
			out = append(out, j)
		}
	}
	return out
}

// cosineDistance is 1 - cosine similarity, in [0,2].
func cosineDistance(a, b []float64) float64 {
	return 1.0 - vectorspace.CosineSimilarity(a, b)
}

// buildClusters computes centroid, theme, and quality per non-noise label.
func buildClusters(items []*models.Item, labels []int) []*models.Cluster {
	members := make(map[int][]*models.Item)
	var ids []int
	for i, label := range labels {
		if label == models.NoiseCluster {
			continue
		}
		if _, ok := members[label]; !ok {
			ids = append(ids, label)
		}
		members[label] = append(members[label], items[i])
	}
	sort.Ints(ids)

	clusters := make([]*models.Cluster, 0, len(ids))
	for _, id := range ids {
		group := members[id]
		theme := themeOf(group)
		clusters = append(clusters, &models.Cluster{
			ID:           id,
			Theme:        theme,
			Description:  fmt.Sprintf("%d items about %s", len(group), theme),
			Centroid:     centroid(group),
			Size:         len(group),
			QualityScore: cohesion(group),
		})
	}
	return clusters
}

// centroid is the arithmetic mean of the member vectors.
func centroid(group []*models.Item) []float64 {
	dims := len(group[0].Vector)
	mean := make([]float64, dims)
	for _, item := range group {
		for d, x := range item.Vector {
			mean[d] += x
		}
	}
	for d := range mean {
		mean[d] /= float64(len(group))
	}
	return mean
}

// cohesion is the mean pairwise cosine similarity of the members,
// deterministic for a fixed membership. A single-member group scores 1.
func cohesion(group []*models.Item) float64 {
	if len(group) < 2 {
		return 1.0
	}
	var sum float64
	var pairs int
	for i := 0; i < len(group); i++ {
		for j := i + 1; j < len(group); j++ {
			sum += vectorspace.CosineSimilarity(group[i].Vector, group[j].Vector)
			pairs++
		}
	}
	return sum / float64(pairs)
}

// themeOf labels a cluster with its members' two most frequent tokens.
// Frequency ties break alphabetically so the theme is deterministic.
func themeOf(group []*models.Item) string {
	counts := make(map[string]int)
	for _, item := range group {
		for _, tok := range vectorspace.Tokenize(item.Text) {
			if len(tok) < 3 || stopwords[tok] {
				continue
			}
			counts[tok]++
		}
	}
	if len(counts) == 0 {
		return "misc"
	}

	toks := make([]string, 0, len(counts))
	for tok := range counts {
		toks = append(toks, tok)
	}
	sort.Slice(toks, func(i, j int) bool {
		if counts[toks[i]] != counts[toks[j]] {
			return counts[toks[i]] > counts[toks[j]]
		}
		return toks[i] < toks[j]
	})

	if len(toks) > 2 {
		toks = toks[:2]
	}
	return strings.Join(toks, " / ")
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "was": true, "are": true, "has": true, "have": true,
	"from": true, "not": true, "but": true, "all": true, "its": true,
}
