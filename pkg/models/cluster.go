package models

// Cluster is a group of items discovered during one clustering pass.
//
// Cluster ids are pass-local: a later pass over a changed item set may
// renumber clusters and reshuffle membership. Only membership is meaningful
// across passes; callers that need cross-pass identity must match centroids
// themselves.
type Cluster struct {
	// ID is the pass-local integer label. NoiseCluster is reserved for noise
	// and never appears here.
	ID int `json:"id"`
	// Theme is a short label derived from the members' most frequent terms.
	Theme string `json:"theme"`
	// Description is a human-readable summary of the cluster.
	Description string `json:"description"`
	// Centroid is the arithmetic mean of the member vectors.
	Centroid []float64 `json:"centroid"`
	// Size is the number of member items.
	Size int `json:"size"`
	// QualityScore measures cluster cohesion, deterministic for a fixed
	// membership.
	QualityScore float64 `json:"quality_score"`
}
