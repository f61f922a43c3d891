package models

import "time"

// NoiseCluster is the reserved cluster label for items that no density
// cluster claimed during a pass.
const NoiseCluster = -1

// Item represents one ingested unit of text.
// Items are append-only: they are created with their vector and importance
// already computed and are never deleted during a run.
type Item struct {
	// ID is the unique identifier for this item.
	ID string `json:"id"`
	// Source is a free-form tag naming the feed the item came from.
	Source string `json:"source"`
	// Text is the raw ingested text.
	Text string `json:"text"`
	// Timestamp is when the item was ingested.
	Timestamp time.Time `json:"timestamp"`
	// Vector is the fixed-length embedding of Text. Its length is constant
	// across all items produced by one vector space.
	Vector []float64 `json:"vector"`
	// Importance is the scored importance of Text, in [0,1].
	Importance float64 `json:"importance"`
	// ClusterID is the label from the most recent clustering pass that
	// included this item. Nil means the item has not been clustered yet;
	// NoiseCluster means the pass labeled it as noise.
	ClusterID *int `json:"cluster_id,omitempty"`
}

// Clustered returns true if a clustering pass has labeled this item,
// including the noise label.
func (i *Item) Clustered() bool {
	return i.ClusterID != nil
}
