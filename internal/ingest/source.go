// Package ingest feeds raw text items from external sources into the
// pipeline.
package ingest

import "time"

// RawItem is one unit of text before embedding and scoring.
type RawItem struct {
	// ID is an optional creator-assigned identifier. Empty means the
	// pipeline assigns one.
	ID string
	// Source tags the feed the item came from.
	Source string
	// Text is the raw content.
	Text string
	// Timestamp is when the source produced the item.
	Timestamp time.Time
}

// Source is a feed of raw items. Items closes when the source stops.
type Source interface {
	// Items returns the channel raw items arrive on.
	Items() <-chan RawItem

	// Close stops the source and closes the Items channel.
	Close() error
}

// StaticSource replays a fixed batch of items and then closes. Useful for
// one-shot CLI ingestion and tests.
type StaticSource struct {
	ch chan RawItem
}

// NewStaticSource creates a source that emits the given items.
func NewStaticSource(items []RawItem) *StaticSource {
	ch := make(chan RawItem, len(items))
	for _, item := range items {
		ch <- item
	}
	close(ch)
	return &StaticSource{ch: ch}
}

// Items returns the replay channel.
func (s *StaticSource) Items() <-chan RawItem {
	return s.ch
}

// Close is a no-op; the channel closes after replay.
func (s *StaticSource) Close() error {
	return nil
}
