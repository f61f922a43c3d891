package ingest

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStaticSourceReplaysAndCloses(t *testing.T) {
	source := NewStaticSource([]RawItem{
		{ID: "a", Source: "test", Text: "first"},
		{ID: "b", Source: "test", Text: "second"},
	})

	var got []RawItem
	for item := range source.Items() {
		got = append(got, item)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("items out of order: %v", got)
	}
}

func TestDirSourceEmitsDroppedFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")

	source, err := NewDirSource(dir)
	if err != nil {
		t.Fatalf("new dir source: %v", err)
	}
	defer source.Close()

	if err := os.WriteFile(filepath.Join(dir, "note.txt"), []byte("urgent deploy failed"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	select {
	case item := <-source.Items():
		if item.Text != "urgent deploy failed" {
			t.Errorf("unexpected text: %q", item.Text)
		}
		if item.Source != "inbox" {
			t.Errorf("expected source tag 'inbox', got %q", item.Source)
		}
		if item.ID != "note.txt" {
			t.Errorf("expected id 'note.txt', got %q", item.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dropped file")
	}
}

func TestDirSourceSkipsHiddenFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "inbox")

	source, err := NewDirSource(dir)
	if err != nil {
		t.Fatalf("new dir source: %v", err)
	}
	defer source.Close()

	if err := os.WriteFile(filepath.Join(dir, ".hidden"), []byte("skip me"), 0644); err != nil {
		t.Fatalf("write hidden: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "seen.txt"), []byte("see me"), 0644); err != nil {
		t.Fatalf("write visible: %v", err)
	}

	select {
	case item := <-source.Items():
		if item.ID != "seen.txt" {
			t.Errorf("expected only the visible file, got %q", item.ID)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for visible file")
	}
}

func TestDirSourceCloseTwice(t *testing.T) {
	source, err := NewDirSource(filepath.Join(t.TempDir(), "inbox"))
	if err != nil {
		t.Fatalf("new dir source: %v", err)
	}

	if err := source.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := source.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
