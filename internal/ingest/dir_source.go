package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DirSource watches a drop directory and emits one raw item per created or
// rewritten file. The item's source tag is the watched directory's base
// name so multiple drop directories stay distinguishable downstream.
type DirSource struct {
	dir     string
	watcher *fsnotify.Watcher
	items   chan RawItem
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// NewDirSource creates a DirSource for the given directory, creating it if
// needed, and starts watching.
func NewDirSource(dir string) (*DirSource, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	s := &DirSource{
		dir:     dir,
		watcher: watcher,
		items:   make(chan RawItem, 64),
		done:    make(chan struct{}),
	}
	go s.watch()
	return s, nil
}

// Items returns the channel new items arrive on.
func (s *DirSource) Items() <-chan RawItem {
	return s.items
}

// watch forwards file events as raw items until Close.
func (s *DirSource) watch() {
	defer close(s.items)

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			item, ok := s.read(event.Name)
			if !ok {
				continue
			}
			select {
			case s.items <- item:
			case <-s.done:
				return
			}
		case _, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are transient; keep watching.
		}
	}
}

// read loads one dropped file into a raw item. Hidden files and
// directories are skipped.
func (s *DirSource) read(path string) (RawItem, bool) {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return RawItem{}, false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return RawItem{}, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return RawItem{}, false
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return RawItem{}, false
	}

	return RawItem{
		ID:        base,
		Source:    filepath.Base(s.dir),
		Text:      text,
		Timestamp: time.Now(),
	}, true
}

// Close stops the watcher and closes the Items channel.
func (s *DirSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.done)
	return s.watcher.Close()
}
