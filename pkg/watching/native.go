package watching

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/assetgrid/catalog/pkg/logging"
	"github.com/assetgrid/catalog/pkg/state"
)

const (
	// rawCoalescingWindow is the window over which raw fsnotify events are
	// buffered before being translated and paired into rename events. This
	// is distinct from (and much shorter than) the 100ms debounce window
	// that catalog providers apply to translated events.
	rawCoalescingWindow = 10 * time.Millisecond
	// eventsBufferSize is the buffer size for the translated events channel.
	eventsBufferSize = 256
)

// NativeSource is a recursive, native filesystem watcher backed by
// fsnotify. It watches root and every directory beneath it, adding watches
// for newly created subdirectories as they appear.
type NativeSource struct {
	watcher *fsnotify.Watcher
	events  chan Event
	logger  *logging.Logger

	stopOnce sync.Once
	done     chan struct{}
}

// NewNativeSource constructs and starts a recursive watcher rooted at root.
// If root does not exist, it returns a NoOpSource instead of failing, per
// the §4.D contract that a missing root yields a source that never emits an
// event.
func NewNativeSource(root string, logger *logging.Logger) (Source, error) {
	if logger == nil {
		logger = logging.RootLogger
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return NewNoOpSource(), nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	source := &NativeSource{
		watcher: watcher,
		events:  make(chan Event, eventsBufferSize),
		logger:  logger,
		done:    make(chan struct{}),
	}

	if err := source.addRecursive(root); err != nil {
		watcher.Close()
		return nil, err
	}

	go source.run()

	return source, nil
}

// addRecursive adds fsnotify watches for root and every directory beneath
// it, skipping entries that are no longer accessible rather than failing
// the whole walk.
func (s *NativeSource) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if addErr := s.watcher.Add(path); addErr != nil {
				s.logger.Warnf("failed to watch directory %s: %v", path, addErr)
			}
		}
		return nil
	})
}

// run is the watcher's translation loop: it buffers raw fsnotify events in
// rawCoalescingWindow windows, pairs Rename+Create pairs into a single
// Renamed event, and forwards everything else directly.
func (s *NativeSource) run() {
	defer close(s.events)
	defer s.watcher.Close()

	coalescer := state.NewCoalescer(rawCoalescingWindow)
	defer coalescer.Terminate()

	var pending []fsnotify.Event
	var mu sync.Mutex

	flush := func() {
		mu.Lock()
		batch := pending
		pending = nil
		mu.Unlock()
		s.translateBatch(batch)
	}

	for {
		select {
		case <-s.done:
			return
		case raw, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if raw.Has(fsnotify.Create) {
				if info, err := os.Stat(raw.Name); err == nil && info.IsDir() {
					if addErr := s.watcher.Add(raw.Name); addErr != nil {
						s.logger.Warnf("failed to watch new directory %s: %v", raw.Name, addErr)
					}
					if walkErr := s.addRecursive(raw.Name); walkErr != nil {
						s.logger.Warnf("failed to walk new directory %s: %v", raw.Name, walkErr)
					}
				}
			}
			mu.Lock()
			pending = append(pending, raw)
			mu.Unlock()
			coalescer.Strobe()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warnf("watch error, requesting rescan: %v", err)
			s.emit(Event{Kind: RescanRequired})
		case <-coalescer.Events():
			flush()
		}
	}
}

// translateBatch converts a batch of raw fsnotify events into Event values,
// pairing a Rename with the first unconsumed Create that follows it in the
// same batch into a single Renamed event; the Create's path is not compared
// with the Rename's.
func (s *NativeSource) translateBatch(batch []fsnotify.Event) {
	consumed := make([]bool, len(batch))

	for i, raw := range batch {
		if consumed[i] {
			continue
		}
		switch {
		case raw.Has(fsnotify.Rename):
			if j := findPairedCreate(batch, consumed, i); j != -1 {
				consumed[j] = true
				s.emit(Event{Kind: Renamed, Path: batch[j].Name, OldPath: raw.Name})
			} else {
				s.emit(Event{Kind: Deleted, Path: raw.Name})
			}
		case raw.Has(fsnotify.Create):
			s.emit(Event{Kind: Created, Path: raw.Name})
		case raw.Has(fsnotify.Write), raw.Has(fsnotify.Chmod):
			s.emit(Event{Kind: Changed, Path: raw.Name})
		case raw.Has(fsnotify.Remove):
			s.emit(Event{Kind: Deleted, Path: raw.Name})
		}
		consumed[i] = true
	}
}

// findPairedCreate looks for an unconsumed Create event elsewhere in the
// batch, which fsnotify emits alongside Rename on most backends when a path
// is renamed within a watched tree.
func findPairedCreate(batch []fsnotify.Event, consumed []bool, renameIndex int) int {
	for j, raw := range batch {
		if j == renameIndex || consumed[j] {
			continue
		}
		if raw.Has(fsnotify.Create) {
			return j
		}
	}
	return -1
}

func (s *NativeSource) emit(event Event) {
	select {
	case s.events <- event:
	case <-s.done:
	}
}

// Events implements Source.
func (s *NativeSource) Events() <-chan Event {
	return s.events
}

// Stop implements Source.
func (s *NativeSource) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
}
