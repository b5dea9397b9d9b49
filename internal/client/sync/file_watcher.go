package sync

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rjeczalik/notify"
)

const (
	defaultCleanupInterval = 15 * time.Second
	eventBufferSize        = 64

	// contentGlob restricts watching to recognized content files.
	contentGlob = "**/*.md"
)

// EventKind classifies a coalesced watcher event.
type EventKind int

const (
	EventChange EventKind = iota
	EventCreate
	EventRemove
)

func (k EventKind) String() string {
	switch k {
	case EventChange:
		return "change"
	case EventCreate:
		return "create"
	case EventRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is one debounced, type-resolved change under the content root.
type Event struct {
	Path        string // slash-separated, relative to the root
	AbsPath     string
	Kind        EventKind
	ContentType string
}

// FileWatcher observes a site's content root, debounces bursts of raw
// notifications per path, and drops events for paths the pull pipeline
// just wrote (self-write suppression). Suppression is what prevents the
// pull→push→pull loop; it is load-bearing, not an optimization.
type FileWatcher struct {
	root     string
	types    map[string]string // path prefix -> content type
	prefixes []string          // sorted, longest first
	exclude  []string          // absolute dirs to skip (state dir)

	rawEvents chan notify.EventInfo
	events    chan Event

	suppress       map[string]time.Time
	suppressMu     sync.Mutex
	suppressWindow time.Duration

	pending    map[string]Event
	timers     map[string]*time.Timer
	debounceMu sync.Mutex
	debounce   time.Duration

	cleanupInterval time.Duration
	done            chan struct{}
	wg              sync.WaitGroup
	started         bool
}

func NewFileWatcher(root string, types map[string]string) *FileWatcher {
	prefixes := make([]string, 0, len(types))
	for p := range types {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool { return len(prefixes[i]) > len(prefixes[j]) })

	return &FileWatcher{
		root:            root,
		types:           types,
		prefixes:        prefixes,
		suppress:        make(map[string]time.Time),
		suppressWindow:  2 * time.Second,
		pending:         make(map[string]Event),
		timers:          make(map[string]*time.Timer),
		debounce:        time.Second,
		cleanupInterval: defaultCleanupInterval,
		done:            make(chan struct{}),
	}
}

// SetDebounce sets the per-path debounce window.
func (fw *FileWatcher) SetDebounce(d time.Duration) {
	fw.debounce = d
}

// SetSuppressWindow sets how long Suppress hides a path.
func (fw *FileWatcher) SetSuppressWindow(d time.Duration) {
	fw.suppressWindow = d
}

// Exclude skips events under the given absolute directory.
func (fw *FileWatcher) Exclude(dir string) {
	fw.exclude = append(fw.exclude, dir)
}

func (fw *FileWatcher) Start(ctx context.Context) error {
	slog.Info("file watcher start", "dir", fw.root)

	fw.rawEvents = make(chan notify.EventInfo, eventBufferSize)
	fw.events = make(chan Event, eventBufferSize)

	recursivePath := filepath.Join(fw.root, "...")
	if err := notify.Watch(recursivePath, fw.rawEvents, notify.Create, notify.Write, notify.Remove, notify.Rename); err != nil {
		return err
	}

	fw.wg.Add(1)
	go fw.filterEvents(ctx)

	fw.wg.Add(1)
	go fw.cleanupExpired(ctx)

	fw.started = true
	return nil
}

func (fw *FileWatcher) Stop() {
	if !fw.started {
		return
	}
	slog.Info("file watcher stopping")

	close(fw.done)
	notify.Stop(fw.rawEvents)
	fw.wg.Wait()
	fw.started = false

	slog.Info("file watcher stopped")
}

func (fw *FileWatcher) Events() <-chan Event {
	return fw.events
}

// Suppress hides a relative path from the watcher for the suppression
// window. Called by the pull pipeline right before it writes the file.
func (fw *FileWatcher) Suppress(relPath string) {
	fw.suppressMu.Lock()
	defer fw.suppressMu.Unlock()
	fw.suppress[relPath] = time.Now().Add(fw.suppressWindow)
}

// isSuppressed reports whether a path is inside its suppression window.
// Entries stay until they expire so every event in the window is dropped.
func (fw *FileWatcher) isSuppressed(relPath string) bool {
	fw.suppressMu.Lock()
	defer fw.suppressMu.Unlock()

	expiry, exists := fw.suppress[relPath]
	if !exists {
		return false
	}
	if time.Now().After(expiry) {
		delete(fw.suppress, relPath)
		return false
	}
	return true
}

// resolve maps an absolute event path to a relative path and content type.
// Returns ok=false for paths that are not recognized content files.
func (fw *FileWatcher) resolve(absPath string) (relPath, contentType string, ok bool) {
	for _, dir := range fw.exclude {
		if strings.HasPrefix(absPath, dir+string(filepath.Separator)) || absPath == dir {
			return "", "", false
		}
	}

	rel, err := filepath.Rel(fw.root, absPath)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", "", false
	}
	rel = filepath.ToSlash(rel)

	// hidden files and directories are never content
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return "", "", false
		}
	}

	if match, _ := doublestar.Match(contentGlob, rel); !match {
		return "", "", false
	}

	for _, prefix := range fw.prefixes {
		if strings.HasPrefix(rel, prefix) {
			return rel, fw.types[prefix], true
		}
	}
	return "", "", false
}

func (fw *FileWatcher) filterEvents(ctx context.Context) {
	defer func() {
		// cancel pending timers; pending events are dropped on shutdown
		fw.debounceMu.Lock()
		for _, timer := range fw.timers {
			timer.Stop()
		}
		fw.debounceMu.Unlock()

		fw.wg.Done()
		close(fw.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case raw, ok := <-fw.rawEvents:
			if !ok {
				return
			}

			rel, ctype, ok := fw.resolve(raw.Path())
			if !ok {
				continue
			}

			var kind EventKind
			switch raw.Event() {
			case notify.Create:
				kind = EventCreate
			case notify.Remove, notify.Rename:
				kind = EventRemove
			default:
				kind = EventChange
			}

			fw.debounceEvent(Event{
				Path:        rel,
				AbsPath:     raw.Path(),
				Kind:        kind,
				ContentType: ctype,
			})
		}
	}
}

// debounceEvent collapses bursts of events for one path into a single
// logical event, the timer resetting on every new arrival. The latest
// event kind wins.
func (fw *FileWatcher) debounceEvent(event Event) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.timers[event.Path]; exists {
		timer.Stop()
		delete(fw.timers, event.Path)

		// a create followed by writes is still a create
		if prev, ok := fw.pending[event.Path]; ok && prev.Kind == EventCreate && event.Kind == EventChange {
			event.Kind = EventCreate
		}
	}

	fw.pending[event.Path] = event

	timer := time.AfterFunc(fw.debounce, func() {
		fw.flushEvent(event.Path)
	})
	fw.timers[event.Path] = timer
}

func (fw *FileWatcher) flushEvent(path string) {
	fw.debounceMu.Lock()
	event, exists := fw.pending[path]
	if !exists {
		fw.debounceMu.Unlock()
		return
	}
	delete(fw.pending, path)
	delete(fw.timers, path)
	fw.debounceMu.Unlock()

	// check suppression when the event actually fires, so a pull write
	// during the debounce window still gets dropped
	if fw.isSuppressed(path) {
		slog.Debug("file watcher suppressed", "path", path)
		return
	}

	select {
	case fw.events <- event:
		slog.Debug("file watcher", "event", event.Kind, "path", path)
	default:
		slog.Warn("file watcher dropped", "reason", "channel full", "path", path)
	}
}

// cleanupExpired periodically removes expired suppression entries.
func (fw *FileWatcher) cleanupExpired(ctx context.Context) {
	defer fw.wg.Done()

	ticker := time.NewTicker(fw.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-fw.done:
			return
		case <-ticker.C:
			fw.suppressMu.Lock()
			now := time.Now()
			for path, expiry := range fw.suppress {
				if now.After(expiry) {
					delete(fw.suppress, path)
				}
			}
			fw.suppressMu.Unlock()
		}
	}
}
