package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/syncpress/syncpress/internal/client/config"
	"github.com/syncpress/syncpress/internal/client/notify"
	"github.com/syncpress/syncpress/internal/cmssdk"
)

// Options tune one site's engine. Zero values fall back to the config
// package defaults.
type Options struct {
	Debounce     time.Duration
	Suppress     time.Duration
	PollInterval time.Duration
	Notifier     notify.Notifier
}

// Engine runs reconciliation for a single site. Watcher events and poll
// ticks are independent sources; every load→mutate→save cycle on the
// site's state is serialized behind one mutex so concurrent triggers
// cannot lose updates.
type Engine struct {
	site     config.SiteConfig
	sdk      *cmssdk.SDK
	store    *StateStore
	watcher  *FileWatcher
	notifier notify.Notifier
	detector ChangeDetector

	pollInterval time.Duration
	typeOrder    []string // site type prefixes, longest first

	muOps sync.Mutex
	wg    sync.WaitGroup
}

func NewEngine(site config.SiteConfig, opts Options) (*Engine, error) {
	sdk, err := cmssdk.New(site.ServerURL, site.Token)
	if err != nil {
		return nil, fmt.Errorf("create sdk: %w", err)
	}

	store := NewStateStore(site.Root)

	watcher := NewFileWatcher(site.Root, site.Types)
	watcher.Exclude(store.Dir())
	if opts.Debounce > 0 {
		watcher.SetDebounce(opts.Debounce)
	} else {
		watcher.SetDebounce(config.DefaultDebounce)
	}
	if opts.Suppress > 0 {
		watcher.SetSuppressWindow(opts.Suppress)
	} else {
		watcher.SetSuppressWindow(config.DefaultSuppress)
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.SlogNotifier{}
	}

	// longest prefix first, so overlapping prefixes resolve the same way
	// here as in the watcher
	prefixes := make([]string, 0, len(site.Types))
	for p := range site.Types {
		prefixes = append(prefixes, p)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	return &Engine{
		site:         site,
		sdk:          sdk,
		store:        store,
		watcher:      watcher,
		notifier:     notifier,
		pollInterval: opts.PollInterval,
		typeOrder:    prefixes,
	}, nil
}

// Site returns the site name for reporting.
func (e *Engine) Site() string {
	return e.site.Name
}

// Acquire takes the site's state lock. Every command that touches the
// state must hold it for its lifetime.
func (e *Engine) Acquire() error {
	return e.store.Acquire()
}

func (e *Engine) Release() error {
	return e.store.Release()
}

// Start runs the watch loop: an initial poll, then the watcher and the
// poll timer until ctx is cancelled. The caller must have Acquired the
// site lock.
func (e *Engine) Start(ctx context.Context) error {
	slog.Info("sync start", "site", e.site.Name, "root", e.site.Root)
	e.notifier.Notify(notify.NewEvent(notify.KindConnected, e.site.Name, "", e.sdk.BaseURL()))

	slog.Info("running initial poll", "site", e.site.Name)
	if _, err := e.PollOnce(ctx, false); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("initial poll failed", "site", e.site.Name, "error", err)
	}

	if err := e.watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	if e.pollInterval > 0 {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()

			// a timer, not a ticker, so a slow poll never queues ticks
			timer := time.NewTimer(e.pollInterval)
			defer timer.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-timer.C:
					if _, err := e.PollOnce(ctx, false); err != nil && !errors.Is(err, context.Canceled) {
						slog.Error("poll failed", "site", e.site.Name, "error", err)
					}
					timer.Reset(e.pollInterval)
				}
			}
		}()
	} else {
		slog.Info("polling disabled", "site", e.site.Name)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.handleWatcherEvents(ctx)
	}()

	return nil
}

// Stop tears the engine down. In-flight remote calls are not drained.
func (e *Engine) Stop() {
	slog.Info("sync stop", "site", e.site.Name)
	e.watcher.Stop()
	e.wg.Wait()
}

func (e *Engine) handleWatcherEvents(ctx context.Context) {
	events := e.watcher.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := e.handleLocalEvent(ctx, event); err != nil {
				slog.Error("local event failed", "site", e.site.Name, "path", event.Path, "error", err)
			}
		}
	}
}

// handleLocalEvent runs the push side of reconciliation for one debounced
// watcher event.
func (e *Engine) handleLocalEvent(ctx context.Context, event Event) error {
	e.muOps.Lock()
	defer e.muOps.Unlock()

	state, err := e.store.Load()
	if err != nil {
		return err
	}

	tracked := state.Files[event.Path]

	if event.Kind == EventRemove {
		if tracked == nil {
			return nil
		}
		// local delete only stops tracking; the remote item is kept so an
		// accidental rm is never destructive
		delete(state.Files, event.Path)
		if err := e.store.Save(state); err != nil {
			return err
		}
		slog.Warn("local file removed, tracking stopped; remote item kept",
			"site", e.site.Name, "path", event.Path, "remoteId", tracked.RemoteID)
		e.notifier.Notify(notify.NewEvent(notify.KindStatus, e.site.Name, event.Path,
			"local file removed; remote item kept, pull to restore"))
		return nil
	}

	res := ReconcileLocal(tracked)
	if res.Decision != DecisionPush {
		slog.Warn("untracked file not auto-pushed, use `syncpress create`",
			"site", e.site.Name, "path", event.Path)
		e.notifier.Notify(notify.NewEvent(notify.KindStatus, e.site.Name, event.Path, res.Reason))
		return nil
	}

	return e.pushOne(ctx, state, event.Path, false)
}

// absPath maps a relative content path onto the site's root.
func (e *Engine) absPath(relPath string) string {
	return filepath.Join(e.site.Root, filepath.FromSlash(relPath))
}

// contentTypeFor resolves a relative path through the site's prefix
// table, longest prefix first, and returns the matched prefix alongside
// the content type.
func (e *Engine) contentTypeFor(relPath string) (prefix, contentType string, ok bool) {
	for _, p := range e.typeOrder {
		if len(relPath) > len(p) && strings.HasPrefix(relPath, p) {
			return p, e.site.Types[p], true
		}
	}
	return "", "", false
}
