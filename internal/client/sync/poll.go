package sync

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/syncpress/syncpress/internal/client/codec"
	"github.com/syncpress/syncpress/internal/client/notify"
	"github.com/syncpress/syncpress/internal/cmssdk"
)

// PollOnce enumerates every remote item per content type and reconciles
// each against tracked state. Types are polled sequentially; a failure on
// one type never aborts the rest. With force set, conflicts resolve in
// favor of the remote side (forced pull).
func (e *Engine) PollOnce(ctx context.Context, force bool) (*Tally, error) {
	return e.pollPaths(ctx, force, nil)
}

// PullPaths is PollOnce restricted to the given relative paths.
func (e *Engine) PullPaths(ctx context.Context, force bool, paths []string) (*Tally, error) {
	filter := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		filter[p] = struct{}{}
	}
	return e.pollPaths(ctx, force, filter)
}

func (e *Engine) pollPaths(ctx context.Context, force bool, filter map[string]struct{}) (*Tally, error) {
	e.muOps.Lock()
	defer e.muOps.Unlock()

	tStart := time.Now()

	state, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	tally := NewTally()
	seen := make(map[string]struct{}, len(filter))
	failedPrefixes := make(map[string]struct{})

	for _, prefix := range e.typeOrder {
		contentType := e.site.Types[prefix]

		if err := ctx.Err(); err != nil {
			return tally, err
		}

		items, err := e.sdk.Content.ListAll(ctx, contentType)
		if err != nil {
			// one failed type must not abort the remaining types
			slog.Error("poll list failed", "site", e.site.Name, "type", contentType, "error", err)
			tally.Fail(prefix, err)
			failedPrefixes[prefix] = struct{}{}
			continue
		}

		for _, item := range items {
			path := itemPath(prefix, item.Slug)
			if filter != nil {
				seen[path] = struct{}{}
				if _, wanted := filter[path]; !wanted {
					continue
				}
			}
			e.reconcileItem(ctx, state, path, contentType, item, force, tally)
		}
	}

	// requested paths the remote does not have are reported, not silently
	// dropped; paths under a failed listing are already in Failures
	for path := range filter {
		if _, ok := seen[path]; ok {
			continue
		}
		if prefix, _, ok := e.contentTypeFor(path); ok {
			if _, failed := failedPrefixes[prefix]; failed {
				continue
			}
		}
		tally.Skipped = append(tally.Skipped, path)
	}
	sort.Strings(tally.Skipped)

	if tally.Pulled > 0 || len(tally.Conflicts) > 0 || tally.HasFailures() {
		slog.Info("poll", "site", e.site.Name, "tally", tally, "took", time.Since(tStart))
	}
	return tally, nil
}

// reconcileItem runs the decision table for one observed remote item and
// executes the outcome. Per-item failures are recorded and skipped over.
func (e *Engine) reconcileItem(ctx context.Context, state *SyncState, path, contentType string, item *cmssdk.Item, force bool, tally *Tally) {
	text, err := codec.ToText(item)
	if err != nil {
		slog.Error("render remote item failed", "site", e.site.Name, "path", path, "error", err)
		tally.Fail(path, err)
		return
	}
	remoteDigest := e.detector.Digest(text)

	localDigest, readable := e.detector.FileDigest(e.absPath(path))
	res := ReconcileRemote(RemoteObservation{
		Path:          path,
		RemoteDigest:  remoteDigest,
		Tracked:       state.Files[path],
		LocalDigest:   localDigest,
		LocalReadable: readable,
	})

	switch res.Decision {
	case DecisionIgnore:
		tally.Unchanged++

	case DecisionConflict:
		if force {
			// forced pull: remote wins
			if err := e.executePull(state, path, contentType, item.ID, text, remoteDigest); err != nil {
				tally.Fail(path, err)
				return
			}
			tally.Pulled++
			return
		}
		// state stays untouched so the conflict is reported again on the
		// next poll, until resolved by a forced push or pull
		slog.Warn("conflict", "site", e.site.Name, "path", path, "reason", res.Reason)
		e.notifier.Notify(notify.NewEvent(notify.KindError, e.site.Name, path, "conflict: "+res.Reason))
		tally.Conflicts = append(tally.Conflicts, path)

	case DecisionPull:
		if err := e.executePull(state, path, contentType, item.ID, text, remoteDigest); err != nil {
			slog.Error("pull failed", "site", e.site.Name, "path", path, "error", err)
			tally.Fail(path, err)
			return
		}
		slog.Info("pulled", "site", e.site.Name, "path", path, "reason", res.Reason)
		tally.Pulled++
	}
}
