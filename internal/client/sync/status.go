package sync

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/syncpress/syncpress/internal/client/codec"
)

// PathStatus is one row of a dry-run reconcile report.
type PathStatus struct {
	Path     string
	Decision string
	Detail   string
}

// Status computes what a poll plus a push sweep would do, without
// performing any I/O beyond reads. Remote decisions come from the same
// reconciler the live loop uses.
func (e *Engine) Status(ctx context.Context) ([]PathStatus, error) {
	e.muOps.Lock()
	defer e.muOps.Unlock()

	state, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	report := make(map[string]PathStatus)

	// remote side
	for _, prefix := range e.typeOrder {
		contentType := e.site.Types[prefix]
		items, err := e.sdk.Content.ListAll(ctx, contentType)
		if err != nil {
			slog.Error("status list failed", "site", e.site.Name, "type", contentType, "error", err)
			report[prefix] = PathStatus{Path: prefix, Decision: "error", Detail: err.Error()}
			continue
		}
		for _, item := range items {
			path := itemPath(prefix, item.Slug)
			text, err := codec.ToText(item)
			if err != nil {
				report[path] = PathStatus{Path: path, Decision: "error", Detail: err.Error()}
				continue
			}
			localDigest, readable := e.detector.FileDigest(e.absPath(path))
			res := ReconcileRemote(RemoteObservation{
				Path:          path,
				RemoteDigest:  e.detector.Digest(text),
				Tracked:       state.Files[path],
				LocalDigest:   localDigest,
				LocalReadable: readable,
			})
			report[path] = PathStatus{Path: path, Decision: res.Decision.String(), Detail: res.Reason}
		}
	}

	// local side: tracked files with unsynced edits, and untracked content
	for path, tracked := range state.Files {
		digest, readable := e.detector.FileDigest(e.absPath(path))
		if !readable {
			continue // remote side already classified it
		}
		if digest != tracked.LocalDigest {
			if existing, ok := report[path]; ok && existing.Decision == DecisionConflict.String() {
				continue
			}
			report[path] = PathStatus{Path: path, Decision: DecisionPush.String(), Detail: "local change on tracked path"}
		}
	}
	for _, path := range e.untrackedContent(state) {
		report[path] = PathStatus{Path: path, Decision: "untracked", Detail: "not auto-pushed, use `syncpress create`"}
	}

	statuses := make([]PathStatus, 0, len(report))
	for _, st := range report {
		statuses = append(statuses, st)
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Path < statuses[j].Path })
	return statuses, nil
}

// untrackedContent walks the content prefixes for recognized files that
// have no TrackedFile entry.
func (e *Engine) untrackedContent(state *SyncState) []string {
	var untracked []string
	for _, prefix := range e.typeOrder {
		dir := filepath.Join(e.site.Root, filepath.FromSlash(prefix))
		filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil //nolint:nilerr // missing prefix dirs are fine
			}
			rel, err := filepath.Rel(e.site.Root, p)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if strings.HasPrefix(filepath.Base(p), ".") {
				return nil
			}
			if match, _ := doublestar.Match(contentGlob, rel); !match {
				return nil
			}
			if state.Files[rel] == nil {
				untracked = append(untracked, rel)
			}
			return nil
		})
	}
	sort.Strings(untracked)
	return untracked
}
