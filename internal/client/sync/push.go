package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/syncpress/syncpress/internal/client/codec"
	"github.com/syncpress/syncpress/internal/client/notify"
	"github.com/syncpress/syncpress/internal/cmssdk"
)

var ErrUntracked = errors.New("path is not tracked, use `syncpress create` to publish new content")

// PushPaths pushes fresh local content for the given tracked paths. With
// no paths it pushes every tracked path whose local content diverged from
// the last synced digest. force enables the create fallback when the
// remote id no longer exists, and pushes even when state says a conflict
// is pending (local wins).
func (e *Engine) PushPaths(ctx context.Context, force bool, paths []string) (*Tally, error) {
	e.muOps.Lock()
	defer e.muOps.Unlock()

	state, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	tally := NewTally()

	if len(paths) == 0 {
		for path, tracked := range state.Files {
			digest, readable := e.detector.FileDigest(e.absPath(path))
			if !readable || digest == tracked.LocalDigest {
				continue
			}
			paths = append(paths, path)
		}
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return tally, err
		}
		if state.Files[path] == nil {
			tally.Fail(path, ErrUntracked)
			continue
		}
		if err := e.pushOne(ctx, state, path, force); err != nil {
			tally.Fail(path, err)
			continue
		}
		tally.Pushed++
	}
	return tally, nil
}

// pushOne is the push pipeline body used by PushPaths; failures leave
// state untouched and are surfaced per path.
func (e *Engine) pushOne(ctx context.Context, state *SyncState, path string, force bool) error {
	if err := e.executePush(ctx, state, path, force); err != nil {
		slog.Error("push failed", "site", e.site.Name, "path", path, "error", err)
		e.notifier.Notify(notify.NewEvent(notify.KindError, e.site.Name, path, err.Error()))
		return err
	}
	return nil
}

// executePush sends the local content of a tracked path to the remote
// store: update when a remote id exists, create otherwise. On success
// local = remote = digest(content) and the state is persisted. Callers
// hold muOps.
func (e *Engine) executePush(ctx context.Context, state *SyncState, path string, force bool) error {
	tracked := state.Files[path]
	if tracked == nil {
		return ErrUntracked
	}

	data, err := os.ReadFile(e.absPath(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	text := string(data)

	payload, err := codec.ToPayload(text)
	if err != nil {
		return err
	}
	if payload.ID == "" {
		payload.ID = tracked.RemoteID
	}

	e.notifier.Notify(notify.NewEvent(notify.KindPushing, e.site.Name, path, ""))

	var item *cmssdk.Item
	switch {
	case tracked.RemoteID != "":
		item, err = e.sdk.Content.Update(ctx, tracked.RemoteID, payload)
		if force && errors.Is(err, cmssdk.ErrItemNotFound) {
			// the remote item vanished; forced pushes fall back to create
			slog.Warn("remote item gone, creating", "site", e.site.Name, "path", path, "remoteId", tracked.RemoteID)
			payload.ID = ""
			item, err = e.sdk.Content.Create(ctx, payload)
		}
	default:
		item, err = e.sdk.Content.Create(ctx, payload)
	}
	if err != nil {
		return err
	}

	digest := e.detector.Digest(text)
	now := time.Now().UTC()
	state.Files[path] = &TrackedFile{
		RemoteID:     item.ID,
		ContentType:  payload.Type,
		LocalDigest:  digest,
		RemoteDigest: digest,
		LastSync:     now,
	}
	state.LastSync = now

	if err := e.store.Save(state); err != nil {
		return err
	}

	slog.Info("pushed", "site", e.site.Name, "path", path, "remoteId", item.ID)
	e.notifier.Notify(notify.NewEvent(notify.KindPushed, e.site.Name, path, item.ID))
	return nil
}

// CreatePath publishes a brand-new local file: the remote item is created
// first and only then does tracking start. This is the only way an
// untracked path reaches the remote store.
func (e *Engine) CreatePath(ctx context.Context, path string) error {
	e.muOps.Lock()
	defer e.muOps.Unlock()

	state, err := e.store.Load()
	if err != nil {
		return err
	}
	if state.Files[path] != nil {
		return fmt.Errorf("%s is already tracked", path)
	}

	data, err := os.ReadFile(e.absPath(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	payload, err := codec.ToPayload(string(data))
	if err != nil {
		return err
	}
	if payload.ID != "" {
		return fmt.Errorf("%s already carries a remote id, push it instead", path)
	}
	prefix, contentType, ok := e.contentTypeFor(path)
	if !ok {
		return fmt.Errorf("%s is outside the configured content prefixes", path)
	}
	if payload.Type != contentType {
		return fmt.Errorf("%s declares type %q but lives under the %q prefix", path, payload.Type, contentType)
	}
	// the slug must reproduce the path, or the next poll would see the
	// created item under a different path than the one tracked here
	if want := slugFromPath(prefix, path); payload.Slug != want {
		return fmt.Errorf("%s declares slug %q, expected %q", path, payload.Slug, want)
	}

	e.notifier.Notify(notify.NewEvent(notify.KindPushing, e.site.Name, path, ""))

	item, err := e.sdk.Content.Create(ctx, payload)
	if err != nil {
		e.notifier.Notify(notify.NewEvent(notify.KindError, e.site.Name, path, err.Error()))
		return err
	}

	// rewrite the file with the server-assigned id so local and remote
	// renderings agree from the start
	text, err := codec.ToText(item)
	if err != nil {
		return err
	}
	if err := e.executePull(state, path, payload.Type, item.ID, text, e.detector.Digest(text)); err != nil {
		return err
	}

	slog.Info("created", "site", e.site.Name, "path", path, "remoteId", item.ID)
	e.notifier.Notify(notify.NewEvent(notify.KindPushed, e.site.Name, path, item.ID))
	return nil
}
