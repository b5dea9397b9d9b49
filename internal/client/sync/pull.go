package sync

import (
	"fmt"
	"os"
	"time"

	"github.com/syncpress/syncpress/internal/utils"
)

// executePull writes a remote item's canonical text to disk and records
// local = remote = the observed remote digest. The path is suppressed in
// the watcher before the write so the engine never pushes its own writes
// back. Callers hold muOps.
func (e *Engine) executePull(state *SyncState, path, contentType, remoteID, text, remoteDigest string) error {
	absPath := e.absPath(path)

	e.watcher.Suppress(path)

	if err := utils.EnsureParent(absPath); err != nil {
		return fmt.Errorf("create parent dirs: %w", err)
	}
	if err := os.WriteFile(absPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	now := time.Now().UTC()
	state.Files[path] = &TrackedFile{
		RemoteID:     remoteID,
		ContentType:  contentType,
		LocalDigest:  remoteDigest,
		RemoteDigest: remoteDigest,
		LastSync:     now,
	}
	state.LastSync = now

	if err := e.store.Save(state); err != nil {
		return err
	}
	return nil
}
