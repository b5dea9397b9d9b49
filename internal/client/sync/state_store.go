package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/syncpress/syncpress/internal/utils"
)

const (
	stateDirName  = ".syncpress"
	stateFileName = "state.json"
	lockFileName  = "state.lock"
)

// StateStore persists a site's SyncState as a JSON file under the content
// root. Saves are atomic (temp + rename) so a failed write never corrupts
// the previous valid state. A file lock enforces the one-reconciler-per-site
// assumption.
type StateStore struct {
	root string
	path string
	lock *flock.Flock
}

func NewStateStore(root string) *StateStore {
	dir := filepath.Join(root, stateDirName)
	return &StateStore{
		root: root,
		path: filepath.Join(dir, stateFileName),
		lock: flock.New(filepath.Join(dir, lockFileName)),
	}
}

// Dir returns the state directory, so the watcher can exclude it.
func (s *StateStore) Dir() string {
	return filepath.Join(s.root, stateDirName)
}

// Acquire takes the site lock. It fails fast if another process holds it.
func (s *StateStore) Acquire() error {
	if err := utils.EnsureDir(s.Dir()); err != nil {
		return fmt.Errorf("state dir: %w", err)
	}
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock state: %w", err)
	}
	if !ok {
		return fmt.Errorf("site %s is already being synced by another process", s.root)
	}
	return nil
}

func (s *StateStore) Release() error {
	return s.lock.Unlock()
}

// Load reads the persisted state. A missing file yields an empty state.
// Unknown fields in the file are ignored.
func (s *StateStore) Load() (*SyncState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSyncState(), nil
		}
		return nil, fmt.Errorf("read state %s: %w", s.path, err)
	}

	var state SyncState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", s.path, err)
	}
	if state.Files == nil {
		state.Files = make(map[string]*TrackedFile)
	}
	return &state, nil
}

func (s *StateStore) Save(state *SyncState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := utils.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("save state %s: %w", s.path, err)
	}
	return nil
}
