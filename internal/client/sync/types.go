package sync

import "time"

// TrackedFile is the unit of reconciliation state: it ties a local path to
// a remote identity and the digests both sides agreed on at the last
// successful sync. Immediately after any pull or push LocalDigest equals
// RemoteDigest; divergence from the observed digests is what drives
// reconciliation.
type TrackedFile struct {
	RemoteID     string    `json:"id,omitempty"`
	ContentType  string    `json:"type"`
	LocalDigest  string    `json:"localDigest"`
	RemoteDigest string    `json:"remoteDigest"`
	LastSync     time.Time `json:"lastSync"`
}

// SyncState is the persisted aggregate for one site: path → TrackedFile.
// It is owned by the StateStore; other components go through load/save and
// never hold a long-lived reference.
type SyncState struct {
	Files    map[string]*TrackedFile `json:"files"`
	LastSync time.Time               `json:"lastSync"`
}

func NewSyncState() *SyncState {
	return &SyncState{
		Files: make(map[string]*TrackedFile),
	}
}
