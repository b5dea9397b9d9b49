package sync

// Decision is the outcome of reconciling one path. The caller performs I/O
// based on the decision; reconciliation itself is pure.
type Decision int

const (
	// DecisionIgnore means nothing changed since the last sync.
	DecisionIgnore Decision = iota

	// DecisionPull means the remote version should be written locally.
	DecisionPull

	// DecisionPush means the local version should be sent to the remote.
	DecisionPush

	// DecisionConflict means both sides changed since the last sync.
	// No file write, no state mutation; the same conflict is reported on
	// every poll until resolved by a forced push or pull.
	DecisionConflict
)

func (d Decision) String() string {
	switch d {
	case DecisionIgnore:
		return "ignore"
	case DecisionPull:
		return "pull"
	case DecisionPush:
		return "push"
	case DecisionConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// RemoteObservation is one remote item's digest compared against tracked
// state and the live local file.
type RemoteObservation struct {
	Path          string
	RemoteDigest  string       // digest of the item's canonical rendering
	Tracked       *TrackedFile // nil when the path is untracked
	LocalDigest   string       // observed digest of the local file
	LocalReadable bool         // false when the local file is missing/unreadable
}

// Resolution is a decision plus the reasoning behind it.
type Resolution struct {
	Decision Decision
	Reason   string

	// Fresh marks a pull that recreates the TrackedFile from scratch
	// (new remote item, or local file deleted underneath tracking).
	Fresh bool
}

// ReconcileRemote decides what an observed remote item implies for a path.
//
//	untracked                    → pull (fresh)
//	remote digest unchanged      → ignore
//	local file unreadable        → pull (fresh)
//	local untouched since sync   → pull
//	both sides changed           → conflict
func ReconcileRemote(obs RemoteObservation) Resolution {
	if obs.Tracked == nil {
		return Resolution{Decision: DecisionPull, Reason: "new remote item", Fresh: true}
	}

	if obs.RemoteDigest == obs.Tracked.RemoteDigest {
		return Resolution{Decision: DecisionIgnore, Reason: "remote unchanged since last sync"}
	}

	if !obs.LocalReadable {
		return Resolution{Decision: DecisionPull, Reason: "local file missing, re-pulling", Fresh: true}
	}

	if obs.LocalDigest == obs.Tracked.LocalDigest {
		return Resolution{Decision: DecisionPull, Reason: "remote changed, local untouched"}
	}

	return Resolution{Decision: DecisionConflict, Reason: "local and remote both changed since last sync"}
}

// ReconcileLocal decides what a debounced local change implies. A tracked
// path is always pushed; local edits are assumed intentional. Untracked
// paths are never auto-pushed: creating remote content is an explicit
// operation that creates the remote item before tracking starts.
func ReconcileLocal(tracked *TrackedFile) Resolution {
	if tracked == nil {
		return Resolution{Decision: DecisionIgnore, Reason: "untracked path, not auto-pushed"}
	}
	return Resolution{Decision: DecisionPush, Reason: "local change on tracked path"}
}
