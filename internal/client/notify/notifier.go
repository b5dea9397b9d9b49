// Package notify fans sync lifecycle events out to interested listeners.
// Delivery is best-effort and at-most-once; consumers must not assume
// ordering across sites.
package notify

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindPushing   Kind = "pushing"
	KindPushed    Kind = "pushed"
	KindError     Kind = "error"
	KindConnected Kind = "connected"
	KindStatus    Kind = "status"
)

// Event is one notification about a site and, usually, a path.
type Event struct {
	ID     string    `json:"id"`
	Kind   Kind      `json:"kind"`
	Site   string    `json:"site"`
	Path   string    `json:"file,omitempty"`
	Detail string    `json:"detail,omitempty"`
	Time   time.Time `json:"time"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(kind Kind, site, path, detail string) Event {
	return Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		Site:   site,
		Path:   path,
		Detail: detail,
		Time:   time.Now().UTC(),
	}
}

// Notifier receives sync events. Implementations must not block.
type Notifier interface {
	Notify(Event)
}

// SlogNotifier logs every event through the default logger.
type SlogNotifier struct{}

func (SlogNotifier) Notify(ev Event) {
	switch ev.Kind {
	case KindError:
		slog.Warn("sync event", "kind", ev.Kind, "site", ev.Site, "file", ev.Path, "detail", ev.Detail)
	default:
		slog.Info("sync event", "kind", ev.Kind, "site", ev.Site, "file", ev.Path, "detail", ev.Detail)
	}
}

// Multi forwards events to every wrapped notifier.
type Multi []Notifier

func (m Multi) Notify(ev Event) {
	for _, n := range m {
		n.Notify(ev)
	}
}
