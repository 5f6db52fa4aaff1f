package editor

import (
	"context"
	"slices"
	"sync"

	"resumecanvas/internal/autosave"
)

// ─────────────────────────────────────────────────────────────
// Notices: user-facing messages raised by the session
// ─────────────────────────────────────────────────────────────

// Notice is one recorded emission.
type Notice struct {
	ID          int    `json:"id"`
	Event       string `json:"event"`
	Message     string `json:"message,omitempty"`
	Dismissible bool   `json:"dismissible"`
	Data        any    `json:"data,omitempty"`
}

// Notices collects events emitted by the autosave engine so a surface can
// display them. It satisfies autosave.Emitter.
type Notices struct {
	mu     sync.Mutex
	nextID int
	items  []Notice
	next   autosave.Emitter
}

// NewNotices returns a board that also forwards every event to next,
// which may be nil.
func NewNotices(next autosave.Emitter) *Notices {
	return &Notices{next: next}
}

func (n *Notices) Emit(ctx context.Context, event string, data any) {
	n.mu.Lock()
	n.nextID++
	item := Notice{ID: n.nextID, Event: event, Data: data}
	if f, ok := data.(autosave.SaveFailure); ok {
		item.Message = f.Message
		item.Dismissible = f.Dismissible
	}
	if !item.Dismissible {
		// Only the latest informational notice per event is kept.
		n.items = slices.DeleteFunc(n.items, func(it Notice) bool {
			return !it.Dismissible && it.Event == event
		})
	}
	n.items = append(n.items, item)
	n.mu.Unlock()

	if n.next != nil {
		n.next.Emit(ctx, event, data)
	}
}

// List returns the notices not dismissed yet, oldest first.
func (n *Notices) List() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.items...)
}

// Dismiss removes a dismissible notice. It reports whether one was removed.
func (n *Notices) Dismiss(id int) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, it := range n.items {
		if it.ID == id && it.Dismissible {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return true
		}
	}
	return false
}
