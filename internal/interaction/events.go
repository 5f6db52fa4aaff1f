package interaction

import "resumecanvas/internal/domain"

// Event is one pointer or keyboard input delivered to the controller.
type Event interface{ isEvent() }

// Click is a single click on an element body.
type Click struct{ ElementID string }

// ClickBackground is a click on the empty canvas.
type ClickBackground struct{}

// PointerDown starts a press on an element. OnHandle is true when the
// press landed on the element's drag handle.
type PointerDown struct {
	ElementID string
	OnHandle  bool
	Pointer   domain.Position
}

type PointerMove struct{ Pointer domain.Position }

type PointerUp struct{ Pointer domain.Position }

type DoubleClick struct{ ElementID string }

// Input replaces the draft text of the element being edited.
type Input struct{ Text string }

// Blur is focus leaving the inline editor.
type Blur struct{}

type Key string

const (
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
	KeyDelete    Key = "Delete"
	KeyBackspace Key = "Backspace"
)

type KeyDown struct {
	Key   Key
	Shift bool
}

// Cancel aborts an in-progress drag, e.g. on pointercancel.
type Cancel struct{}

func (Click) isEvent()           {}
func (ClickBackground) isEvent() {}
func (PointerDown) isEvent()     {}
func (PointerMove) isEvent()     {}
func (PointerUp) isEvent()       {}
func (DoubleClick) isEvent()     {}
func (Input) isEvent()           {}
func (Blur) isEvent()            {}
func (KeyDown) isEvent()         {}
func (Cancel) isEvent()          {}
