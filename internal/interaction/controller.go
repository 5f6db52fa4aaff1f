// Package interaction turns pointer and keyboard input into selection,
// drag and inline-edit transitions against the element store.
package interaction

import (
	"resumecanvas/internal/domain"
)

// Store is the subset of the element store the controller drives.
type Store interface {
	Element(id string) (domain.Element, bool)
	Select(id string)
	ClearSelection()
	RaiseToFront(id string)
	MoveElement(id string, pos domain.Position)
	ClampPosition(id string, pos domain.Position) domain.Position
	UpdateTextContent(id, content string)
	DeleteElement(id string)
}

type Mode int

const (
	Idle Mode = iota
	Selected
	Dragging
	Editing
)

func (m Mode) String() string {
	switch m {
	case Selected:
		return "selected"
	case Dragging:
		return "dragging"
	case Editing:
		return "editing"
	}
	return "idle"
}

// State is the controller state; ElementID is empty only in Idle.
type State struct {
	Mode      Mode
	ElementID string
}

// DragSession is owned by the controller from pointer-down to pointer-up
// or cancel.
type DragSession struct {
	ElementID     string
	StartPointer  domain.Position
	StartPosition domain.Position
	Current       domain.Position
}

// Offset returns the element position for the given pointer, unclamped.
func (d *DragSession) Offset(pointer domain.Position) domain.Position {
	return domain.Position{
		X: d.StartPosition.X + pointer.X - d.StartPointer.X,
		Y: d.StartPosition.Y + pointer.Y - d.StartPointer.Y,
	}
}

// Controller is the per-canvas interaction state machine. It is
// synchronous and not safe for concurrent use.
type Controller struct {
	store   Store
	state   State
	drag    *DragSession
	draft   string
	overlay *Overlay
	closed  bool
}

func New(store Store) *Controller {
	return &Controller{store: store, overlay: newOverlay()}
}

// State returns the current state.
func (c *Controller) State() State { return c.state }

// Drag returns the active drag session, or nil outside Dragging.
func (c *Controller) Drag() *DragSession { return c.drag }

// Draft returns the uncommitted text while Editing.
func (c *Controller) Draft() string { return c.draft }

// Overlay returns the ephemeral position layer read by renderers.
func (c *Controller) Overlay() *Overlay { return c.overlay }

// Closed reports whether the controller was torn down.
func (c *Controller) Closed() bool { return c.closed }

// Close drops any drag session and ignores all further events.
func (c *Controller) Close() {
	c.drag = nil
	c.overlay.clear()
	c.draft = ""
	c.state = State{}
	c.closed = true
}

// Handle applies one input event and returns the resulting state.
func (c *Controller) Handle(ev Event) State {
	if c.closed || ev == nil {
		return c.state
	}
	// Elements can disappear underneath the controller (e.g. deleted by
	// another surface); fall back to Idle instead of acting on a ghost.
	if c.state.Mode != Idle {
		if _, ok := c.store.Element(c.state.ElementID); !ok {
			c.resetIdle()
		}
	}

	switch e := ev.(type) {
	case Click:
		c.click(e.ElementID)
	case ClickBackground:
		c.clickBackground()
	case PointerDown:
		c.pointerDown(e)
	case PointerMove:
		c.pointerMove(e.Pointer)
	case PointerUp:
		c.pointerUp(e.Pointer)
	case DoubleClick:
		c.doubleClick(e.ElementID)
	case Input:
		if c.state.Mode == Editing {
			c.draft = e.Text
		}
	case Blur:
		if c.state.Mode == Editing {
			c.commitEdit()
		}
	case KeyDown:
		c.keyDown(e)
	case Cancel:
		c.cancel()
	}
	return c.state
}

func (c *Controller) resetIdle() {
	c.drag = nil
	c.overlay.clear()
	c.draft = ""
	c.state = State{}
}

// leave finishes any Dragging or Editing state so another element can
// take over. Edits are committed; an unfinished drag is committed at its
// last position.
func (c *Controller) leave() {
	switch c.state.Mode {
	case Editing:
		c.commitEdit()
	case Dragging:
		c.commitDrag(c.drag.Current)
	}
}

func (c *Controller) selectElement(id string) {
	if _, ok := c.store.Element(id); !ok {
		return
	}
	c.store.Select(id)
	c.store.RaiseToFront(id)
	c.state = State{Mode: Selected, ElementID: id}
}

func (c *Controller) click(id string) {
	if c.state.Mode == Editing && c.state.ElementID == id {
		return // caret placement inside the editor
	}
	c.leave()
	if c.state.Mode == Selected && c.state.ElementID == id {
		return
	}
	c.selectElement(id)
}

func (c *Controller) clickBackground() {
	switch c.state.Mode {
	case Editing:
		c.commitEdit()
	case Selected:
		c.store.ClearSelection()
		c.state = State{}
	}
}

func (c *Controller) pointerDown(e PointerDown) {
	if !e.OnHandle {
		c.click(e.ElementID)
		return
	}
	if c.state.Mode != Selected || c.state.ElementID != e.ElementID {
		c.leave()
		c.selectElement(e.ElementID)
		if c.state.ElementID != e.ElementID {
			return
		}
	}
	el, _ := c.store.Element(e.ElementID)
	c.drag = &DragSession{
		ElementID:     el.ID,
		StartPointer:  e.Pointer,
		StartPosition: el.Position,
		Current:       el.Position,
	}
	c.overlay.set(el.ID, el.Position)
	c.state = State{Mode: Dragging, ElementID: el.ID}
}

func (c *Controller) pointerMove(pointer domain.Position) {
	if c.state.Mode != Dragging {
		return
	}
	pos := c.store.ClampPosition(c.drag.ElementID, c.drag.Offset(pointer))
	c.drag.Current = pos
	c.overlay.set(c.drag.ElementID, pos)
}

func (c *Controller) pointerUp(pointer domain.Position) {
	if c.state.Mode != Dragging {
		return
	}
	c.commitDrag(c.drag.Offset(pointer))
}

func (c *Controller) commitDrag(pos domain.Position) {
	id := c.drag.ElementID
	c.drag = nil
	c.overlay.clear()
	c.store.MoveElement(id, pos)
	c.state = State{Mode: Selected, ElementID: id}
}

func (c *Controller) doubleClick(id string) {
	if c.state.Mode == Editing && c.state.ElementID == id {
		return
	}
	if c.state.Mode != Selected || c.state.ElementID != id {
		c.leave()
		c.selectElement(id)
		if c.state.ElementID != id {
			return
		}
	}
	el, _ := c.store.Element(id)
	if !el.Type.TextBearing() {
		return
	}
	c.draft = el.Content
	c.state = State{Mode: Editing, ElementID: id}
}

func (c *Controller) commitEdit() {
	id := c.state.ElementID
	c.store.UpdateTextContent(id, c.draft)
	c.draft = ""
	c.state = State{Mode: Selected, ElementID: id}
}

func (c *Controller) keyDown(e KeyDown) {
	switch c.state.Mode {
	case Editing:
		if (e.Key == KeyEnter && !e.Shift) || e.Key == KeyEscape {
			c.commitEdit()
		}
	case Dragging:
		if e.Key == KeyEscape {
			c.cancel()
		}
	case Selected:
		if e.Key == KeyDelete || e.Key == KeyBackspace {
			id := c.state.ElementID
			c.state = State{}
			c.store.DeleteElement(id)
		}
	}
}

// cancel aborts a drag without committing; other states are unaffected.
func (c *Controller) cancel() {
	if c.state.Mode != Dragging {
		return
	}
	id := c.drag.ElementID
	c.drag = nil
	c.overlay.clear()
	c.state = State{Mode: Selected, ElementID: id}
}
