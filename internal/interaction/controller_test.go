package interaction_test

import (
	"testing"

	"resumecanvas/internal/canvas"
	"resumecanvas/internal/domain"
	"resumecanvas/internal/interaction"
)

func setup(t *testing.T) (*canvas.Store, *interaction.Controller) {
	t.Helper()
	s := canvas.New(800, 1000)
	return s, interaction.New(s)
}

func expectState(t *testing.T, got interaction.State, mode interaction.Mode, id string) {
	t.Helper()
	if got.Mode != mode || got.ElementID != id {
		t.Fatalf("state = %s(%q), want %s(%q)", got.Mode, got.ElementID, mode, id)
	}
}

// ─────────────────────────────────────────────────────────────
// Selection
// ─────────────────────────────────────────────────────────────

func TestClick_SelectsAndRaises(t *testing.T) {
	s, c := setup(t)
	a := s.AddElement(domain.ElementTypeText)
	b := s.AddElement(domain.ElementTypeShape)
	s.ClearSelection()

	st := c.Handle(interaction.Click{ElementID: a.ID})
	expectState(t, st, interaction.Selected, a.ID)

	got, _ := s.Element(a.ID)
	if got.ZIndex <= b.ZIndex {
		t.Errorf("expected %s raised above %s", a.ID, b.ID)
	}
	if s.Selected() != a.ID {
		t.Errorf("store selection = %q", s.Selected())
	}
}

func TestClickBackground_ReturnsToIdle(t *testing.T) {
	s, c := setup(t)
	a := s.AddElement(domain.ElementTypeText)
	c.Handle(interaction.Click{ElementID: a.ID})

	st := c.Handle(interaction.ClickBackground{})
	expectState(t, st, interaction.Idle, "")
	if s.Selected() != "" {
		t.Errorf("expected store selection cleared, got %q", s.Selected())
	}
}

func TestClick_UnknownElementStaysIdle(t *testing.T) {
	_, c := setup(t)
	st := c.Handle(interaction.Click{ElementID: "ghost"})
	expectState(t, st, interaction.Idle, "")
}

// ─────────────────────────────────────────────────────────────
// Dragging
// ─────────────────────────────────────────────────────────────

func TestDrag_OverlayThenCommitOnPointerUp(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeShape)
	s.MoveElement(e.ID, domain.Position{X: 100, Y: 100})
	c.Handle(interaction.Click{ElementID: e.ID})

	var moves int
	s.Subscribe(func(ch canvas.Change) {
		if ch.Kind == canvas.ChangeMoved {
			moves++
		}
	})

	st := c.Handle(interaction.PointerDown{ElementID: e.ID, OnHandle: true, Pointer: domain.Position{X: 110, Y: 110}})
	expectState(t, st, interaction.Dragging, e.ID)
	if c.Drag() == nil || c.Drag().StartPosition != (domain.Position{X: 100, Y: 100}) {
		t.Fatalf("drag session not captured: %+v", c.Drag())
	}

	for i := 1; i <= 10; i++ {
		c.Handle(interaction.PointerMove{Pointer: domain.Position{X: 110 + float64(i*5), Y: 110}})
	}
	if p, ok := c.Overlay().Position(e.ID); !ok || p.X != 150 {
		t.Fatalf("overlay position = %+v (%v), want x=150", p, ok)
	}
	if committed, _ := s.Element(e.ID); committed.Position.X != 100 {
		t.Fatalf("store updated during drag: %+v", committed.Position)
	}
	if moves != 0 {
		t.Fatalf("expected no store moves during drag, got %d", moves)
	}

	st = c.Handle(interaction.PointerUp{Pointer: domain.Position{X: 170, Y: 130}})
	expectState(t, st, interaction.Selected, e.ID)
	committed, _ := s.Element(e.ID)
	if committed.Position != (domain.Position{X: 160, Y: 120}) {
		t.Errorf("committed position = %+v", committed.Position)
	}
	if moves != 1 {
		t.Errorf("expected exactly one store move, got %d", moves)
	}
	if c.Drag() != nil || c.Overlay().Len() != 0 {
		t.Error("drag session or overlay survived pointer-up")
	}
}

func TestDrag_CommitIsClamped(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeShape)
	c.Handle(interaction.PointerDown{ElementID: e.ID, OnHandle: true, Pointer: domain.Position{}})
	c.Handle(interaction.PointerMove{Pointer: domain.Position{X: -9999, Y: 9999}})
	if p, _ := c.Overlay().Position(e.ID); p.X != 0 {
		t.Errorf("overlay not clamped: %+v", p)
	}
	c.Handle(interaction.PointerUp{Pointer: domain.Position{X: -9999, Y: 9999}})

	got, _ := s.Element(e.ID)
	w, h := got.Size()
	if got.Position.X != 0 || got.Position.Y != 1000-h || w == 0 {
		t.Errorf("committed position not clamped: %+v", got.Position)
	}
}

func TestDrag_CancelReverts(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeShape)
	start := e.Position
	c.Handle(interaction.PointerDown{ElementID: e.ID, OnHandle: true, Pointer: domain.Position{}})
	c.Handle(interaction.PointerMove{Pointer: domain.Position{X: 50, Y: 50}})

	st := c.Handle(interaction.KeyDown{Key: interaction.KeyEscape})
	expectState(t, st, interaction.Selected, e.ID)
	if got, _ := s.Element(e.ID); got.Position != start {
		t.Errorf("cancelled drag moved element to %+v", got.Position)
	}
}

func TestPointerDown_OffHandleOnlySelects(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeShape)
	st := c.Handle(interaction.PointerDown{ElementID: e.ID, Pointer: domain.Position{}})
	expectState(t, st, interaction.Selected, e.ID)
}

// ─────────────────────────────────────────────────────────────
// Editing
// ─────────────────────────────────────────────────────────────

func TestEdit_EnterCommits(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeText)
	c.Handle(interaction.Click{ElementID: e.ID})

	st := c.Handle(interaction.DoubleClick{ElementID: e.ID})
	expectState(t, st, interaction.Editing, e.ID)
	if c.Draft() != e.Content {
		t.Errorf("draft should start from content, got %q", c.Draft())
	}

	c.Handle(interaction.Input{Text: "Senior Engineer"})
	st = c.Handle(interaction.KeyDown{Key: interaction.KeyEnter, Shift: true})
	expectState(t, st, interaction.Editing, e.ID)

	st = c.Handle(interaction.KeyDown{Key: interaction.KeyEnter})
	expectState(t, st, interaction.Selected, e.ID)
	if got, _ := s.Element(e.ID); got.Content != "Senior Engineer" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestEdit_BlurAndOutsideClickCommit(t *testing.T) {
	for _, exit := range []interaction.Event{interaction.Blur{}, interaction.ClickBackground{}} {
		s, c := setup(t)
		e := s.AddElement(domain.ElementTypeSection)
		c.Handle(interaction.DoubleClick{ElementID: e.ID})
		c.Handle(interaction.Input{Text: "Education"})

		st := c.Handle(exit)
		expectState(t, st, interaction.Selected, e.ID)
		if got, _ := s.Element(e.ID); got.Content != "Education" {
			t.Errorf("%T: content = %q", exit, got.Content)
		}
	}
}

func TestEdit_NotForShapes(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeShape)
	c.Handle(interaction.Click{ElementID: e.ID})
	st := c.Handle(interaction.DoubleClick{ElementID: e.ID})
	expectState(t, st, interaction.Selected, e.ID)
}

func TestEdit_SwitchingElementCommitsFirst(t *testing.T) {
	s, c := setup(t)
	a := s.AddElement(domain.ElementTypeText)
	b := s.AddElement(domain.ElementTypeText)

	c.Handle(interaction.DoubleClick{ElementID: a.ID})
	c.Handle(interaction.Input{Text: "kept"})

	st := c.Handle(interaction.DoubleClick{ElementID: b.ID})
	expectState(t, st, interaction.Editing, b.ID)
	if got, _ := s.Element(a.ID); got.Content != "kept" {
		t.Errorf("edit of A discarded, content = %q", got.Content)
	}
}

func TestEdit_DragOtherElementCommitsFirst(t *testing.T) {
	s, c := setup(t)
	a := s.AddElement(domain.ElementTypeText)
	b := s.AddElement(domain.ElementTypeShape)

	c.Handle(interaction.DoubleClick{ElementID: a.ID})
	c.Handle(interaction.Input{Text: "committed"})
	st := c.Handle(interaction.PointerDown{ElementID: b.ID, OnHandle: true})
	expectState(t, st, interaction.Dragging, b.ID)
	if got, _ := s.Element(a.ID); got.Content != "committed" {
		t.Errorf("content = %q", got.Content)
	}
}

// ─────────────────────────────────────────────────────────────
// Keyboard delete and teardown
// ─────────────────────────────────────────────────────────────

func TestDeleteKey_RemovesSelected(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeIcon)
	c.Handle(interaction.Click{ElementID: e.ID})
	st := c.Handle(interaction.KeyDown{Key: interaction.KeyDelete})
	expectState(t, st, interaction.Idle, "")
	if s.Len() != 0 {
		t.Errorf("element not deleted")
	}
}

func TestElementDeletedElsewhere_FallsBackToIdle(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeText)
	c.Handle(interaction.Click{ElementID: e.ID})
	s.DeleteElement(e.ID)
	st := c.Handle(interaction.PointerMove{})
	expectState(t, st, interaction.Idle, "")
}

func TestClose_IgnoresEvents(t *testing.T) {
	s, c := setup(t)
	e := s.AddElement(domain.ElementTypeShape)
	c.Handle(interaction.PointerDown{ElementID: e.ID, OnHandle: true})
	c.Close()

	st := c.Handle(interaction.Click{ElementID: e.ID})
	expectState(t, st, interaction.Idle, "")
	if c.Drag() != nil || c.Overlay().Len() != 0 {
		t.Error("teardown left a drag session behind")
	}
}
