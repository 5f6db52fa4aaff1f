package mcpserver

import (
	"testing"

	"resumecanvas/internal/domain"
)

func sized(id string, x, y, w, h float64) domain.Element {
	return domain.Element{
		ID:       id,
		Position: domain.Position{X: x, Y: y},
		Style:    domain.Style{domain.StyleWidth: w, domain.StyleHeight: h},
	}
}

func TestNextPosition_EmptyCanvas(t *testing.T) {
	le := NewLayoutEngine(794, 1123)
	p := le.NextPosition(nil, 200, 40)
	if p.X != 0 || p.Y != 0 {
		t.Errorf("expected (0, 0) for empty canvas, got (%.0f, %.0f)", p.X, p.Y)
	}
}

func TestNextPosition_AvoidsExistingElements(t *testing.T) {
	le := NewLayoutEngine(794, 1123)
	existing := []domain.Element{
		sized("a", 0, 0, 794, 56),
		sized("b", 0, 100, 300, 40),
	}
	p := le.NextPosition(existing, 200, 40)

	r := rect{p.X, p.Y, 200, 40}
	for _, e := range existing {
		b := bounds(e)
		padded := rect{b.x - Padding, b.y - Padding, b.w + Padding*2, b.h + Padding*2}
		if r.intersects(padded) {
			t.Errorf("position (%.0f, %.0f) overlaps element %s", p.X, p.Y, e.ID)
		}
	}
	if p.X+200 > 794 || p.Y+40 > 1123 {
		t.Errorf("position (%.0f, %.0f) leaves the page", p.X, p.Y)
	}
}

func TestNextPosition_FullPageFallsBelow(t *testing.T) {
	le := NewLayoutEngine(200, 200)
	existing := []domain.Element{sized("full", 0, 0, 200, 120)}
	p := le.NextPosition(existing, 200, 100)
	if p.X != 0 || p.Y != 100 {
		t.Errorf("fallback = (%.0f, %.0f), want clamped (0, 100)", p.X, p.Y)
	}
}

func TestStack(t *testing.T) {
	le := NewLayoutEngine(794, 1123)
	els := []domain.Element{
		sized("1", 50, 500, 300, 40),
		sized("2", 10, 10, 300, 64),
		sized("3", 0, 0, 300, 20),
	}
	pos := le.Stack(els, 48, 48)

	if pos["1"] != (domain.Position{X: 48, Y: 48}) {
		t.Errorf("first = %+v", pos["1"])
	}
	if pos["2"].Y != 48+56 {
		t.Errorf("second y = %.0f, want %d", pos["2"].Y, 48+56)
	}
	if pos["3"].Y != 48+56+80 {
		t.Errorf("third y = %.0f, want %d", pos["3"].Y, 48+56+80)
	}
}
