package mcpserver

import (
	"math"

	"resumecanvas/internal/domain"
)

const (
	GridSize = 8.0  // snapping step on the page surface
	Padding  = 16.0 // gap kept around existing elements
)

// LayoutEngine places agent-created elements so they do not overlap
// what is already on the page.
type LayoutEngine struct {
	width, height float64
	gridSize      float64
	padding       float64
}

func NewLayoutEngine(width, height float64) *LayoutEngine {
	return &LayoutEngine{
		width:    width,
		height:   height,
		gridSize: GridSize,
		padding:  Padding,
	}
}

// snap rounds v to the nearest grid point.
func (le *LayoutEngine) snap(v float64) float64 {
	return math.Round(v/le.gridSize) * le.gridSize
}

// rect is a simple axis-aligned bounding box.
type rect struct {
	x, y, w, h float64
}

func (a rect) intersects(b rect) bool {
	return a.x < b.x+b.w && a.x+a.w > b.x &&
		a.y < b.y+b.h && a.y+a.h > b.y
}

func bounds(e domain.Element) rect {
	w, h := e.Size()
	return rect{e.Position.X, e.Position.Y, w, h}
}

// NextPosition finds the first free grid position, scanning rows top to
// bottom, for an element of size (newW, newH). When the page is full the
// element goes below the lowest element, clamped to the page.
func (le *LayoutEngine) NextPosition(existing []domain.Element, newW, newH float64) domain.Position {
	if len(existing) == 0 {
		return domain.Position{}
	}

	occupied := make([]rect, len(existing))
	for i, e := range existing {
		occupied[i] = bounds(e)
	}

	candidate := rect{w: newW, h: newH}
	for y := 0.0; y+newH <= le.height; y += le.gridSize {
		for x := 0.0; x+newW <= le.width; x += le.gridSize {
			candidate.x = le.snap(x)
			candidate.y = le.snap(y)

			overlaps := false
			for _, occ := range occupied {
				padded := rect{
					x: occ.x - le.padding,
					y: occ.y - le.padding,
					w: occ.w + le.padding*2,
					h: occ.h + le.padding*2,
				}
				if candidate.intersects(padded) {
					overlaps = true
					break
				}
			}
			if !overlaps {
				return domain.Position{X: candidate.x, Y: candidate.y}
			}
		}
	}

	maxY := 0.0
	for _, occ := range occupied {
		maxY = max(maxY, occ.y+occ.h)
	}
	return domain.Position{X: 0, Y: min(le.snap(maxY+le.padding), max(le.height-newH, 0))}
}

// Stack lays elements out top to bottom in the given order, starting at
// startY, each left-aligned at startX. It returns the new positions keyed
// by element id.
func (le *LayoutEngine) Stack(elements []domain.Element, startX, startY float64) map[string]domain.Position {
	out := make(map[string]domain.Position, len(elements))
	x := le.snap(startX)
	y := le.snap(startY)
	for _, e := range elements {
		out[e.ID] = domain.Position{X: x, Y: y}
		_, h := e.Size()
		y += le.snap(h + le.padding)
	}
	return out
}
