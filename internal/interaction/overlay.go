package interaction

import "resumecanvas/internal/domain"

// Overlay holds transient element positions written at pointer-move
// frequency. Renderers consult it before the committed store position;
// it is emptied when the drag ends.
type Overlay struct {
	positions map[string]domain.Position
}

func newOverlay() *Overlay {
	return &Overlay{positions: map[string]domain.Position{}}
}

// Position returns the transient position of id, if any.
func (o *Overlay) Position(id string) (domain.Position, bool) {
	p, ok := o.positions[id]
	return p, ok
}

// Resolve returns the position a renderer should draw e at.
func (o *Overlay) Resolve(e domain.Element) domain.Position {
	if p, ok := o.positions[e.ID]; ok {
		return p
	}
	return e.Position
}

func (o *Overlay) Len() int { return len(o.positions) }

func (o *Overlay) set(id string, p domain.Position) { o.positions[id] = p }

func (o *Overlay) clear() { clear(o.positions) }
