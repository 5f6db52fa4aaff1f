// Package canvas owns the element list of a resume canvas and the
// operations that mutate it. The Store is synchronous and not safe for
// concurrent use; callers serialise access.
package canvas

import (
	"github.com/google/uuid"

	"resumecanvas/internal/domain"
)

// A4 at 96 dpi, the size of the editor page surface.
const (
	DefaultWidth  = 794
	DefaultHeight = 1123
)

type ChangeKind string

const (
	ChangeAdded     ChangeKind = "element:added"
	ChangeUpdated   ChangeKind = "element:updated"
	ChangeMoved     ChangeKind = "element:moved"
	ChangeRaised    ChangeKind = "element:raised"
	ChangeDeleted   ChangeKind = "element:deleted"
	ChangeSelection ChangeKind = "selection"
	ChangeMeta      ChangeKind = "meta"
	ChangeLoaded    ChangeKind = "loaded"
)

// Change describes one applied mutation. ElementID is empty for metadata
// and load changes.
type Change struct {
	Kind      ChangeKind
	ElementID string
}

// Listener is called after every applied mutation, in dispatch order.
type Listener func(Change)

// Rect is an axis-aligned region of the canvas.
type Rect struct {
	X, Y, Width, Height float64
}

// Meta is the project metadata tracked alongside the elements.
type Meta struct {
	Name        string
	Description string
}

type Store struct {
	width, height float64
	viewport      Rect

	meta     Meta
	elements []domain.Element
	nextZ    int
	selected string

	listeners []Listener
	newID     func() string
}

// New returns an empty store for a canvas of the given size. The viewport
// initially covers the whole canvas.
func New(width, height float64) *Store {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Store{
		width:    width,
		height:   height,
		viewport: Rect{Width: width, Height: height},
		elements: []domain.Element{},
		nextZ:    1,
		newID:    uuid.NewString,
	}
}

// Size returns the canvas dimensions.
func (s *Store) Size() (w, h float64) { return s.width, s.height }

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

func (s *Store) notify(kind ChangeKind, id string) {
	c := Change{Kind: kind, ElementID: id}
	for _, fn := range s.listeners {
		if fn != nil {
			fn(c)
		}
	}
}

// SetViewport records the currently visible region; new elements are
// centred in it.
func (s *Store) SetViewport(r Rect) {
	if r.Width <= 0 || r.Height <= 0 {
		r = Rect{Width: s.width, Height: s.height}
	}
	s.viewport = r
}

func (s *Store) Meta() Meta { return s.meta }

func (s *Store) SetName(name string) {
	s.meta.Name = name
	s.notify(ChangeMeta, "")
}

func (s *Store) SetDescription(desc string) {
	s.meta.Description = desc
	s.notify(ChangeMeta, "")
}

// Load replaces the store contents. The z counter resumes above the
// highest loaded zIndex so raises keep winning.
func (s *Store) Load(meta Meta, elements []domain.Element) {
	s.meta = meta
	s.elements = make([]domain.Element, 0, len(elements))
	s.nextZ = 1
	for _, e := range elements {
		e = e.Clone()
		s.elements = append(s.elements, e)
		if e.ZIndex >= s.nextZ {
			s.nextZ = e.ZIndex + 1
		}
	}
	s.selected = ""
	s.notify(ChangeLoaded, "")
}

// Elements returns a copy of the element list in insertion order.
func (s *Store) Elements() []domain.Element {
	out := make([]domain.Element, len(s.elements))
	for i, e := range s.elements {
		out[i] = e.Clone()
	}
	return out
}

// Element returns a copy of the element with the given id.
func (s *Store) Element(id string) (domain.Element, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.elements[i].Clone(), true
	}
	return domain.Element{}, false
}

func (s *Store) Len() int { return len(s.elements) }

func (s *Store) indexOf(id string) int {
	for i := range s.elements {
		if s.elements[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) takeZ() int {
	z := s.nextZ
	s.nextZ++
	return z
}

// AddElement creates an element of the given type with type defaults,
// centred in the viewport, above every existing element, and selects it.
func (s *Store) AddElement(t domain.ElementType) domain.Element {
	e := s.defaults(t)
	e.ID = s.newID()
	w, h := e.Size()
	e.Position = s.clamp(domain.Position{
		X: s.viewport.X + s.viewport.Width/2 - w/2,
		Y: s.viewport.Y + s.viewport.Height/2 - h/2,
	}, w, h)
	e.ZIndex = s.takeZ()
	s.elements = append(s.elements, e)
	s.selected = e.ID
	s.notify(ChangeAdded, e.ID)
	return e.Clone()
}

// UpdateElementStyle merges one property into the element's style.
// Unknown ids are ignored.
func (s *Store) UpdateElementStyle(id, property string, value any) {
	i := s.indexOf(id)
	if i < 0 || property == "" {
		return
	}
	if s.elements[i].Style == nil {
		s.elements[i].Style = domain.Style{}
	}
	s.elements[i].Style[property] = value
	s.notify(ChangeUpdated, id)
}

// MoveElement overwrites the element position, clamped to the canvas.
func (s *Store) MoveElement(id string, pos domain.Position) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	w, h := s.elements[i].Size()
	s.elements[i].Position = s.clamp(pos, w, h)
	s.notify(ChangeMoved, id)
}

// ClampPosition returns pos clamped to the canvas bounds for the element
// with the given id. Unknown ids clamp as a zero-sized element.
func (s *Store) ClampPosition(id string, pos domain.Position) domain.Position {
	var w, h float64
	if i := s.indexOf(id); i >= 0 {
		w, h = s.elements[i].Size()
	}
	return s.clamp(pos, w, h)
}

func (s *Store) clamp(pos domain.Position, w, h float64) domain.Position {
	maxX := max(s.width-w, 0)
	maxY := max(s.height-h, 0)
	return domain.Position{
		X: min(max(pos.X, 0), maxX),
		Y: min(max(pos.Y, 0), maxY),
	}
}

// UpdateTextContent overwrites the content of text-bearing elements.
func (s *Store) UpdateTextContent(id, content string) {
	i := s.indexOf(id)
	if i < 0 || !s.elements[i].Type.TextBearing() {
		return
	}
	s.elements[i].Content = content
	s.notify(ChangeUpdated, id)
}

// SetContent overwrites the content of any element, e.g. the URL of an
// image after upload.
func (s *Store) SetContent(id, content string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.elements[i].Content = content
	s.notify(ChangeUpdated, id)
}

// DeleteElement removes the element, clearing the selection if it was
// selected.
func (s *Store) DeleteElement(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.elements = append(s.elements[:i], s.elements[i+1:]...)
	if s.selected == id {
		s.selected = ""
	}
	s.notify(ChangeDeleted, id)
}

// RaiseToFront gives the element the next zIndex.
func (s *Store) RaiseToFront(id string) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.elements[i].ZIndex = s.takeZ()
	s.notify(ChangeRaised, id)
}

// Select makes id the sole selected element.
func (s *Store) Select(id string) {
	if s.indexOf(id) < 0 || s.selected == id {
		return
	}
	s.selected = id
	s.notify(ChangeSelection, id)
}

func (s *Store) ClearSelection() {
	if s.selected == "" {
		return
	}
	s.selected = ""
	s.notify(ChangeSelection, "")
}

// Selected returns the selected element id, or "".
func (s *Store) Selected() string { return s.selected }
