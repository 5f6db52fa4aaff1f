package domain

import (
	"strconv"
	"strings"
)

type ElementType string

const (
	ElementTypeText    ElementType = "text"
	ElementTypeImage   ElementType = "image"
	ElementTypeSection ElementType = "section"
	ElementTypeIcon    ElementType = "icon"
	ElementTypeShape   ElementType = "shape"
)

// Valid reports whether t is one of the known element variants.
func (t ElementType) Valid() bool {
	switch t {
	case ElementTypeText, ElementTypeImage, ElementTypeSection, ElementTypeIcon, ElementTypeShape:
		return true
	}
	return false
}

// TextBearing reports whether elements of this type carry editable text.
func (t ElementType) TextBearing() bool {
	return t == ElementTypeText || t == ElementTypeSection
}

// Style keys with a shared meaning across element types.
const (
	StyleWidth           = "width"
	StyleHeight          = "height"
	StyleFontFamily      = "fontFamily"
	StyleFontSize        = "fontSize"
	StyleFontWeight      = "fontWeight"
	StyleColor           = "color"
	StyleBackgroundColor = "backgroundColor"
	StyleBorderRadius    = "borderRadius"
)

// Style is the open mapping of presentation properties of an element.
type Style map[string]any

// Number returns the numeric value of key. Numbers and numeric strings
// (optionally suffixed with "px") are accepted.
func (s Style) Number(key string) (float64, bool) {
	switch v := s[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(v), "px"), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// String returns the value of key when it is a string.
func (s Style) String(key string) string {
	v, _ := s[key].(string)
	return v
}

// Clone returns a shallow copy of s.
func (s Style) Clone() Style {
	if s == nil {
		return Style{}
	}
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Element is one placeable unit on the canvas.
type Element struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Content  string      `json:"content,omitempty"` // text, image URL or glyph depending on Type
	Style    Style       `json:"style"`
	Position Position    `json:"position"`
	ZIndex   int         `json:"zIndex"`
}

// Size returns the element dimensions taken from its style.
func (e Element) Size() (w, h float64) {
	w, _ = e.Style.Number(StyleWidth)
	h, _ = e.Style.Number(StyleHeight)
	return max(w, 0), max(h, 0)
}

// Clone returns a copy whose style can be mutated independently.
func (e Element) Clone() Element {
	e.Style = e.Style.Clone()
	return e
}
