package autosave

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"resumecanvas/internal/domain"
)

// Snapshot is the mutable state of a project that decides dirtiness.
// The canvas size travels along for thumbnail capture but is not part
// of the comparison.
type Snapshot struct {
	Name         string
	Description  string
	Elements     []domain.Element
	CanvasWidth  float64
	CanvasHeight float64
}

type snapshotDoc struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Elements    []domain.Element `json:"elements"`
}

// Encode returns the canonical serialized form used for comparison.
func (s Snapshot) Encode() ([]byte, error) {
	els := s.Elements
	if els == nil {
		els = []domain.Element{}
	}
	b, err := json.Marshal(snapshotDoc{Name: s.Name, Description: s.Description, Elements: els})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DefaultStyleAllowList is the style subset kept when a payload is reduced.
var DefaultStyleAllowList = []string{
	domain.StyleFontFamily,
	domain.StyleFontSize,
	domain.StyleColor,
	domain.StyleFontWeight,
}

// ReduceElements truncates each element's content to budget runes and keeps
// only the allow-listed style properties. The input is not modified.
func ReduceElements(elements []domain.Element, budget int, allow []string) []domain.Element {
	out := make([]domain.Element, len(elements))
	for i, e := range elements {
		r := e
		r.Content = truncateRunes(e.Content, budget)
		r.Style = domain.Style{}
		for _, k := range allow {
			if v, ok := e.Style[k]; ok {
				r.Style[k] = v
			}
		}
		out[i] = r
	}
	return out
}

func truncateRunes(s string, budget int) string {
	if budget < 0 {
		budget = 0
	}
	if utf8.RuneCountInString(s) <= budget {
		return s
	}
	n := 0
	for i := range s {
		if n == budget {
			return s[:i]
		}
		n++
	}
	return s
}

// payloadBuilder turns a snapshot into the transmitted payload, reducing it
// when the serialized form exceeds maxBytes.
type payloadBuilder struct {
	maxBytes int
	budget   int
	allow    []string
}

type builtPayload struct {
	payload  domain.ProjectPayload
	size     int
	degraded bool
}

func (b payloadBuilder) build(s Snapshot, thumb *domain.Thumbnail) (builtPayload, error) {
	p, size, err := encodePayload(s.Name, s.Description, s.Elements, thumb)
	if err != nil {
		return builtPayload{}, err
	}
	if b.maxBytes <= 0 || size <= b.maxBytes {
		return builtPayload{payload: p, size: size}, nil
	}

	reduced := ReduceElements(s.Elements, b.budget, b.allow)
	p, size, err = encodePayload(s.Name, s.Description, reduced, thumb)
	if err != nil {
		return builtPayload{}, err
	}
	// An inline raster is the last large thing left; the thumbnail is
	// optional so it goes before the save does.
	if size > b.maxBytes && thumb != nil && strings.HasPrefix(thumb.URL, "data:") {
		p, size, err = encodePayload(s.Name, s.Description, reduced, nil)
		if err != nil {
			return builtPayload{}, err
		}
	}
	return builtPayload{payload: p, size: size, degraded: true}, nil
}

func encodePayload(name, desc string, elements []domain.Element, thumb *domain.Thumbnail) (domain.ProjectPayload, int, error) {
	data, err := domain.EncodeProjectData(elements)
	if err != nil {
		return domain.ProjectPayload{}, 0, err
	}
	p := domain.ProjectPayload{Name: name, Description: desc, Data: data, Thumbnail: thumb}
	raw, err := json.Marshal(p)
	if err != nil {
		return domain.ProjectPayload{}, 0, fmt.Errorf("encode payload: %w", err)
	}
	return p, len(raw), nil
}
