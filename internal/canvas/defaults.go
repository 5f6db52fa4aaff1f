package canvas

import "resumecanvas/internal/domain"

const (
	placeholderText  = "Double-click to edit"
	placeholderImage = "https://placehold.co/160x160?text=Image"
	sectionTitle     = "Section"
	defaultGlyph     = "★"
)

// defaults returns the type-specific starting element, without id,
// position or zIndex.
func (s *Store) defaults(t domain.ElementType) domain.Element {
	switch t {
	case domain.ElementTypeImage:
		return domain.Element{
			Type:    t,
			Content: placeholderImage,
			Style: domain.Style{
				domain.StyleWidth:  160.0,
				domain.StyleHeight: 160.0,
			},
		}
	case domain.ElementTypeShape:
		return domain.Element{
			Type: t,
			Style: domain.Style{
				domain.StyleWidth:           80.0,
				domain.StyleHeight:          80.0,
				domain.StyleBackgroundColor: "#2563eb",
			},
		}
	case domain.ElementTypeSection:
		return domain.Element{
			Type:    t,
			Content: sectionTitle,
			Style: domain.Style{
				domain.StyleWidth:           s.width,
				domain.StyleHeight:          56.0,
				domain.StyleBackgroundColor: "#f1f5f9",
				domain.StyleFontFamily:      "Inter",
				domain.StyleFontSize:        20.0,
				domain.StyleFontWeight:      "600",
				domain.StyleColor:           "#0f172a",
			},
		}
	case domain.ElementTypeIcon:
		return domain.Element{
			Type:    t,
			Content: defaultGlyph,
			Style: domain.Style{
				domain.StyleWidth:    40.0,
				domain.StyleHeight:   40.0,
				domain.StyleFontSize: 32.0,
				domain.StyleColor:    "#0f172a",
			},
		}
	default:
		return domain.Element{
			Type:    domain.ElementTypeText,
			Content: placeholderText,
			Style: domain.Style{
				domain.StyleWidth:      240.0,
				domain.StyleHeight:     40.0,
				domain.StyleFontFamily: "Inter",
				domain.StyleFontSize:   16.0,
				domain.StyleFontWeight: "400",
				domain.StyleColor:      "#111827",
			},
		}
	}
}

// DefaultElements is the minimal element set used when persisted data
// cannot be decoded: a title line above a section band.
func DefaultElements(width float64) []domain.Element {
	s := New(width, 0)
	title := s.defaults(domain.ElementTypeText)
	title.ID = s.newID()
	title.Content = "Your Name"
	title.Style[domain.StyleFontSize] = 28.0
	title.Style[domain.StyleFontWeight] = "700"
	title.Position = domain.Position{X: 48, Y: 48}
	title.ZIndex = 1

	band := s.defaults(domain.ElementTypeSection)
	band.ID = s.newID()
	band.Content = "Experience"
	band.Position = domain.Position{X: 0, Y: 120}
	band.ZIndex = 2
	return []domain.Element{title, band}
}
