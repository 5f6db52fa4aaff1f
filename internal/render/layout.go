package render

import (
	"fmt"
	"image/color"
	"strings"
	"unicode/utf8"

	"resumecanvas/internal/domain"
)

// A4 in millimetres.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 18.0

	ptToMm = 0.352778
)

var (
	ink   = color.RGBA{R: 17, G: 24, B: 39, A: 255}
	muted = color.RGBA{R: 75, G: 85, B: 99, A: 255}
	brand = color.RGBA{R: 37, G: 99, B: 235, A: 255}
)

// Font sizes in points.
const (
	sizeName     = 22
	sizeHeadline = 12
	sizeHeading  = 13
	sizeTitle    = 11
	sizeBody     = 10
	sizeSmall    = 9
	sizeFooter   = 8
)

// measureFunc returns the width in mm of s set at size points.
type measureFunc func(s string, size float64) float64

type textLine struct {
	X, Y  float64 // top-left of the line box, mm
	Size  float64 // pt
	Color color.RGBA
	Text  string
}

type rule struct {
	X, Y, Width float64
	Color       color.RGBA
}

type pageLayout struct {
	Lines    []textLine
	Rules    []rule
	Overflow bool
}

type layouter struct {
	width, height, margin float64
	measure               measureFunc
	y                     float64
	out                   pageLayout
}

func newLayouter(measure measureFunc) *layouter {
	return &layouter{
		width:   PageWidth,
		height:  PageHeight,
		margin:  Margin,
		measure: measure,
		y:       Margin,
	}
}

func lineHeight(size float64) float64 { return size * ptToMm * 1.35 }

func (l *layouter) contentWidth() float64 { return l.width - 2*l.margin }

func (l *layouter) gap(mm float64) { l.y += mm }

// text sets s wrapped to the content width minus indent.
func (l *layouter) text(s string, size float64, col color.RGBA, indent float64) {
	if strings.TrimSpace(s) == "" {
		return
	}
	limit := l.contentWidth() - indent
	for _, ln := range wrap(s, limit, func(t string) float64 { return l.measure(t, size) }) {
		l.out.Lines = append(l.out.Lines, textLine{X: l.margin + indent, Y: l.y, Size: size, Color: col, Text: ln})
		l.y += lineHeight(size)
	}
	if l.y > l.height-l.margin {
		l.out.Overflow = true
	}
}

func (l *layouter) rule(col color.RGBA) {
	l.out.Rules = append(l.out.Rules, rule{X: l.margin, Y: l.y, Width: l.contentWidth(), Color: col})
	l.gap(2)
}

func (l *layouter) heading(s string) {
	l.gap(3)
	l.text(strings.ToUpper(s), sizeHeading, brand, 0)
	l.rule(brand)
}

// wrap breaks s into lines no wider than limit, preferring spaces.
// Explicit newlines are kept; words wider than limit are split by rune.
func wrap(s string, limit float64, width func(string) float64) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		cur := ""
		for _, w := range words {
			for width(w) > limit && utf8.RuneCountInString(w) > 1 {
				if cur != "" {
					out = append(out, cur)
					cur = ""
				}
				head, tail := splitToWidth(w, limit, width)
				out = append(out, head)
				w = tail
			}
			next := w
			if cur != "" {
				next = cur + " " + w
			}
			if cur != "" && width(next) > limit {
				out = append(out, cur)
				cur = w
				continue
			}
			cur = next
		}
		if cur != "" {
			out = append(out, cur)
		}
	}
	return out
}

// splitToWidth returns the longest prefix of w (at least one rune) that
// fits limit, and the rest.
func splitToWidth(w string, limit float64, width func(string) float64) (string, string) {
	end := 0
	for i, r := range w {
		n := i + utf8.RuneLen(r)
		if end > 0 && width(w[:n]) > limit {
			break
		}
		end = n
	}
	return w[:end], w[end:]
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func dateRange(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	if end == "" {
		end = "Present"
	}
	if start == "" {
		return end
	}
	return start + " - " + end
}

// layoutPage places the content of page index (0-based) of total.
func layoutPage(measure measureFunc, res domain.Resume, page domain.Page, index, total int) pageLayout {
	l := newLayouter(measure)

	if index == 0 {
		l.text(res.Name, sizeName, ink, 0)
		l.text(res.Headline, sizeHeadline, muted, 0)
		l.gap(1)
		l.text(joinNonEmpty("  |  ", res.Email, res.Phone, res.Location), sizeSmall, muted, 0)
		if res.Summary != "" {
			l.gap(2)
			l.text(res.Summary, sizeBody, ink, 0)
		}
		l.gap(1)
		l.rule(muted)
	}

	if len(page.Experiences) > 0 {
		l.heading("Experience")
		for _, e := range page.Experiences {
			l.gap(1.5)
			l.text(joinNonEmpty(", ", e.Position, e.Company), sizeTitle, ink, 0)
			l.text(joinNonEmpty("  |  ", e.EmploymentType, dateRange(e.StartDate, e.EndDate)), sizeSmall, muted, 0)
			for _, t := range e.Tasks {
				l.text("• "+t, sizeBody, ink, 4)
			}
		}
	}

	if len(page.Education) > 0 {
		l.heading("Education")
		for _, e := range page.Education {
			l.gap(1.5)
			l.text(joinNonEmpty(", ", e.Degree, e.Institution), sizeTitle, ink, 0)
			l.text(joinNonEmpty("  |  ", e.Location, dateRange(e.StartDate, e.EndDate), e.Grade), sizeSmall, muted, 0)
			for _, d := range e.Details {
				l.text("• "+d, sizeBody, ink, 4)
			}
		}
	}

	if len(page.Projects) > 0 {
		l.heading("Projects")
		for _, p := range page.Projects {
			l.gap(1.5)
			l.text(p.Name, sizeTitle, ink, 0)
			l.text(joinNonEmpty("  |  ", p.Technologies, dateRange(p.StartDate, p.EndDate)), sizeSmall, muted, 0)
			l.text(p.Description, sizeBody, ink, 0)
			l.text(p.Link, sizeSmall, brand, 0)
		}
	}

	footer := fmt.Sprintf("Page %d of %d", index+1, total)
	fw := measure(footer, sizeFooter)
	l.out.Lines = append(l.out.Lines, textLine{
		X:     l.width - l.margin - fw,
		Y:     l.height - l.margin/2 - lineHeight(sizeFooter),
		Size:  sizeFooter,
		Color: muted,
		Text:  footer,
	})
	return l.out
}
