package render

import (
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"resumecanvas/internal/domain"
)

// Result describes a finished render.
type Result struct {
	Pages int
	// Overflowing lists 1-based page numbers whose content ran past the
	// bottom margin. Page capacities are counts, not measurements, so a
	// page can hold fewer lines than its entries need.
	Overflowing []int
}

// Renderer draws paginated resume pages into a PDF document.
type Renderer struct {
	family *canvas.FontFamily
	faces  map[fontKey]*canvas.FontFace
	log    *slog.Logger
}

type fontKey struct {
	size  float64
	color color.RGBA
}

func NewRenderer(family *canvas.FontFamily, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.Default()
	}
	return &Renderer{family: family, faces: map[fontKey]*canvas.FontFace{}, log: log}
}

func (r *Renderer) face(size float64, col color.RGBA) *canvas.FontFace {
	k := fontKey{size: size, color: col}
	if f, ok := r.faces[k]; ok {
		return f
	}
	f := r.family.Face(size, col, canvas.FontRegular, canvas.FontNormal)
	r.faces[k] = f
	return f
}

func (r *Renderer) measure(s string, size float64) float64 {
	return r.face(size, ink).TextWidth(s)
}

// Render writes one PDF page per entry of pages. The first page carries
// the resume header.
func (r *Renderer) Render(w io.Writer, res domain.Resume, pages []domain.Page) (Result, error) {
	if r.family == nil {
		return Result{}, ErrNoFont
	}
	if len(pages) == 0 {
		// A resume without entries still gets its header page.
		pages = []domain.Page{{}}
	}

	writer := pdf.New(w, PageWidth, PageHeight, nil)
	writer.SetInfo(res.Name, strings.TrimSpace(res.Headline), "resume", res.Name, "resumecanvas")

	var out Result
	for i, page := range pages {
		if i > 0 {
			writer.NewPage(PageWidth, PageHeight)
		}
		pl := layoutPage(r.measure, res, page, i, len(pages))
		if pl.Overflow {
			out.Overflowing = append(out.Overflowing, i+1)
			r.log.Warn("render: page content overflows", "page", i+1)
		}

		c := canvas.New(PageWidth, PageHeight)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV)
		r.drawPage(ctx, pl)
		c.RenderTo(writer)
		out.Pages++
	}

	if err := writer.Close(); err != nil {
		return out, fmt.Errorf("render: write pdf: %w", err)
	}
	return out, nil
}

func (r *Renderer) drawPage(ctx *canvas.Context, pl pageLayout) {
	for _, ru := range pl.Rules {
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ru.Width, 0)
		ctx.SetFillColor(canvas.Transparent)
		ctx.SetStrokeColor(ru.Color)
		ctx.SetStrokeWidth(0.3)
		ctx.DrawPath(ru.X, ru.Y, p)
	}
	for _, ln := range pl.Lines {
		face := r.face(ln.Size, ln.Color)
		baseline := ln.Y + face.Metrics().Ascent
		ctx.DrawText(ln.X, baseline, canvas.NewTextLine(face, ln.Text, canvas.Left))
	}
}

// RenderFile loads the font at fontPath (or a system font) and renders
// pages of res into w.
func RenderFile(w io.Writer, res domain.Resume, pages []domain.Page, fontPath string, log *slog.Logger) (Result, error) {
	family, err := LoadFontFamily(fontPath)
	if err != nil {
		return Result{}, err
	}
	return NewRenderer(family, log).Render(w, res, pages)
}
