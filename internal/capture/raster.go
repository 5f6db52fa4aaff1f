// Package capture produces thumbnail images of a canvas region.
package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"sort"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"resumecanvas/internal/domain"
)

// DefaultThumbnailWidth is the pixel width of generated thumbnails.
const DefaultThumbnailWidth = 240

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

var (
	paper       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	inkDefault  = color.RGBA{R: 17, G: 24, B: 39, A: 255}
	imageFill   = color.RGBA{R: 203, G: 213, B: 225, A: 255}
	imageStroke = color.RGBA{R: 148, G: 163, B: 184, A: 255}
)

func parseColor(s string, fallback color.RGBA) color.RGBA {
	if !hexColor.MatchString(s) {
		return fallback
	}
	return canvas.Hex(s)
}

// Rasterizer draws a simplified picture of the canvas: shapes and section
// bands in their colours, text as bars whose length follows the content,
// images as framed placeholders. No fonts are needed.
type Rasterizer struct {
	// Width of the output image in pixels.
	Width int
}

func NewRasterizer() *Rasterizer {
	return &Rasterizer{Width: DefaultThumbnailWidth}
}

// Image renders r into an RGBA image.
func (z *Rasterizer) Image(r domain.Region) (*image.RGBA, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("capture: empty region %gx%g", r.Width, r.Height)
	}
	width := z.Width
	if width <= 0 {
		width = DefaultThumbnailWidth
	}

	c := canvas.New(r.Width, r.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	ctx.SetFillColor(paper)
	ctx.SetStrokeColor(canvas.Transparent)
	ctx.DrawPath(0, 0, canvas.Rectangle(r.Width, r.Height))

	for _, e := range paintOrder(r.Elements) {
		drawElement(ctx, e)
	}

	res := canvas.DPMM(float64(width) / r.Width)
	return rasterizer.Draw(c, res, canvas.DefaultColorSpace), nil
}

// PNG renders r and encodes it as PNG.
func (z *Rasterizer) PNG(r domain.Region) ([]byte, error) {
	img, err := z.Image(r)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("capture: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Capture implements domain.ThumbnailCapturer with an inline data URL.
func (z *Rasterizer) Capture(ctx context.Context, r domain.Region) (domain.Thumbnail, error) {
	if err := ctx.Err(); err != nil {
		return domain.Thumbnail{}, err
	}
	b, err := z.PNG(r)
	if err != nil {
		return domain.Thumbnail{}, err
	}
	return domain.Thumbnail{
		URL:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(b),
		PublicID: "thumb-" + uuid.NewString(),
	}, nil
}

// paintOrder sorts a copy of elements bottom to top.
func paintOrder(elements []domain.Element) []domain.Element {
	out := append([]domain.Element(nil), elements...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

func drawElement(ctx *canvas.Context, e domain.Element) {
	w, h := e.Size()
	if w <= 0 || h <= 0 {
		return
	}
	x, y := e.Position.X, e.Position.Y
	radius, _ := e.Style.Number(domain.StyleBorderRadius)

	switch e.Type {
	case domain.ElementTypeShape, domain.ElementTypeSection:
		ctx.SetFillColor(parseColor(e.Style.String(domain.StyleBackgroundColor), imageFill))
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(x, y, rect(w, h, radius))
		if e.Type == domain.ElementTypeSection {
			drawTextBars(ctx, e, x+16, y, w-32, h)
		}
	case domain.ElementTypeImage:
		ctx.SetFillColor(imageFill)
		ctx.SetStrokeColor(imageStroke)
		ctx.SetStrokeWidth(2)
		ctx.DrawPath(x, y, rect(w, h, radius))
		cross := &canvas.Path{}
		cross.MoveTo(0, 0)
		cross.LineTo(w, h)
		cross.MoveTo(w, 0)
		cross.LineTo(0, h)
		ctx.DrawPath(x, y, cross)
	case domain.ElementTypeIcon:
		r := min(w, h) / 2
		ctx.SetFillColor(parseColor(e.Style.String(domain.StyleColor), inkDefault))
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.DrawPath(x+w/2-r, y+h/2-r, canvas.Circle(r))
	default:
		drawTextBars(ctx, e, x, y, w, h)
	}
}

func rect(w, h, radius float64) *canvas.Path {
	if radius > 0 {
		return canvas.RoundedRectangle(w, h, radius)
	}
	return canvas.Rectangle(w, h)
}

// drawTextBars approximates a line of text with a bar of the line height.
// Bars wrap when the content is wider than the box.
func drawTextBars(ctx *canvas.Context, e domain.Element, x, y, w, h float64) {
	n := utf8.RuneCountInString(e.Content)
	if n == 0 || w <= 0 {
		return
	}
	size, ok := e.Style.Number(domain.StyleFontSize)
	if !ok || size <= 0 {
		size = 16
	}
	barHeight := size * 0.6
	lineHeight := size * 1.3
	advance := size * 0.5

	ctx.SetFillColor(parseColor(e.Style.String(domain.StyleColor), inkDefault))
	ctx.SetStrokeColor(canvas.Transparent)

	remaining := float64(n) * advance
	top := y + (lineHeight-barHeight)/2
	for remaining > 0 && top+barHeight <= y+max(h, lineHeight) {
		length := min(remaining, w)
		ctx.DrawPath(x, top, canvas.Rectangle(length, barHeight))
		remaining -= length
		top += lineHeight
	}
}
