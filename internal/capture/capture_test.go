package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"resumecanvas/internal/domain"
)

func region() domain.Region {
	return domain.Region{
		Width:  794,
		Height: 1123,
		Elements: []domain.Element{
			{ID: "band", Type: domain.ElementTypeSection, Content: "Experience", ZIndex: 1,
				Position: domain.Position{X: 0, Y: 0},
				Style:    domain.Style{domain.StyleWidth: 794.0, domain.StyleHeight: 400.0, domain.StyleBackgroundColor: "#ff0000"}},
			{ID: "title", Type: domain.ElementTypeText, Content: "Jane Doe", ZIndex: 2,
				Position: domain.Position{X: 48, Y: 600},
				Style:    domain.Style{domain.StyleWidth: 240.0, domain.StyleHeight: 40.0, domain.StyleFontSize: 28.0}},
			{ID: "img", Type: domain.ElementTypeImage, ZIndex: 3,
				Position: domain.Position{X: 500, Y: 700},
				Style:    domain.Style{domain.StyleWidth: 160.0, domain.StyleHeight: 160.0}},
		},
	}
}

func TestRasterizer_ImageSizeAndColours(t *testing.T) {
	img, err := NewRasterizer().Image(region())
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	b := img.Bounds()
	if b.Dx() < DefaultThumbnailWidth-1 || b.Dx() > DefaultThumbnailWidth+1 {
		t.Errorf("width = %d, want ~%d", b.Dx(), DefaultThumbnailWidth)
	}
	h := float64(DefaultThumbnailWidth) * 1123 / 794
	wantH := int(h)
	if d := b.Dy() - wantH; d < -1 || d > 1 {
		t.Errorf("height = %d, want ~%d", b.Dy(), wantH)
	}

	// Inside the red band near the top.
	r, g, _, _ := img.At(b.Dx()/2, 5).RGBA()
	if r>>8 < 200 || g>>8 > 60 {
		t.Errorf("band pixel = %v, want red", img.At(b.Dx()/2, 5))
	}
	// Bottom corner stays paper white.
	if c := color.RGBAModel.Convert(img.At(2, b.Dy()-3)).(color.RGBA); c.R < 250 || c.G < 250 || c.B < 250 {
		t.Errorf("corner pixel = %v, want white", c)
	}
}

func TestRasterizer_EmptyRegion(t *testing.T) {
	if _, err := NewRasterizer().Image(domain.Region{}); err == nil {
		t.Fatal("expected error for empty region")
	}
}

func TestRasterizer_CaptureIsDataURL(t *testing.T) {
	th, err := NewRasterizer().Capture(context.Background(), region())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(th.URL, prefix) || !strings.HasPrefix(th.PublicID, "thumb-") {
		t.Fatalf("thumbnail = %.60s / %s", th.URL, th.PublicID)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(th.URL, prefix))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(raw)); err != nil {
		t.Fatalf("png: %v", err)
	}
}

func TestRasterizer_CaptureHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRasterizer().Capture(ctx, region()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseColor(t *testing.T) {
	fb := color.RGBA{R: 1, G: 2, B: 3, A: 255}
	if got := parseColor("#00ff00", fb); got.G != 255 || got.R != 0 {
		t.Errorf("parseColor(#00ff00) = %v", got)
	}
	for _, s := range []string{"", "red", "#12", "rgb(1,2,3)"} {
		if got := parseColor(s, fb); got != fb {
			t.Errorf("parseColor(%q) = %v, want fallback", s, got)
		}
	}
}

func TestPaintOrder(t *testing.T) {
	in := []domain.Element{{ID: "a", ZIndex: 3}, {ID: "b", ZIndex: 1}, {ID: "c", ZIndex: 2}}
	out := paintOrder(in)
	if out[0].ID != "b" || out[1].ID != "c" || out[2].ID != "a" {
		t.Errorf("order = %v", out)
	}
	if in[0].ID != "a" {
		t.Error("input reordered")
	}
}

// ─────────────────────────────────────────────────────────────
// Uploading
// ─────────────────────────────────────────────────────────────

type fakeUploader struct {
	uploads []string
	deleted []string
	n       int
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, name string, r io.Reader) (domain.UploadedImage, error) {
	if f.err != nil {
		return domain.UploadedImage{}, f.err
	}
	b, _ := io.ReadAll(r)
	if _, err := png.Decode(bytes.NewReader(b)); err != nil {
		return domain.UploadedImage{}, err
	}
	f.n++
	f.uploads = append(f.uploads, name)
	id := "img-" + string(rune('0'+f.n))
	return domain.UploadedImage{URL: "https://cdn/" + id, PublicID: id}, nil
}

func (f *fakeUploader) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func TestUploading_ReplacesPreviousThumbnail(t *testing.T) {
	up := &fakeUploader{}
	c := NewUploading(nil, up, nil)
	c.Seed(&domain.Thumbnail{URL: "https://cdn/old", PublicID: "old"})

	first, err := c.Capture(context.Background(), region())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	second, err := c.Capture(context.Background(), region())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if first.PublicID != "img-1" || second.PublicID != "img-2" {
		t.Errorf("ids = %s, %s", first.PublicID, second.PublicID)
	}
	if len(up.deleted) != 2 || up.deleted[0] != "old" || up.deleted[1] != "img-1" {
		t.Errorf("deleted = %v", up.deleted)
	}
	if !strings.HasSuffix(up.uploads[0], ".png") {
		t.Errorf("upload name = %q", up.uploads[0])
	}
}

func TestUploading_UploadFailure(t *testing.T) {
	up := &fakeUploader{err: errors.New("quota")}
	if _, err := NewUploading(nil, up, nil).Capture(context.Background(), region()); err == nil {
		t.Fatal("expected error")
	}
}
