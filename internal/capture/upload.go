package capture

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"resumecanvas/internal/domain"
)

// Uploading rasterizes the region and hosts the PNG through an image
// uploader, so saves carry a short URL instead of inline image data. The
// previously uploaded thumbnail is deleted once a new one is in place.
type Uploading struct {
	raster   *Rasterizer
	uploader domain.ImageUploader
	log      *slog.Logger

	mu       sync.Mutex
	previous string
}

func NewUploading(raster *Rasterizer, uploader domain.ImageUploader, log *slog.Logger) *Uploading {
	if raster == nil {
		raster = NewRasterizer()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Uploading{raster: raster, uploader: uploader, log: log}
}

func (u *Uploading) Capture(ctx context.Context, r domain.Region) (domain.Thumbnail, error) {
	b, err := u.raster.PNG(r)
	if err != nil {
		return domain.Thumbnail{}, err
	}
	img, err := u.uploader.Upload(ctx, "thumbnail-"+uuid.NewString()+".png", bytes.NewReader(b))
	if err != nil {
		return domain.Thumbnail{}, fmt.Errorf("capture: upload thumbnail: %w", err)
	}

	u.mu.Lock()
	prev := u.previous
	u.previous = img.PublicID
	u.mu.Unlock()

	if prev != "" && prev != img.PublicID {
		if err := u.uploader.Delete(ctx, prev); err != nil {
			u.log.Warn("capture: delete previous thumbnail", "publicId", prev, "error", err)
		}
	}
	return domain.Thumbnail{URL: img.URL, PublicID: img.PublicID}, nil
}

// Seed records the thumbnail a loaded project already references so it is
// replaced, not leaked, on the next capture.
func (u *Uploading) Seed(t *domain.Thumbnail) {
	if t == nil || t.PublicID == "" {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.previous == "" {
		u.previous = t.PublicID
	}
}
