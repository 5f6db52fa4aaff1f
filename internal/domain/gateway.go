package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidProjectID = errors.New("invalid project id")
)

// ProjectPayload is the body exchanged with the persistence gateway.
// Data is an opaque blob carrying the element list.
type ProjectPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	Thumbnail   *Thumbnail      `json:"thumbnail,omitempty"`
}

// ProjectRecord is what the gateway returns for a stored project.
type ProjectRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Data        json.RawMessage `json:"data"`
	Thumbnail   *Thumbnail      `json:"thumbnail,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type projectData struct {
	Elements []Element `json:"elements"`
}

// EncodeProjectData wraps elements into the opaque data blob.
func EncodeProjectData(elements []Element) (json.RawMessage, error) {
	if elements == nil {
		elements = []Element{}
	}
	b, err := json.Marshal(projectData{Elements: elements})
	if err != nil {
		return nil, fmt.Errorf("encode project data: %w", err)
	}
	return b, nil
}

// DecodeProjectData extracts the element list from a data blob. Blobs that
// are not an object with an "elements" array, or that contain elements
// without an id or with an unknown type, are reported as errors.
func DecodeProjectData(raw json.RawMessage) ([]Element, error) {
	if len(raw) == 0 {
		return nil, errors.New("decode project data: empty")
	}
	var d struct {
		Elements *[]Element `json:"elements"`
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode project data: %w", err)
	}
	if d.Elements == nil {
		return nil, errors.New("decode project data: missing elements")
	}
	seen := make(map[string]struct{}, len(*d.Elements))
	for i, e := range *d.Elements {
		if e.ID == "" {
			return nil, fmt.Errorf("decode project data: element %d has no id", i)
		}
		if !e.Type.Valid() {
			return nil, fmt.Errorf("decode project data: element %s has unknown type %q", e.ID, e.Type)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("decode project data: duplicate element id %s", e.ID)
		}
		seen[e.ID] = struct{}{}
		if e.Style == nil {
			(*d.Elements)[i].Style = Style{}
		}
	}
	return *d.Elements, nil
}

// ProjectGateway creates, updates and fetches projects on the server.
// Credentials are attached by the implementation.
type ProjectGateway interface {
	Create(ctx context.Context, p ProjectPayload) (*ProjectRecord, error)
	Update(ctx context.Context, id string, p ProjectPayload) (*ProjectRecord, error)
	Fetch(ctx context.Context, id string) (*ProjectRecord, error)
}

// Region describes the canvas area to rasterize.
type Region struct {
	Width    float64
	Height   float64
	Elements []Element
}

// ThumbnailCapturer rasterizes a canvas region into a thumbnail image.
type ThumbnailCapturer interface {
	Capture(ctx context.Context, r Region) (Thumbnail, error)
}

type UploadedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// ImageUploader hosts images referenced by element content.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (UploadedImage, error)
	Delete(ctx context.Context, publicID string) error
}
