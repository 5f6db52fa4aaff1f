package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"resumecanvas/internal/domain"
)

// ReadResume decodes a JSON resume document.
func ReadResume(r io.Reader) (domain.Resume, error) {
	var res domain.Resume
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&res); err != nil {
		return domain.Resume{}, fmt.Errorf("decode resume: %w", err)
	}
	return res, nil
}

// LoadResume reads a JSON resume document from path.
func LoadResume(path string) (domain.Resume, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Resume{}, fmt.Errorf("open resume: %w", err)
	}
	defer f.Close()
	return ReadResume(f)
}
