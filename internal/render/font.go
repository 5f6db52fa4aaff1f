package render

import (
	"errors"
	"fmt"

	"github.com/tdewolff/canvas"
)

// systemFonts are tried in order when no font file is configured.
var systemFonts = []string{
	"DejaVu Sans",
	"Liberation Sans",
	"Noto Sans",
	"Arial",
	"Helvetica",
}

// ErrNoFont is returned when neither the configured file nor any of the
// known system fonts could be loaded.
var ErrNoFont = errors.New("render: no usable font")

// LoadFontFamily loads the font at path, or the first available system
// font when path is empty.
func LoadFontFamily(path string) (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily("resume")
	if path != "" {
		if err := family.LoadFontFile(path, canvas.FontRegular); err != nil {
			return nil, fmt.Errorf("load font %s: %w", path, err)
		}
		return family, nil
	}
	var errs []error
	for _, name := range systemFonts {
		err := family.LoadSystemFont(name, canvas.FontRegular)
		if err == nil {
			return family, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoFont, errors.Join(errs...))
}
