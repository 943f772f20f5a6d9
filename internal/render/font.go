package render

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// ErrFontNotFound is returned when the configured font file does not exist.
var ErrFontNotFound = errors.New("font file not found")

// LoadFace opens the TrueType/OpenType font at path as a face of the given
// point size.
//
// The face is created at 72 DPI so one point equals one pixel; the output
// DPI is metadata only and never scales glyphs. Font collections (.ttc/.otc)
// are accepted and their first font is used. The caller must Close the face.
func LoadFace(path string, size float64) (font.Face, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFontNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat font: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}

	f, err := parseFont(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	return face, nil
}

func parseFont(data []byte) (*opentype.Font, error) {
	f, err := opentype.Parse(data)
	if err == nil {
		return f, nil
	}

	c, cerr := opentype.ParseCollection(data)
	if cerr != nil || c.NumFonts() == 0 {
		return nil, err
	}
	return c.Font(0)
}
