package render

import (
	"fmt"
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"strconv"

	"github.com/anthonynsimon/bild/segment"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/ocr-linegen/internal/imaging"
)

// Options are the styling parameters for one line image.
type Options struct {
	FontSize    int
	Background  imaging.Bit
	Foreground  imaging.Bit
	DPI         int
	Spacing     int
	Padding     int
	Alignment   string
	Compression imaging.Compression
}

// DefaultOptions returns the renderer defaults: 60pt text, black on white,
// 300 DPI, 10px spacing and padding, centred.
func DefaultOptions() Options {
	return Options{
		FontSize:   60,
		Background: imaging.White,
		Foreground: imaging.Black,
		DPI:        300,
		Spacing:    10,
		Padding:    10,
		Alignment:  AlignCenter,
	}
}

// Result describes a saved line image.
type Result struct {
	Path   string  `json:"path"`
	DPI    int     `json:"dpi"`
	Layout *Layout `json:"layout"`
}

// ImagePath returns the path of the image file for a line index.
func ImagePath(outputDir string, index int) string {
	return filepath.Join(outputDir, strconv.Itoa(index)+".tif")
}

// RenderLine renders text with the font at fontPath and saves it as
// <outputDir>/<index>.tif.
//
// Parameters:
//   - text: the trimmed line to draw, one rune at a time.
//   - fontPath: TrueType/OpenType font file.
//   - index: the line's 0-based index in the input, used for the file name.
//   - outputDir: destination directory, created if missing.
//   - opts: styling and output options.
//
// Returns:
//   - *Result: the saved path, DPI and computed layout.
//   - error: ErrFontNotFound if the font is missing, ErrInvalidAlignment for
//     an unknown alignment, or any font, layout or write failure. Nothing is
//     written when an error is returned.
func RenderLine(text, fontPath string, index int, outputDir string, opts Options) (*Result, error) {
	face, err := LoadFace(fontPath, float64(opts.FontSize))
	if err != nil {
		return nil, err
	}
	defer face.Close()

	bmp, layout, err := Rasterize(face, text, opts)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	path := ImagePath(outputDir, index)
	err = imaging.SaveTIFF(path, bmp, imaging.TIFFOptions{
		DPI:         opts.DPI,
		Compression: opts.Compression,
	})
	if err != nil {
		return nil, err
	}

	return &Result{Path: path, DPI: opts.DPI, Layout: layout}, nil
}

// Rasterize runs the sizing and draw passes for text and returns the binary
// canvas with its layout.
func Rasterize(face font.Face, text string, opts Options) (*imaging.Bitmap, *Layout, error) {
	m := MeasureText(face, text, opts.Spacing)

	layout, err := ComputeLayout(m, opts.Padding, opts.Alignment)
	if err != nil {
		return nil, nil, err
	}
	if layout.CanvasWidth <= 0 || layout.CanvasHeight <= 0 {
		return nil, nil, fmt.Errorf("empty canvas %dx%d for %q", layout.CanvasWidth, layout.CanvasHeight, text)
	}

	bounds := image.Rect(0, 0, layout.CanvasWidth, layout.CanvasHeight)
	scratch := image.NewGray(bounds)
	draw.Draw(scratch, bounds, image.NewUniform(opts.Background.Gray()), image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  scratch,
		Src:  image.NewUniform(opts.Foreground.Gray()),
		Face: face,
	}

	x := fixed.I(layout.X)
	baseline := fixed.I(layout.Baseline)
	for _, r := range text {
		dot := fixed.Point26_6{X: x, Y: baseline}
		g := MeasureGlyph(face, dot, r)

		d.Dot = dot
		d.DrawString(string(r))

		x += fixed.I(g.Width() + opts.Spacing)
	}
	layout.EndX = x.Floor()

	return imaging.FromGray(segment.Threshold(scratch, 128)), layout, nil
}
