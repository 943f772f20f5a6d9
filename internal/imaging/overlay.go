package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// OverlayOptions controls Overlay.
type OverlayOptions struct {
	// GridSpacing is the distance between grid lines in pixels. Zero or
	// negative disables the grid.
	GridSpacing int
	// ShowCoordinates labels every grid intersection with "x,y".
	ShowCoordinates bool
	// GridColor and InkColor are "#RRGGBB" hex colours.
	GridColor string
	InkColor  string
	// Background is the bit treated as empty when locating the ink box.
	Background Bit
}

// DefaultOverlayOptions returns a 10px red grid with a blue ink box on a
// white background.
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		GridSpacing: 10,
		GridColor:   "#ff4040",
		InkColor:    "#2060ff",
		Background:  White,
	}
}

// Overlay copies img to RGBA and draws a coordinate grid and the ink
// bounding box on top, for checking padding and alignment by eye.
func Overlay(img image.Image, opts OverlayOptions) (*image.RGBA, error) {
	gridColor, err := colorful.Hex(opts.GridColor)
	if err != nil {
		return nil, fmt.Errorf("invalid grid colour %q: %w", opts.GridColor, err)
	}
	inkColor, err := colorful.Hex(opts.InkColor)
	if err != nil {
		return nil, fmt.Errorf("invalid ink colour %q: %w", opts.InkColor, err)
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	if opts.GridSpacing > 0 {
		gc := toRGBA(gridColor)
		for x := bounds.Min.X + opts.GridSpacing; x < bounds.Max.X; x += opts.GridSpacing {
			for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
				result.Set(x, y, gc)
			}
		}
		for y := bounds.Min.Y + opts.GridSpacing; y < bounds.Max.Y; y += opts.GridSpacing {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				result.Set(x, y, gc)
			}
		}

		if opts.ShowCoordinates {
			label := image.NewUniform(color.RGBA{0, 0, 0, 255})
			for y := bounds.Min.Y + opts.GridSpacing; y < bounds.Max.Y; y += opts.GridSpacing {
				for x := bounds.Min.X + opts.GridSpacing; x < bounds.Max.X; x += opts.GridSpacing {
					d := &font.Drawer{
						Dst:  result,
						Src:  label,
						Face: basicfont.Face7x13,
						Dot:  fixed.P(x+2, y+12),
					}
					d.DrawString(fmt.Sprintf("%d,%d", x, y))
				}
			}
		}
	}

	if ink, ok := InkBounds(img, opts.Background); ok {
		outline(result, ink, toRGBA(inkColor))
	}

	return result, nil
}

// SaveOverlay renders Overlay for img and writes it to path. The output
// format follows the file extension (PNG, JPEG, GIF, TIFF or BMP).
func SaveOverlay(img image.Image, path string, opts OverlayOptions) error {
	out, err := Overlay(img, opts)
	if err != nil {
		return err
	}
	if err := imaging.Save(out, path); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}
	return nil
}

// outline draws the 1px border just inside r.
func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
