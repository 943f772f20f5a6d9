package imaging

import (
	"image"
)

// Margins are the blank (background-only) bands around the ink of an image.
type Margins struct {
	Left   int `json:"left"`
	Right  int `json:"right"`
	Top    int `json:"top"`
	Bottom int `json:"bottom"`
}

// InkBounds returns the smallest rectangle containing every pixel that does
// not reduce to background. ok is false when the image has no ink at all.
func InkBounds(img image.Image, background Bit) (r image.Rectangle, ok bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if toBit(img.At(x, y)) == background {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// MeasureMargins returns the blank margins on each side of the ink.
// An image without ink reports its full width and height as left and top.
func MeasureMargins(img image.Image, background Bit) Margins {
	b := img.Bounds()
	ink, ok := InkBounds(img, background)
	if !ok {
		return Margins{Left: b.Dx(), Top: b.Dy()}
	}
	return Margins{
		Left:   ink.Min.X - b.Min.X,
		Right:  b.Max.X - ink.Max.X,
		Top:    ink.Min.Y - b.Min.Y,
		Bottom: b.Max.Y - ink.Max.Y,
	}
}

// DominantBit returns the bit held by the majority of pixels, which for a
// rendered line is its background. Ties resolve to White.
func DominantBit(img image.Image) Bit {
	b := img.Bounds()
	black := countInk(img, White)
	if black*2 > b.Dx()*b.Dy() {
		return Black
	}
	return White
}

func countInk(img image.Image, background Bit) int {
	b := img.Bounds()
	n := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if toBit(img.At(x, y)) != background {
				n++
			}
		}
	}
	return n
}
