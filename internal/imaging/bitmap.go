package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Bit is a single bilevel pixel value.
//
// Bit implements color.Color so it can be passed anywhere the standard
// library expects a colour (for example as the source of image.Uniform).
type Bit uint8

const (
	// Black is the 0 value, the foreground of a normal dark-on-light line.
	Black Bit = 0
	// White is the 1 value, the background of a normal dark-on-light line.
	White Bit = 1
)

// BitFromInt converts a configured colour value to a Bit.
//
// Only 0 and 1 are accepted; any other value returns an error.
func BitFromInt(v int) (Bit, error) {
	switch v {
	case 0:
		return Black, nil
	case 1:
		return White, nil
	default:
		return Black, fmt.Errorf("bilevel colour must be 0 or 1, got %d", v)
	}
}

// RGBA implements color.Color.
func (b Bit) RGBA() (r, g, bl, a uint32) {
	if b == White {
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
	return 0, 0, 0, 0xffff
}

// Gray returns the 8-bit gray equivalent of the bit (0 or 255).
func (b Bit) Gray() color.Gray {
	if b == White {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{Y: 0}
}

func (b Bit) String() string {
	if b == White {
		return "white"
	}
	return "black"
}

// BilevelModel converts any colour to a Bit.
//
// Conversion uses perceptual lightness: a colour whose CIE L* (as computed by
// go-colorful, range 0-1) is at least 0.5 becomes White, anything darker
// becomes Black. Fully transparent colours become Black.
var BilevelModel color.Model = color.ModelFunc(bilevelModel)

func bilevelModel(c color.Color) color.Color {
	return toBit(c)
}

func toBit(c color.Color) Bit {
	if b, ok := c.(Bit); ok {
		return b
	}
	if g, ok := c.(color.Gray); ok {
		if g.Y >= 0x80 {
			return White
		}
		return Black
	}
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return Black
	}
	l, _, _ := cf.Lab()
	if l >= 0.5 {
		return White
	}
	return Black
}

// Bitmap is an in-memory image whose pixels are restricted to Black and White.
//
// Pixels are packed 8 per byte, most significant bit first, with each row
// starting on a byte boundary. A set bit is White. This is exactly the row
// layout of an uncompressed 1-bit TIFF strip, so the encoder writes Pix
// without conversion.
type Bitmap struct {
	// Pix holds the packed rows. Row y starts at (y-Rect.Min.Y)*Stride.
	Pix []uint8
	// Stride is the number of bytes per row: (width+7)/8.
	Stride int
	// Rect is the image bounds.
	Rect image.Rectangle
}

// NewBitmap allocates a bitmap with the given bounds, filled with background.
func NewBitmap(r image.Rectangle, background Bit) *Bitmap {
	w, h := r.Dx(), r.Dy()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	stride := (w + 7) / 8
	b := &Bitmap{
		Pix:    make([]uint8, stride*h),
		Stride: stride,
		Rect:   r,
	}
	b.Fill(background)
	return b
}

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model { return BilevelModel }

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle { return b.Rect }

// At implements image.Image. Pixels outside the bounds read as Black.
func (b *Bitmap) At(x, y int) color.Color {
	return b.BitAt(x, y)
}

// BitAt returns the bit at (x, y), or Black outside the bounds.
func (b *Bitmap) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return Black
	}
	i, mask := b.offset(x, y)
	if b.Pix[i]&mask != 0 {
		return White
	}
	return Black
}

// Set implements draw.Image. The colour is reduced through BilevelModel.
func (b *Bitmap) Set(x, y int, c color.Color) {
	b.SetBit(x, y, toBit(c))
}

// SetBit sets the bit at (x, y). Points outside the bounds are ignored.
func (b *Bitmap) SetBit(x, y int, v Bit) {
	if !(image.Point{X: x, Y: y}.In(b.Rect)) {
		return
	}
	i, mask := b.offset(x, y)
	if v == White {
		b.Pix[i] |= mask
	} else {
		b.Pix[i] &^= mask
	}
}

// Fill sets every pixel to v.
func (b *Bitmap) Fill(v Bit) {
	var fill uint8
	if v == White {
		fill = 0xff
	}
	for i := range b.Pix {
		b.Pix[i] = fill
	}
}

// row returns the packed bytes of row y (0-based relative to Rect.Min.Y).
func (b *Bitmap) row(y int) []uint8 {
	return b.Pix[y*b.Stride : (y+1)*b.Stride]
}

func (b *Bitmap) offset(x, y int) (int, uint8) {
	dx := x - b.Rect.Min.X
	i := (y-b.Rect.Min.Y)*b.Stride + dx/8
	return i, 0x80 >> uint(dx%8)
}

// FromGray binarises a grayscale image into a Bitmap.
//
// Pixels with Y >= 128 become White. Callers that want a different cut-off
// should threshold first (for example with bild's segment.Threshold, which
// produces an *image.Gray of 0/255 values).
func FromGray(g *image.Gray) *Bitmap {
	r := g.Bounds()
	b := NewBitmap(r, Black)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if g.GrayAt(x, y).Y >= 0x80 {
				b.SetBit(x, y, White)
			}
		}
	}
	return b
}
