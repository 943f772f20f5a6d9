package imaging

import (
	"image"
	"image/color"
	"testing"
)

// createTestBitmap returns a white bitmap with a black rectangle drawn at r.
func createTestBitmap(width, height int, r image.Rectangle) *Bitmap {
	b := NewBitmap(image.Rect(0, 0, width, height), White)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			b.SetBit(x, y, Black)
		}
	}
	return b
}

func TestBitFromInt(t *testing.T) {
	tests := []struct {
		in      int
		want    Bit
		wantErr bool
	}{
		{0, Black, false},
		{1, White, false},
		{2, Black, true},
		{-1, Black, true},
		{255, Black, true},
	}

	for _, tt := range tests {
		got, err := BitFromInt(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("BitFromInt(%d) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("BitFromInt(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBilevelModel(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want Bit
	}{
		{"white", color.White, White},
		{"black", color.Black, Black},
		{"light gray", color.Gray{Y: 200}, White},
		{"dark gray", color.Gray{Y: 40}, Black},
		{"yellow", color.RGBA{255, 255, 0, 255}, White},
		{"navy", color.RGBA{0, 0, 128, 255}, Black},
		{"transparent", color.RGBA{}, Black},
		{"bit passthrough", White, White},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BilevelModel.Convert(tt.c)
			if got != tt.want {
				t.Errorf("Convert(%v) = %v, want %v", tt.c, got, tt.want)
			}
		})
	}
}

func TestNewBitmap(t *testing.T) {
	for _, bg := range []Bit{Black, White} {
		b := NewBitmap(image.Rect(0, 0, 13, 5), bg)
		if b.Stride != 2 {
			t.Errorf("Stride: got %d, want 2", b.Stride)
		}
		if len(b.Pix) != 10 {
			t.Errorf("len(Pix): got %d, want 10", len(b.Pix))
		}
		if got := countInk(b, bg); got != 0 {
			t.Errorf("background %v: %d pixels differ, want 0", bg, got)
		}
	}
}

func TestBitmap_SetAndAt(t *testing.T) {
	b := NewBitmap(image.Rect(0, 0, 20, 4), White)

	b.Set(9, 2, color.Black)
	if b.BitAt(9, 2) != Black {
		t.Error("Set(color.Black) did not clear the bit")
	}
	if b.BitAt(8, 2) != White || b.BitAt(10, 2) != White {
		t.Error("Set touched neighbouring pixels")
	}

	b.Set(9, 2, color.Gray{Y: 250})
	if b.At(9, 2) != White {
		t.Error("Set(light gray) did not set the bit")
	}

	// Out of bounds writes are ignored and reads return Black.
	b.SetBit(100, 100, Black)
	if b.BitAt(-1, 0) != Black {
		t.Error("BitAt outside bounds should be Black")
	}
}

func TestBitmap_NonZeroOrigin(t *testing.T) {
	b := NewBitmap(image.Rect(5, 5, 15, 10), White)
	b.SetBit(5, 5, Black)
	b.SetBit(14, 9, Black)

	if b.BitAt(5, 5) != Black || b.BitAt(14, 9) != Black {
		t.Error("corners not set")
	}
	if got := countInk(b, White); got != 2 {
		t.Errorf("black pixels = %d, want 2", got)
	}
}

func TestBitmap_Fill(t *testing.T) {
	b := createTestBitmap(10, 10, image.Rect(2, 2, 5, 5))
	b.Fill(Black)
	if got := countInk(b, Black); got != 0 {
		t.Errorf("after Fill(Black), %d white pixels remain", got)
	}
}

func TestFromGray(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 1))
	g.SetGray(0, 0, color.Gray{Y: 0})
	g.SetGray(1, 0, color.Gray{Y: 127})
	g.SetGray(2, 0, color.Gray{Y: 128})
	g.SetGray(3, 0, color.Gray{Y: 255})

	b := FromGray(g)
	want := []Bit{Black, Black, White, White}
	for x, w := range want {
		if got := b.BitAt(x, 0); got != w {
			t.Errorf("pixel %d: got %v, want %v", x, got, w)
		}
	}
}
