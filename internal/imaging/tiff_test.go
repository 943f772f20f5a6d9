package imaging

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

// unpackBits decodes PackBits data, for checking the encoder.
func unpackBits(t *testing.T, src []byte) []byte {
	t.Helper()
	var out []byte
	for i := 0; i < len(src); {
		n := int(int8(src[i]))
		i++
		switch {
		case n >= 0:
			if i+n+1 > len(src) {
				t.Fatalf("literal run overflows input at %d", i)
			}
			out = append(out, src[i:i+n+1]...)
			i += n + 1
		case n > -128:
			if i >= len(src) {
				t.Fatalf("replicate run missing byte at %d", i)
			}
			for k := 0; k < 1-n; k++ {
				out = append(out, src[i])
			}
			i++
		default:
			// -128 is a no-op
		}
	}
	return out
}

func TestPackBits(t *testing.T) {
	long := bytes.Repeat([]byte{0xAA}, 300)
	mixed := append([]byte{1, 2, 3}, bytes.Repeat([]byte{0}, 10)...)
	mixed = append(mixed, 4, 4, 5)
	literal := make([]byte, 200)
	for i := range literal {
		literal[i] = byte(i)
	}

	tests := []struct {
		name string
		in   []byte
	}{
		{"empty", nil},
		{"single", []byte{0xFF}},
		{"pair", []byte{7, 7}},
		{"long run", long},
		{"mixed", mixed},
		{"long literal", literal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := packBits(nil, tt.in)
			got := unpackBits(t, enc)
			if !bytes.Equal(got, tt.in) && !(len(got) == 0 && len(tt.in) == 0) {
				t.Errorf("round trip mismatch: got %v, want %v", got, tt.in)
			}
		})
	}

	if enc := packBits(nil, long); len(enc) > 6 {
		t.Errorf("300-byte run should compress to 3 runs (6 bytes), got %d bytes", len(enc))
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in      string
		want    Compression
		wantErr bool
	}{
		{"", CompressionNone, false},
		{"none", CompressionNone, false},
		{"RAW", CompressionNone, false},
		{"packbits", CompressionPackBits, false},
		{"Deflate", CompressionDeflate, false},
		{"zip", CompressionDeflate, false},
		{"lzw", CompressionNone, true},
	}

	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCompression(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCompression(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEncodeTIFF_Decodes(t *testing.T) {
	src := createTestBitmap(37, 11, image.Rect(3, 2, 20, 9))

	for _, c := range []Compression{CompressionNone, CompressionPackBits, CompressionDeflate} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := EncodeTIFF(&buf, src, TIFFOptions{DPI: 300, Compression: c}); err != nil {
				t.Fatalf("EncodeTIFF failed: %v", err)
			}

			img, err := tiff.Decode(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("tiff.Decode failed: %v", err)
			}

			if img.Bounds().Dx() != 37 || img.Bounds().Dy() != 11 {
				t.Fatalf("decoded size %dx%d, want 37x11", img.Bounds().Dx(), img.Bounds().Dy())
			}

			for y := 0; y < 11; y++ {
				for x := 0; x < 37; x++ {
					want := src.BitAt(x, y)
					got := toBit(img.At(x, y))
					if got != want {
						t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestDecodeTIFFInfo(t *testing.T) {
	src := createTestBitmap(16, 8, image.Rect(1, 1, 4, 4))

	var buf bytes.Buffer
	if err := EncodeTIFF(&buf, src, TIFFOptions{DPI: 600, Compression: CompressionPackBits}); err != nil {
		t.Fatalf("EncodeTIFF failed: %v", err)
	}

	info, err := DecodeTIFFInfo(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecodeTIFFInfo failed: %v", err)
	}

	if info.Width != 16 || info.Height != 8 {
		t.Errorf("size: got %dx%d, want 16x8", info.Width, info.Height)
	}
	if info.BitsPerSample != 1 {
		t.Errorf("BitsPerSample: got %d, want 1", info.BitsPerSample)
	}
	if info.Compression != 32773 {
		t.Errorf("Compression: got %d, want 32773", info.Compression)
	}
	if info.Photometric != photometricBlackIsZero {
		t.Errorf("Photometric: got %d, want %d", info.Photometric, photometricBlackIsZero)
	}
	if info.XResolution != 600 || info.YResolution != 600 {
		t.Errorf("resolution: got %gx%g, want 600x600", info.XResolution, info.YResolution)
	}
	if info.DPI() != 600 {
		t.Errorf("DPI: got %g, want 600", info.DPI())
	}
}

func TestDecodeTIFFInfo_NotTIFF(t *testing.T) {
	_, err := DecodeTIFFInfo(bytes.NewReader([]byte("\x89PNG\r\n\x1a\n....")))
	if err == nil {
		t.Error("DecodeTIFFInfo should fail for non-TIFF data")
	}
}

func TestTIFFInfo_DPI_Centimetres(t *testing.T) {
	info := &TIFFInfo{XResolution: 100, ResolutionUnit: resolutionUnitCM}
	if got := info.DPI(); got != 254 {
		t.Errorf("DPI: got %g, want 254", got)
	}
}

func TestEncodeTIFF_Errors(t *testing.T) {
	var buf bytes.Buffer

	empty := NewBitmap(image.Rect(0, 0, 0, 5), White)
	if err := EncodeTIFF(&buf, empty, TIFFOptions{DPI: 300}); err == nil {
		t.Error("EncodeTIFF should fail for an empty bitmap")
	}

	b := NewBitmap(image.Rect(0, 0, 5, 5), White)
	if err := EncodeTIFF(&buf, b, TIFFOptions{DPI: 0}); err == nil {
		t.Error("EncodeTIFF should fail for DPI 0")
	}
}

func TestSaveTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.tif")
	b := createTestBitmap(30, 10, image.Rect(5, 2, 25, 8))

	if err := SaveTIFF(path, b, TIFFOptions{DPI: 300}); err != nil {
		t.Fatalf("SaveTIFF failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open saved file: %v", err)
	}
	defer f.Close()

	img, err := tiff.Decode(f)
	if err != nil {
		t.Fatalf("tiff.Decode failed: %v", err)
	}
	if _, ok := img.(*image.Gray); !ok {
		t.Errorf("decoded type %T, want *image.Gray", img)
	}
}

func TestSaveTIFF_BadDirectory(t *testing.T) {
	b := NewBitmap(image.Rect(0, 0, 5, 5), White)
	err := SaveTIFF("/nonexistent/dir/line.tif", b, TIFFOptions{DPI: 300})
	if err == nil {
		t.Error("SaveTIFF should fail for a missing directory")
	}
}
