package imaging

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Load decodes the image at path.
//
// Decoding goes through disintegration/imaging, which registers TIFF and BMP
// in addition to the standard PNG, JPEG and GIF decoders. A 1-bit TIFF
// written by EncodeTIFF decodes to an *image.Gray holding only 0 and 255.
//
// # Errors
//
//   - Returns error if the file does not exist or cannot be read
//   - Returns error if the file is not a decodable image
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return img, nil
}

// ImageInfo contains metadata about an image file on disk.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is derived from the file extension: "tiff", "png", "jpeg",
	// "gif", "bmp" or "unknown".
	Format string `json:"format"`

	// BitsPerSample is read from the TIFF header. Zero for other formats.
	BitsPerSample int `json:"bits_per_sample,omitempty"`

	// Compression is the TIFF compression name, empty for other formats.
	Compression string `json:"compression,omitempty"`

	// DPI is the recorded horizontal resolution. Zero when absent.
	DPI float64 `json:"dpi,omitempty"`

	// Bilevel reports whether every decoded pixel is pure black or pure white.
	Bilevel bool `json:"bilevel"`

	// Background is the majority bit ("black" or "white").
	Background string `json:"background"`

	// InkPixels is the number of pixels that differ from the background.
	InkPixels int `json:"ink_pixels"`

	// Margins are the blank bands between the ink and each image edge.
	Margins Margins `json:"margins"`

	// FileSizeBytes is the size of the file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image and returns its metadata.
//
// For TIFF files the header is read a second time with DecodeTIFFInfo so the
// bit depth, compression and DPI are reported; the standard decoders do not
// expose them.
func LoadImageInfo(path string) (*ImageInfo, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	bounds := img.Bounds()
	info := &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        formatFromExt(path),
		Bilevel:       isBilevel(img),
		FileSizeBytes: stat.Size(),
	}

	bg := DominantBit(img)
	info.Background = bg.String()
	info.InkPixels = countInk(img, bg)
	info.Margins = MeasureMargins(img, bg)

	if info.Format == "tiff" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open image: %w", err)
		}
		defer f.Close()

		t, err := DecodeTIFFInfo(f)
		if err != nil {
			return nil, err
		}
		info.BitsPerSample = t.BitsPerSample
		info.Compression = compressionName(t.Compression)
		info.DPI = t.DPI()
	}

	return info, nil
}

func formatFromExt(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tif", ".tiff":
		return "tiff"
	case ".png":
		return "png"
	case ".jpg", ".jpeg":
		return "jpeg"
	case ".gif":
		return "gif"
	case ".bmp":
		return "bmp"
	}
	return "unknown"
}

func compressionName(v int) string {
	switch v {
	case 1:
		return "none"
	case 32773:
		return "packbits"
	case 8, 32946:
		return "deflate"
	}
	return fmt.Sprintf("tiff-%d", v)
}

// isBilevel reports whether every pixel is opaque pure black or pure white.
func isBilevel(img image.Image) bool {
	if _, ok := img.(*Bitmap); ok {
		return true
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a != 0xffff {
				return false
			}
			black := r == 0 && g == 0 && bl == 0
			white := r == 0xffff && g == 0xffff && bl == 0xffff
			if !black && !white {
				return false
			}
		}
	}
	return true
}
